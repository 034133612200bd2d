package html

import (
	"strings"
)

type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Document is a parsed page. Root is a synthetic "document" node whose
// only element child is <html>. Stylesheets and Scripts hold the text of
// every <style> and <script> element in document order. Each
// <link rel="stylesheet"> reserves an empty slot in Stylesheets, recorded
// in StyleLinks, for a loader to fill.
type Document struct {
	Root        *Node
	Stylesheets []string
	StyleLinks  []StyleLink
	Scripts     []string
}

// StyleLink is an external stylesheet reference.
type StyleLink struct {
	Href  string
	Index int // slot in Document.Stylesheets
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
		Children:   make([]*Node, 0),
	}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// ID returns the id attribute, or "" when unset.
func (n *Node) ID() string {
	id, _ := n.GetAttribute("id")
	return id
}

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	cls, _ := n.GetAttribute("class")
	return strings.Fields(cls)
}

// AddChild adds a child node and sets up the parent relationship
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(&Node{Type: TextNode, Text: text})
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return child
		}
	}
	return nil
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	for _, child := range n.Children {
		child.Parent = nil
	}
	n.Children = n.Children[:0]
	n.AppendText(text)
}

// Walk visits n and its descendants depth-first in document order until
// fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// GetElementByID returns the first element below n with the given id.
func (n *Node) GetElementByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.Type == ElementNode && c.ID() == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// FirstChildElement returns the first child element with the given tag.
func (n *Node) FirstChildElement(tag string) *Node {
	for _, c := range n.Children {
		if c.Type == ElementNode && c.TagName == tag {
			return c
		}
	}
	return nil
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Node {
	return d.Root.FirstChildElement("html")
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Node {
	if h := d.DocumentElement(); h != nil {
		return h.FirstChildElement("head")
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Node {
	if h := d.DocumentElement(); h != nil {
		return h.FirstChildElement("body")
	}
	return nil
}

// GetElementByID searches the whole document.
func (d *Document) GetElementByID(id string) *Node {
	return d.Root.GetElementByID(id)
}

// NewStyleElement builds a detached <style> element holding cssText. It
// has no effect on any document until attached.
func NewStyleElement(cssText string) *Node {
	style := NewElement("style")
	style.AppendText(cssText)
	return style
}

// AttachStyle appends a <style> element to the document head (or to the
// root element when there is no head) and registers its text so the
// cascade picks it up.
func (d *Document) AttachStyle(style *Node) {
	parent := d.Head()
	if parent == nil {
		parent = d.DocumentElement()
	}
	if parent == nil {
		parent = d.Root
	}
	parent.AddChild(style)
	d.Stylesheets = append(d.Stylesheets, style.TextContent())
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.Parent {
		if c == n {
			return true
		}
	}
	return false
}
