package html

import (
	"fmt"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a Document from HTML source. Tree construction follows the
// HTML5 algorithm, so <html>, <head> and <body> always exist.
func Parse(src string) (*Document, error) {
	root, err := nethtml.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	doc := NewDocument()
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		convert(doc, doc.Root, c)
	}
	return doc, nil
}

// convert copies src and its subtree below parent, collecting style and
// script text on the way.
func convert(doc *Document, parent *Node, src *nethtml.Node) {
	switch src.Type {
	case nethtml.ElementNode:
		node := NewElement(src.Data)
		for _, a := range src.Attr {
			node.Attributes[strings.ToLower(a.Key)] = a.Val
		}
		parent.AddChild(node)

		switch src.DataAtom {
		case atom.Style:
			doc.Stylesheets = append(doc.Stylesheets, rawText(src))
		case atom.Link:
			rel, _ := node.GetAttribute("rel")
			href, ok := node.GetAttribute("href")
			if ok && hasToken(rel, "stylesheet") {
				doc.StyleLinks = append(doc.StyleLinks, StyleLink{Href: href, Index: len(doc.Stylesheets)})
				doc.Stylesheets = append(doc.Stylesheets, "")
			}
		case atom.Script:
			if typ, ok := node.GetAttribute("type"); !ok || isJavaScript(typ) {
				doc.Scripts = append(doc.Scripts, rawText(src))
			}
		}

		for c := src.FirstChild; c != nil; c = c.NextSibling {
			convert(doc, node, c)
		}
	case nethtml.TextNode:
		parent.AppendText(src.Data)
	}
}

func rawText(n *nethtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

func isJavaScript(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "text/javascript", "application/javascript", "module":
		return true
	}
	return false
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
