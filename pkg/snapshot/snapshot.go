// Package snapshot holds element geometry and computed styles captured from
// a real browser, and adapts them to the transform resolver.
package snapshot

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"domxform/pkg/transform"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Style is the computed style of the four transform properties, as
// getComputedStyle reports them.
type Style struct {
	Transform         string `json:"transform"`
	TransformOrigin   string `json:"transformOrigin"`
	Perspective       string `json:"perspective"`
	PerspectiveOrigin string `json:"perspectiveOrigin"`
}

// Element is one captured element. Parent and OffsetParent index into
// Snapshot.Elements; -1 means none.
type Element struct {
	Tag          string  `json:"tag"`
	ID           string  `json:"id,omitempty"`
	OffsetWidth  float64 `json:"offsetWidth"`
	OffsetHeight float64 `json:"offsetHeight"`
	OffsetLeft   float64 `json:"offsetLeft"`
	OffsetTop    float64 `json:"offsetTop"`
	ScrollLeft   float64 `json:"scrollLeft"`
	ScrollTop    float64 `json:"scrollTop"`
	Parent       int     `json:"parent"`
	OffsetParent int     `json:"offsetParent"`
	Style        Style   `json:"style"`
}

// Snapshot is a captured page: every element on the ancestor chains of the
// selected leaves, plus the leaves themselves.
type Snapshot struct {
	URL      string    `json:"url"`
	Selector string    `json:"selector"`
	Viewport Viewport  `json:"viewport"`
	Elements []Element `json:"elements"`
	Leaves   []int     `json:"leaves"`
}

type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollX float64 `json:"scrollX"`
	ScrollY float64 `json:"scrollY"`
}

// ErrInvalid is wrapped by every validation failure from Decode.
var ErrInvalid = errors.New("invalid snapshot")

// Decode parses and validates a snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode serializes the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Validate checks that every index is in range and that parent chains
// terminate.
func (s *Snapshot) Validate() error {
	n := len(s.Elements)
	inRange := func(i int) bool { return i >= -1 && i < n }
	for i, e := range s.Elements {
		if !inRange(e.Parent) || !inRange(e.OffsetParent) {
			return fmt.Errorf("%w: element %d references a missing element", ErrInvalid, i)
		}
		steps := 0
		for p := e.Parent; p != -1; p = s.Elements[p].Parent {
			if steps++; steps > n {
				return fmt.Errorf("%w: element %d has a cyclic parent chain", ErrInvalid, i)
			}
		}
	}
	for _, l := range s.Leaves {
		if l < 0 || l >= n {
			return fmt.Errorf("%w: leaf %d out of range", ErrInvalid, l)
		}
	}
	return nil
}

// Node adapts one element of a snapshot to transform.Node. Nodes are
// comparable, so two Nodes for the same element are equal.
type Node struct {
	snap  *Snapshot
	index int
}

// LeafNodes returns the selected elements in capture order.
func (s *Snapshot) LeafNodes() []Node {
	out := make([]Node, len(s.Leaves))
	for i, l := range s.Leaves {
		out[i] = Node{snap: s, index: l}
	}
	return out
}

// Leaf returns the i-th selected element.
func (s *Snapshot) Leaf(i int) Node {
	return Node{snap: s, index: s.Leaves[i]}
}

// ComputedStyle makes Snapshot a transform.StyleSource.
func (s *Snapshot) ComputedStyle(n transform.Node) transform.Style {
	if node, ok := n.(Node); ok && node.snap == s {
		return node.ComputedStyle()
	}
	return transform.NodeStyles{}.ComputedStyle(n)
}

func (n Node) element() *Element { return &n.snap.Elements[n.index] }

// Element returns the captured record.
func (n Node) Element() Element { return *n.element() }

func (n Node) OffsetWidth() float64  { return n.element().OffsetWidth }
func (n Node) OffsetHeight() float64 { return n.element().OffsetHeight }
func (n Node) OffsetLeft() float64   { return n.element().OffsetLeft }
func (n Node) OffsetTop() float64    { return n.element().OffsetTop }
func (n Node) ScrollLeft() float64   { return n.element().ScrollLeft }
func (n Node) ScrollTop() float64    { return n.element().ScrollTop }

func (n Node) OffsetParent() transform.Node {
	return n.at(n.element().OffsetParent)
}

func (n Node) ParentNode() transform.Node {
	return n.at(n.element().Parent)
}

func (n Node) at(i int) transform.Node {
	if i < 0 {
		return nil
	}
	return Node{snap: n.snap, index: i}
}

// ComputedStyle returns the captured style. Browsers report an unset
// perspective as "none"; an empty capture is treated the same way.
func (n Node) ComputedStyle() transform.Style {
	st := n.element().Style
	if st.Perspective == "" {
		st.Perspective = transform.PerspectiveNone
	}
	return transform.Style(st)
}
