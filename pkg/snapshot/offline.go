package snapshot

import (
	"fmt"

	"domxform/pkg/layout"
)

// FromTree records a laid out tree the same way Capture records a live
// page, so offline documents and browser captures share one format.
func FromTree(tree *layout.Tree, selector string, vp Viewport) (*Snapshot, error) {
	boxes, ok := tree.Select(selector)
	if !ok {
		return nil, fmt.Errorf("invalid selector %q", selector)
	}

	s := &Snapshot{Selector: selector, Viewport: vp}
	index := make(map[*layout.Box]int)
	var visit func(b *layout.Box) int
	visit = func(b *layout.Box) int {
		if b == nil {
			return -1
		}
		if i, ok := index[b]; ok {
			return i
		}
		i := len(s.Elements)
		index[b] = i
		st := b.ComputedStyle()
		s.Elements = append(s.Elements, Element{
			Tag:          b.Node.TagName,
			ID:           b.ID(),
			OffsetWidth:  b.OffsetWidth(),
			OffsetHeight: b.OffsetHeight(),
			OffsetLeft:   b.OffsetLeft(),
			OffsetTop:    b.OffsetTop(),
			ScrollLeft:   b.ScrollLeft(),
			ScrollTop:    b.ScrollTop(),
			Style:        Style(st),
		})
		// Elements may grow during recursion; index again afterwards.
		parent := visit(b.Parent)
		offsetParent := visit(b.OffsetParentBox())
		s.Elements[i].Parent = parent
		s.Elements[i].OffsetParent = offsetParent
		return i
	}

	for _, b := range boxes {
		s.Leaves = append(s.Leaves, visit(b))
	}
	return s, s.Validate()
}
