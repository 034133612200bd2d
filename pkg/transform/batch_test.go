package transform

import (
	"context"
	"testing"

	"go.uber.org/goleak"

	"domxform/pkg/geom"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildChain(depth int) []*fakeNode {
	nodes := make([]*fakeNode, depth)
	var parent *fakeNode
	for i := range nodes {
		n := &fakeNode{
			w: float64(400 - i*10), h: float64(300 - i*10),
			left: float64(i * 3), top: float64(i * 5),
			scrollY: float64(i % 2),
			parent:  parent, offsetParent: parent,
		}
		switch i % 3 {
		case 0:
			n.style.Transform = "rot90"
		case 1:
			n.style.Transform = "scale"
			n.style.TransformOrigin = "1 2 3"
		case 2:
			n.style.Perspective = "700"
		}
		nodes[i] = n
		parent = n
	}
	return nodes
}

func TestResolveAllMatchesSequential(t *testing.T) {
	chain := buildChain(12)
	nodes := make([]Node, len(chain))
	for i, n := range chain {
		nodes[i] = n
	}

	r := New(values)
	got, err := r.ResolveAll(context.Background(), nodes, 4)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(got) != len(nodes) {
		t.Fatalf("expected %d results, got %d", len(nodes), len(got))
	}
	for i, n := range nodes {
		want := r.Resolve(n)
		if !got[i].Matrix.ApproxEqual(want.Matrix, 0) {
			t.Errorf("node %d: matrix differs from sequential resolve", i)
		}
		if want.HasPerspective() != got[i].HasPerspective() {
			t.Errorf("node %d: perspective presence differs", i)
		}
	}
}

func TestResolveAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nodes := []Node{&fakeNode{w: 1, h: 1}}
	if _, err := New(values).ResolveAll(ctx, nodes, 0); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestResolveAllEmpty(t *testing.T) {
	got, err := New(values).ResolveAll(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestResolveAllNilNode(t *testing.T) {
	leaf := &fakeNode{w: 10, h: 10, left: 5}
	got, err := New(values).ResolveAll(context.Background(), []Node{nil, leaf, nil}, 2)
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for _, i := range []int{0, 2} {
		if got[i].Matrix != geom.Identity() || got[i].HasPerspective() {
			t.Errorf("result %d: expected identity without perspective, got %+v", i, got[i])
		}
	}
	if got[1].Matrix != geom.Translate(0, -5, 0) {
		t.Errorf("unexpected matrix for the real node: %v", got[1].Matrix)
	}
}
