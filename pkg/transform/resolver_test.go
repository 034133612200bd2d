package transform

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"domxform/pkg/geom"
)

type fakeNode struct {
	w, h         float64
	left, top    float64
	scrollX      float64
	scrollY      float64
	parent       *fakeNode
	offsetParent *fakeNode
	style        Style
}

func (n *fakeNode) OffsetWidth() float64  { return n.w }
func (n *fakeNode) OffsetHeight() float64 { return n.h }
func (n *fakeNode) OffsetLeft() float64   { return n.left }
func (n *fakeNode) OffsetTop() float64    { return n.top }
func (n *fakeNode) ScrollLeft() float64   { return n.scrollX }
func (n *fakeNode) ScrollTop() float64    { return n.scrollY }
func (n *fakeNode) ComputedStyle() Style  { return n.style }

func (n *fakeNode) OffsetParent() Node {
	if n.offsetParent == nil {
		return nil
	}
	return n.offsetParent
}

func (n *fakeNode) ParentNode() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// tableValues parses numbers and origins literally and looks transforms
// up by name.
type tableValues map[string]geom.Mat4

func (tableValues) ParseUnit(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	return v
}

func (tableValues) ParseOrigin(s string) geom.Vec3 {
	var xyz [3]float64
	for i, f := range strings.Fields(s) {
		if i == 3 {
			break
		}
		xyz[i], _ = strconv.ParseFloat(strings.TrimSuffix(f, "px"), 64)
	}
	return geom.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
}

func (t tableValues) ParseTransform(s string) geom.Mat4 {
	if m, ok := t[s]; ok {
		return m
	}
	return geom.Identity()
}

var approx = cmpopts.EquateApprox(0, 1e-9)

var values = tableValues{
	"rot90": geom.RotateZ(math.Pi / 2),
	"tx10":  geom.Translate(10, 0, 0),
	"scale": geom.Scale(2, 2, 1),
}

func TestResolveZeroSizeIsIdentity(t *testing.T) {
	for _, n := range []*fakeNode{
		{w: 0, h: 10, style: Style{Transform: "rot90", Perspective: "500"}},
		{w: 10, h: 0, style: Style{Transform: "rot90", Perspective: "500"}},
	} {
		res := New(values).Resolve(n)
		if res.Matrix != geom.Identity() {
			t.Errorf("expected identity matrix, got %v", res.Matrix)
		}
		if res.Perspective != nil || res.PerspectiveOrigin != nil {
			t.Errorf("expected no perspective, got %v %v", res.Perspective, res.PerspectiveOrigin)
		}
	}
}

func TestResolveSingleElementTranslation(t *testing.T) {
	n := &fakeNode{w: 200, h: 40, left: 100, top: 50}
	res := New(values).Resolve(n)
	want := geom.Translate(0, -70, 0)
	if diff := cmp.Diff(want, res.Matrix, approx); diff != "" {
		t.Errorf("unexpected matrix (-want +got):\n%s", diff)
	}
	if res.HasPerspective() {
		t.Error("expected no perspective")
	}
}

func TestResolveCompositionOrder(t *testing.T) {
	parent := &fakeNode{w: 100, h: 100, style: Style{Transform: "rot90", TransformOrigin: "50 50 0"}}
	child := &fakeNode{w: 100, h: 100, parent: parent, offsetParent: parent,
		style: Style{Transform: "tx10", TransformOrigin: "50 50 0"}}

	res := New(values).Resolve(child)

	// Anchor is (-50, -50); the child's translation runs along the
	// parent's rotated X axis, which points up.
	got := res.Apply(geom.Vec3{})
	want := geom.Vec3{X: -50, Y: -40}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("unexpected point (-want +got):\n%s", diff)
	}

	alg := geom.Default
	reversed := alg.Mul(alg.Mul(geom.Translate(-50, -50, 0), values["tx10"]), values["rot90"])
	if cmp.Equal(res.Matrix, reversed, approx) {
		t.Error("composition matched leaf-to-root order")
	}
	wrong := reversed.Apply(geom.Vec3{})
	if cmp.Equal(wrong, got, approx) {
		t.Errorf("expected the reversed order to move the point elsewhere, both gave %v", got)
	}
}

func TestResolveCentredOriginSkipsSandwich(t *testing.T) {
	n := &fakeNode{w: 80, h: 60, left: 5, top: 7, style: Style{Transform: "rot90", TransformOrigin: "40 30 0"}}
	res := New(values).Resolve(n)

	alg := geom.Default
	anchor := alg.Translation(-40+5, -(30 + 7), 0)
	sandwich := alg.Mul(alg.Mul(alg.Mul(anchor, alg.Translation(0, 0, 0)), values["rot90"]), alg.Translation(0, 0, 0))
	if diff := cmp.Diff(sandwich, res.Matrix); diff != "" {
		t.Errorf("centred origin differs from the explicit sandwich (-want +got):\n%s", diff)
	}
}

func TestResolveOriginPivot(t *testing.T) {
	// Rotate around the top-left corner instead of the centre.
	n := &fakeNode{w: 100, h: 50, style: Style{Transform: "rot90", TransformOrigin: "0 0 0"}}
	res := New(values).Resolve(n)

	// The top-left corner sits at (-50, 25) in the centred, Y-up frame and
	// must stay fixed relative to the anchor.
	corner := geom.Vec3{X: -50, Y: 25}
	anchor := geom.Vec3{X: -50, Y: -25}
	got := res.Apply(corner)
	want := geom.Vec3{X: anchor.X + corner.X, Y: anchor.Y + corner.Y}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("pivot moved (-want +got):\n%s", diff)
	}
}

func TestResolvePerspectiveLastWriterWins(t *testing.T) {
	root := &fakeNode{w: 500, h: 500, style: Style{Perspective: "800px", PerspectiveOrigin: "1 2 0"}}
	mid := &fakeNode{w: 300, h: 300, parent: root, offsetParent: root,
		style: Style{Perspective: "400px", PerspectiveOrigin: "150 75 0"}}
	leaf := &fakeNode{w: 100, h: 100, parent: mid, offsetParent: mid,
		style: Style{Perspective: PerspectiveNone}}

	res := New(values).Resolve(leaf)
	if res.Perspective == nil || *res.Perspective != 400 {
		t.Fatalf("expected perspective 400, got %v", res.Perspective)
	}
	if diff := cmp.Diff(geom.Vec3{X: 150, Y: 75}, *res.PerspectiveOrigin); diff != "" {
		t.Errorf("unexpected perspective origin (-want +got):\n%s", diff)
	}
}

func TestResolvePerspectiveKeepsEarlierOrigin(t *testing.T) {
	root := &fakeNode{w: 500, h: 500, style: Style{Perspective: "800px", PerspectiveOrigin: "10 20 0"}}
	mid := &fakeNode{w: 300, h: 300, parent: root, offsetParent: root,
		style: Style{Perspective: "400px"}}
	leaf := &fakeNode{w: 100, h: 100, parent: mid, offsetParent: mid,
		style: Style{Perspective: PerspectiveNone}}

	res := New(values).Resolve(leaf)
	if res.Perspective == nil || *res.Perspective != 400 {
		t.Fatalf("expected perspective 400, got %v", res.Perspective)
	}
	if diff := cmp.Diff(geom.Vec3{X: 10, Y: 20}, *res.PerspectiveOrigin); diff != "" {
		t.Errorf("origin should survive a perspective without one (-want +got):\n%s", diff)
	}
}

func TestResolvePerspectiveWithoutOrigin(t *testing.T) {
	root := &fakeNode{w: 10, h: 10, style: Style{Perspective: "250"}}
	res := New(values).Resolve(root)
	if res.Perspective == nil || *res.Perspective != 250 {
		t.Fatalf("expected perspective 250, got %v", res.Perspective)
	}
	if *res.PerspectiveOrigin != (geom.Vec3{}) {
		t.Errorf("expected zero perspective origin, got %v", *res.PerspectiveOrigin)
	}
}

func TestResolveOffsetsOnlyAtOffsetParents(t *testing.T) {
	body := &fakeNode{w: 1000, h: 1000, left: 8, top: 8}
	wrapper := &fakeNode{w: 900, h: 900, left: 999, top: 999, scrollY: 30, parent: body}
	leaf := &fakeNode{w: 20, h: 10, left: 40, top: 60, scrollX: 3, parent: wrapper, offsetParent: body}

	res := New(values).Resolve(leaf)

	// posX = -10 + 40 - 3 + 8 = 35; posY = 5 + 60 - 30 + 8 = 43.
	want := geom.Translate(35, -43, 0)
	if diff := cmp.Diff(want, res.Matrix, approx); diff != "" {
		t.Errorf("unexpected matrix (-want +got):\n%s", diff)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	root := &fakeNode{w: 400, h: 300, style: Style{Perspective: "600", PerspectiveOrigin: "200 150 0", Transform: "scale"}}
	leaf := &fakeNode{w: 50, h: 40, left: 12, top: 34, parent: root, offsetParent: root,
		style: Style{Transform: "rot90", TransformOrigin: "0 40 5"}}

	r := New(values)
	a, b := r.Resolve(leaf), r.Resolve(leaf)
	if a.Matrix != b.Matrix {
		t.Errorf("matrices differ between calls: %v vs %v", a.Matrix, b.Matrix)
	}
	if *a.Perspective != *b.Perspective || *a.PerspectiveOrigin != *b.PerspectiveOrigin {
		t.Error("perspective differs between calls")
	}
	if a.Perspective == b.Perspective {
		t.Error("results share state across calls")
	}
}

func TestResolveAlgebraIndependent(t *testing.T) {
	root := &fakeNode{w: 400, h: 300, scrollX: 4, style: Style{Transform: "rot90", TransformOrigin: "10 20 3"}}
	leaf := &fakeNode{w: 50, h: 40, left: 12, top: 34, parent: root, offsetParent: root,
		style: Style{Transform: "scale", TransformOrigin: "0 0 0"}}

	mgl := New(values, WithAlgebra(geom.MGL{})).Resolve(leaf)
	naive := New(values, WithAlgebra(geom.Naive{})).Resolve(leaf)
	if diff := cmp.Diff(mgl.Matrix, naive.Matrix, approx); diff != "" {
		t.Errorf("algebras disagree (-mgl +naive):\n%s", diff)
	}
}

type mapStyles map[Node]Style

func (m mapStyles) ComputedStyle(n Node) Style { return m[n] }

func TestResolveWithExternalStyles(t *testing.T) {
	n := &fakeNode{w: 10, h: 10, style: Style{Transform: "rot90"}}
	styles := mapStyles{n: {Transform: "tx10", TransformOrigin: "5 5 0"}}

	res := New(values, WithStyles(styles)).Resolve(n)
	want := geom.Translate(-5+10, -5, 0)
	if diff := cmp.Diff(want, res.Matrix, approx); diff != "" {
		t.Errorf("unexpected matrix (-want +got):\n%s", diff)
	}
}

func TestResolveDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	root := &fakeNode{w: 10, h: 10}
	leaf := &fakeNode{w: 4, h: 4, parent: root, offsetParent: root, style: Style{Transform: "rot90"}}

	New(values, WithLogger(zap.New(core))).Resolve(leaf)

	if n := logs.FilterMessage("anchor").Len(); n != 1 {
		t.Errorf("expected 1 anchor entry, got %d", n)
	}
	if n := logs.FilterMessage("compose").Len(); n != 2 {
		t.Errorf("expected 2 compose entries, got %d", n)
	}
}

func TestAffine(t *testing.T) {
	res := Result{Matrix: geom.Default.Mul(geom.Translate(3, 4, 0), geom.Scale(2, 5, 1))}
	m, ok := res.Affine()
	if !ok {
		t.Fatal("expected a planar matrix")
	}
	if diff := cmp.Diff([6]float64{2, 0, 0, 5, 3, 4}, [6]float64(m)); diff != "" {
		t.Errorf("unexpected affine matrix (-want +got):\n%s", diff)
	}

	if _, ok := (Result{Matrix: geom.Perspective(100)}).Affine(); ok {
		t.Error("expected projective matrix to be rejected")
	}
	if _, ok := (Result{Matrix: geom.RotateAxis(1, 0, 0, 0.5)}).Affine(); ok {
		t.Error("expected rotation out of the plane to be rejected")
	}
}
