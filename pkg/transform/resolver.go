package transform

import (
	"go.uber.org/zap"

	"domxform/pkg/geom"
)

// Result is the composite transform of an element together with the
// perspective that applies to it. Perspective and PerspectiveOrigin are nil
// when no node on the chain declared a perspective.
type Result struct {
	Matrix            geom.Mat4
	Perspective       *float64
	PerspectiveOrigin *geom.Vec3
}

// Resolver recomputes the world matrix of an element from the declared
// transform, transform-origin and perspective of its ancestor chain. It
// keeps no state between calls and never mutates the nodes it reads, so a
// single Resolver may be shared by goroutines reading an unchanging tree.
type Resolver struct {
	values  ValueParser
	styles  StyleSource
	algebra geom.Algebra
	logger  *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStyles sets where computed styles come from. The default asks each
// node through the Styled interface.
func WithStyles(s StyleSource) Option {
	return func(r *Resolver) { r.styles = s }
}

// WithAlgebra swaps the matrix implementation.
func WithAlgebra(a geom.Algebra) Option {
	return func(r *Resolver) { r.algebra = a }
}

// WithLogger enables debug logging of each composition step.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a Resolver that parses style values with values.
func New(values ValueParser, opts ...Option) *Resolver {
	r := &Resolver{
		values:  values,
		styles:  NodeStyles{},
		algebra: geom.Default,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the composite transform of leaf. A leaf with zero
// width or height has no meaningful origin and yields the identity with no
// perspective; that is a normal result, not a failure.
func (r *Resolver) Resolve(leaf Node) Result {
	width, height := leaf.OffsetWidth(), leaf.OffsetHeight()
	if width == 0 || height == 0 {
		return Result{Matrix: r.algebra.Identity()}
	}

	stack, posX, posY := ancestry(leaf)
	matrix := r.algebra.Translation(posX, -posY, 0)
	debug := r.logger.Core().Enabled(zap.DebugLevel)
	if debug {
		r.logger.Debug("anchor",
			zap.Float64("x", posX),
			zap.Float64("y", posY),
			zap.Int("depth", len(stack)))
	}

	var (
		perspective float64
		origin      geom.Vec3
		found       bool
	)

	// Root first: each transform is expressed in the frame its ancestors
	// have already established.
	for i := len(stack) - 1; i >= 0; i-- {
		node := stack[i]
		style := r.styles.ComputedStyle(node)

		// Nested perspective contexts are not composed. Only the value
		// declared closest to the leaf survives. A node without a
		// perspective-origin keeps the origin tracked so far.
		if style.Perspective != PerspectiveNone && style.Perspective != "" {
			perspective = r.values.ParseUnit(style.Perspective)
			found = true
			if style.PerspectiveOrigin != "" {
				origin = r.values.ParseOrigin(style.PerspectiveOrigin)
			}
		}

		o := r.values.ParseOrigin(style.TransformOrigin)
		pivot := geom.Vec3{X: o.X - node.OffsetWidth()/2, Y: o.Y - node.OffsetHeight()/2, Z: o.Z}
		local := r.values.ParseTransform(style.Transform)

		if !pivot.IsZero() {
			matrix = r.algebra.Mul(matrix, r.algebra.Translation(pivot.X, -pivot.Y, pivot.Z))
			matrix = r.algebra.Mul(matrix, local)
			matrix = r.algebra.Mul(matrix, r.algebra.Translation(-pivot.X, pivot.Y, -pivot.Z))
		} else {
			matrix = r.algebra.Mul(matrix, local)
		}

		if debug {
			r.logger.Debug("compose",
				zap.Int("level", len(stack)-1-i),
				zap.String("transform", style.Transform),
				zap.Float64s("origin", []float64{pivot.X, pivot.Y, pivot.Z}))
		}
	}

	res := Result{Matrix: matrix}
	if found {
		res.Perspective = &perspective
		res.PerspectiveOrigin = &origin
	}
	return res
}

// ancestry returns the chain from leaf to root and the anchor of the
// leaf's centre. Offsets accumulate only at offset-parent boundaries, the
// way the box model cascades absolute positions; every ancestor's scroll
// offset shifts the anchor. The anchor's Y axis points up.
func ancestry(leaf Node) (stack []Node, posX, posY float64) {
	posX = -leaf.OffsetWidth() / 2
	posY = leaf.OffsetHeight() / 2

	cursor := leaf
	for node := leaf; node != nil; node = node.ParentNode() {
		stack = append(stack, node)
		if node == cursor {
			posX += node.OffsetLeft()
			posY += node.OffsetTop()
			cursor = node.OffsetParent()
		}
		posX -= node.ScrollLeft()
		posY -= node.ScrollTop()
	}
	return stack, posX, posY
}
