package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"domxform/pkg/css"
	"domxform/pkg/html"
	"domxform/pkg/layout"
	"domxform/pkg/transform"
)

// Engine executes JavaScript against an HTML document's DOM. Scripts can
// read element geometry and ask for an element's composite transform; any
// DOM or style mutation invalidates the layout, which is recomputed on the
// next geometry read.
type Engine struct {
	vm       *goja.Runtime
	logger   *zap.Logger
	layout   *layout.LayoutEngine
	resolver func(styles transform.StyleSource) *transform.Resolver

	doc  *html.Document
	tree *layout.Tree
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes console output and engine diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithLayout sets the layout engine used for geometry reads.
func WithLayout(le *layout.LayoutEngine) Option {
	return func(e *Engine) { e.layout = le }
}

// WithResolverOptions passes extra options to every resolver the engine
// builds.
func WithResolverOptions(opts ...transform.Option) Option {
	return func(e *Engine) {
		e.resolver = func(styles transform.StyleSource) *transform.Resolver {
			return transform.New(css.Values{}, append([]transform.Option{transform.WithStyles(styles)}, opts...)...)
		}
	}
}

// New creates a new JS engine with a fresh goja runtime.
func New(opts ...Option) *Engine {
	e := &Engine{
		vm:     goja.New(),
		logger: zap.NewNop(),
		layout: layout.NewLayoutEngine(800, 600),
	}
	WithResolverOptions()(e)
	for _, opt := range opts {
		opt(e)
	}

	c := &consoleAPI{logger: e.logger.Named("console")}
	c.register(e.vm)
	return e
}

// Execute runs all scripts from the document against the DOM, in order.
// The first script error stops execution and is returned.
func (e *Engine) Execute(doc *html.Document) error {
	e.bind(doc)
	for i, script := range doc.Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates src against doc without running the document's own
// scripts and returns the exported result.
func (e *Engine) Run(doc *html.Document, src string) (any, error) {
	e.bind(doc)
	v, err := e.vm.RunString(src)
	if err != nil {
		return nil, fmt.Errorf("evaluating script: %w", err)
	}
	return v.Export(), nil
}

// Tree returns the current layout of the bound document, laying it out
// again if a script changed it.
func (e *Engine) Tree() *layout.Tree {
	if e.tree == nil && e.doc != nil {
		e.tree = e.layout.Layout(e.doc)
		e.logger.Debug("layout", zap.Int("boxes", len(e.tree.Boxes())))
	}
	return e.tree
}

func (e *Engine) bind(doc *html.Document) {
	if e.doc == doc {
		return
	}
	e.doc = doc
	e.tree = nil
	ctx := registerDocument(e, doc)
	registerTransformBinding(ctx)
}

// invalidate drops the cached layout after a mutation.
func (e *Engine) invalidate() {
	e.tree = nil
}
