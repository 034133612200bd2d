package resource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"domxform/pkg/css"
	"domxform/pkg/geom"
	"domxform/pkg/html"
	"domxform/pkg/js"
	"domxform/pkg/layout"
	"domxform/pkg/render"
	"domxform/pkg/transform"
)

// Options configures a Pipeline.
type Options struct {
	Width, Height    float64
	ScrollX, ScrollY float64
	Workers          int
	Algebra          geom.Algebra
	RunScripts       bool
	Logger           *zap.Logger
}

// Page is a loaded, laid out document.
type Page struct {
	URL  string
	Doc  *html.Document
	Tree *layout.Tree
}

// Element is a selected element with its resolved transform.
type Element struct {
	Box    *layout.Box
	Result transform.Result
}

// Pipeline loads documents, optionally runs their scripts, lays them out
// and resolves element transforms.
type Pipeline struct {
	fetcher *DefaultFetcher
	opts    Options
	logger  *zap.Logger
}

func NewPipeline(fetcher *DefaultFetcher, opts Options) *Pipeline {
	if opts.Algebra == nil {
		opts.Algebra = geom.Default
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, opts: opts, logger: logger}
}

// Open loads src (a path or URL) and lays it out.
func (p *Pipeline) Open(ctx context.Context, src string) (*Page, error) {
	doc, url, err := p.fetcher.FetchDocument(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src, err)
	}
	return p.Layout(doc, url), nil
}

// Layout lays out an already parsed document. When scripts are enabled
// they run first, and a script error is logged rather than returned.
func (p *Pipeline) Layout(doc *html.Document, url string) *Page {
	le := layout.NewLayoutEngine(p.opts.Width, p.opts.Height)
	le.SetScroll(p.opts.ScrollX, p.opts.ScrollY)

	page := &Page{URL: url, Doc: doc}
	if p.opts.RunScripts && len(doc.Scripts) > 0 {
		engine := js.New(
			js.WithLogger(p.logger.Named("js")),
			js.WithLayout(le),
			js.WithResolverOptions(transform.WithAlgebra(p.opts.Algebra)),
		)
		if err := engine.Execute(doc); err != nil {
			p.logger.Warn("script failed", zap.String("url", url), zap.Error(err))
		}
		page.Tree = engine.Tree()
	}
	if page.Tree == nil {
		page.Tree = le.Layout(doc)
	}
	return page
}

// Resolver returns a resolver reading computed styles from page.
func (p *Pipeline) Resolver(page *Page) *transform.Resolver {
	return transform.New(css.Values{},
		transform.WithStyles(page.Tree),
		transform.WithAlgebra(p.opts.Algebra),
		transform.WithLogger(p.logger.Named("resolver")))
}

// Resolve resolves every element of page matching selector, in document
// order.
func (p *Pipeline) Resolve(ctx context.Context, page *Page, selector string) ([]Element, error) {
	boxes, ok := page.Tree.Select(selector)
	if !ok {
		return nil, fmt.Errorf("invalid selector %q", selector)
	}
	nodes := make([]transform.Node, len(boxes))
	for i, b := range boxes {
		nodes[i] = b
	}

	results, err := p.Resolver(page).ResolveAll(ctx, nodes, p.opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", selector, err)
	}
	out := make([]Element, len(boxes))
	for i, b := range boxes {
		out[i] = Element{Box: b, Result: results[i]}
	}
	p.logger.Debug("resolved", zap.String("selector", selector), zap.Int("elements", len(out)))
	return out, nil
}

// Quads projects resolved elements into viewport pixels, skipping those
// that cannot be drawn.
func Quads(elements []Element) []render.Quad {
	quads := make([]render.Quad, 0, len(elements))
	for _, el := range elements {
		origin, _ := render.PerspectiveAnchor(el.Box)
		q, ok := render.Project(el.Box.ID(), el.Result, el.Box.OffsetWidth(), el.Box.OffsetHeight(), origin)
		if ok {
			quads = append(quads, q)
		}
	}
	return quads
}
