package render

import (
	"fmt"
	"image"
	"io"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"
)

// Style controls how quads are painted. Colors are #rgb or #rrggbb hex.
type Style struct {
	Fill    string
	Stroke  string
	Opacity float64 // fill opacity in [0, 1]
	Labels  bool
}

// DefaultStyle is a translucent blue overlay with labels.
var DefaultStyle = Style{Fill: "#3b82f6", Stroke: "#1e3a8a", Opacity: 0.25, Labels: true}

type Renderer struct {
	context *gg.Context
	style   Style
	logger  *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

func WithStyle(s Style) Option {
	return func(r *Renderer) { r.style = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	r := &Renderer{
		context: gg.NewContext(width, height),
		style:   DefaultStyle,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render clears the canvas and paints quads back to front.
func (r *Renderer) Render(quads []Quad) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	r.context.SetFontFace(basicfont.Face7x13)
	r.context.SetLineWidth(1)

	for _, q := range paintOrder(quads) {
		r.drawQuad(q)
	}
	r.logger.Debug("rendered overlay", zap.Int("quads", len(quads)))
}

// paintOrder sorts farther quads first, keeping document order for ties.
func paintOrder(quads []Quad) []Quad {
	sorted := make([]Quad, len(quads))
	copy(sorted, quads)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Depth < sorted[j].Depth
	})
	return sorted
}

func (r *Renderer) drawQuad(q Quad) {
	r.context.NewSubPath()
	for i, p := range q.Points {
		if i == 0 {
			r.context.MoveTo(p.X, p.Y)
			continue
		}
		r.context.LineTo(p.X, p.Y)
	}
	r.context.ClosePath()

	r.context.SetHexColor(withAlpha(r.style.Fill, r.style.Opacity))
	r.context.FillPreserve()
	r.context.SetHexColor(r.style.Stroke)
	r.context.Stroke()

	if r.style.Labels && q.ID != "" {
		tl := q.Points[0]
		r.context.DrawString("#"+q.ID, tl.X+2, tl.Y+12)
	}
}

// withAlpha turns #rgb or #rrggbb into #rrggbbaa.
func withAlpha(hex string, opacity float64) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "#" + hex
	}
	opacity = min(max(opacity, 0), 1)
	return fmt.Sprintf("#%s%02x", hex, int(opacity*255+0.5))
}

// Image returns the rendered canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// EncodePNG writes the canvas as PNG to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
