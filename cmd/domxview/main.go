// Command domxview shows the transformed border boxes of a page's elements
// in a window. Enter a path or URL, and optionally a selector, then press
// Enter to redraw.
package main

import (
	"context"
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"domxform/pkg/config"
	"domxform/pkg/logging"
	"domxform/pkg/render"
	"domxform/pkg/resource"
	stdnet "domxform/std/net"
)

func main() {
	cfg := config.NewDefaultConfig()
	logger := logging.New(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	width, height := int(cfg.Viewport.Width), int(cfg.Viewport.Height)
	client := stdnet.NewClient(cfg.Fetch.Timeout, cfg.Fetch.UserAgent)
	pipeline := resource.NewPipeline(resource.NewFetcher(client, "", logger.Named("fetch")), resource.Options{
		Width:      cfg.Viewport.Width,
		Height:     cfg.Viewport.Height,
		Workers:    cfg.Resolve.Workers,
		RunScripts: true,
		Logger:     logger,
	})
	style := render.Style{
		Fill:    cfg.Render.Fill,
		Stroke:  cfg.Render.Stroke,
		Opacity: cfg.Render.Opacity,
		Labels:  cfg.Render.Labels,
	}

	a := app.New()
	w := a.NewWindow("domxview")
	w.Resize(fyne.NewSize(float32(width), float32(height)+80))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, width, height)))
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a file or URL and press Enter")

	selectorEntry := widget.NewEntry()
	selectorEntry.SetText(cfg.Resolve.Selector)

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("page.html or https://example.com")

	load := func() {
		src, selector := urlEntry.Text, selectorEntry.Text
		if src == "" {
			return
		}
		status.SetText("Loading " + src + "...")
		go func() {
			img, msg, err := draw(pipeline, src, selector, width, height, style)
			fyne.Do(func() {
				if err != nil {
					logger.Warn("render failed", zap.String("source", src), zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = img
				canvasImg.Refresh()
				status.SetText(msg)
				w.SetTitle("domxview - " + src)
			})
		}()
	}
	urlEntry.OnSubmitted = func(string) { load() }
	selectorEntry.OnSubmitted = func(string) { load() }

	topBar := container.NewBorder(nil, nil, nil, container.NewGridWrap(fyne.NewSize(220, 36), selectorEntry), urlEntry)
	w.SetContent(container.NewBorder(topBar, status, nil, nil, canvasImg))
	w.Canvas().Focus(urlEntry)

	if len(os.Args) > 1 {
		urlEntry.SetText(os.Args[1])
		load()
	}
	w.ShowAndRun()
}

// draw loads src and paints the quads of the elements matching selector.
func draw(p *resource.Pipeline, src, selector string, width, height int, style render.Style) (image.Image, string, error) {
	ctx := context.Background()
	page, err := p.Open(ctx, src)
	if err != nil {
		return nil, "", err
	}
	elements, err := p.Resolve(ctx, page, selector)
	if err != nil {
		return nil, "", err
	}
	quads := resource.Quads(elements)

	r := render.NewRenderer(width, height, render.WithStyle(style))
	r.Render(quads)
	return r.Image(), fmt.Sprintf("%s: %d of %d elements drawn", page.URL, len(quads), len(elements)), nil
}
