package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domxform/pkg/render"
	"domxform/pkg/resource"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <file|url>",
		Short: "Draw the transformed border box of every matching element as PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			ctx := cmd.Context()
			out, _ := cmd.Flags().GetString("output")
			scripts, _ := cmd.Flags().GetBool("scripts")

			p := a.pipeline(scripts)
			page, err := p.Open(ctx, args[0])
			if err != nil {
				return err
			}
			elements, err := p.Resolve(ctx, page, a.selector(cmd))
			if err != nil {
				return err
			}
			quads := resource.Quads(elements)

			if err := a.writeOverlay(cmd, out, quads); err != nil {
				return err
			}
			a.logger.Info("rendered overlay",
				zap.String("source", page.URL),
				zap.String("output", out),
				zap.Int("quads", len(quads)),
				zap.Int("skipped", len(elements)-len(quads)),
				since(start))
			return nil
		},
	}
	cmd.Flags().StringP("selector", "s", "", "CSS selector of the elements to draw (default from config)")
	cmd.Flags().StringP("output", "o", "overlay.png", "output file; .svg writes SVG, anything else PNG")
	cmd.Flags().Bool("scripts", false, "run the page's scripts before rendering")
	return cmd
}

func (a *app) style() render.Style {
	return render.Style{
		Fill:    a.cfg.Render.Fill,
		Stroke:  a.cfg.Render.Stroke,
		Opacity: a.cfg.Render.Opacity,
		Labels:  a.cfg.Render.Labels,
	}
}

func (a *app) writeOverlay(cmd *cobra.Command, path string, quads []render.Quad) error {
	w, h := int(a.cfg.Viewport.Width), int(a.cfg.Viewport.Height)
	dst, closeFn, err := output(cmd, path)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		err = render.WriteSVG(dst, quads, w, h, a.style())
	} else {
		r := render.NewRenderer(w, h, render.WithStyle(a.style()), render.WithLogger(a.logger.Named("render")))
		r.Render(quads)
		if err = r.EncodePNG(dst); err != nil {
			err = fmt.Errorf("encoding png: %w", err)
		}
	}
	if cerr := closeFn(); err == nil {
		err = cerr
	}
	return err
}
