package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domxform/pkg/css"
	"domxform/pkg/snapshot"
	"domxform/pkg/transform"
)

func newCaptureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Resolve transforms against a page loaded in Chrome",
		Long: `Loads the page in Chrome, records the geometry and computed styles of
the matching elements and their ancestors, and resolves them. --save keeps
the capture; --from resolves a saved capture without a browser.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			from, _ := cmd.Flags().GetString("from")
			save, _ := cmd.Flags().GetString("save")

			var (
				snap *snapshot.Snapshot
				err  error
			)
			switch {
			case from != "":
				snap, err = loadSnapshot(from)
			case len(args) == 1:
				snap, err = snapshot.Capture(cmd.Context(), args[0], a.selector(cmd), snapshot.Options{
					Headless: a.cfg.Browser.Headless,
					Timeout:  a.cfg.Browser.Timeout,
					ExecPath: a.cfg.Browser.ExecPath,
					Width:    a.windowSize(a.cfg.Viewport.Width),
					Height:   a.windowSize(a.cfg.Viewport.Height),
					Logger:   a.logger.Named("chrome"),
				})
			default:
				return fmt.Errorf("capture needs a url or --from")
			}
			if err != nil {
				return err
			}

			if save != "" {
				data, err := snap.Encode()
				if err != nil {
					return fmt.Errorf("encoding snapshot: %w", err)
				}
				if err := os.WriteFile(save, data, 0o644); err != nil {
					return fmt.Errorf("saving snapshot: %w", err)
				}
			}

			leaves := snap.LeafNodes()
			nodes := make([]transform.Node, len(leaves))
			for i, l := range leaves {
				nodes[i] = l
			}
			r := transform.New(css.Values{},
				transform.WithStyles(snap),
				transform.WithAlgebra(algebra(a.cfg.Resolve.Algebra)),
				transform.WithLogger(a.logger.Named("resolver")))
			results, err := r.ResolveAll(cmd.Context(), nodes, a.cfg.Resolve.Workers)
			if err != nil {
				return err
			}

			records := make([]record, len(leaves))
			for i, l := range leaves {
				el := l.Element()
				records[i] = newRecord(el.Tag, el.ID, results[i])
			}
			a.logger.Info("resolved capture",
				zap.String("url", snap.URL),
				zap.Int("elements", len(snap.Elements)),
				zap.Int("count", len(records)),
				since(start))
			return a.emit(cmd, records)
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().String("from", "", "resolve a saved capture instead of launching Chrome")
	cmd.Flags().String("save", "", "write the capture as JSON to this file")
	return cmd
}

// windowSize returns the viewport dimension when the browser window should
// follow it, or 0 to keep Chrome's default.
func (a *app) windowSize(v float64) int {
	if !a.cfg.Browser.WindowSize {
		return 0
	}
	return int(v)
}

func loadSnapshot(path string) (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return snapshot.Decode(data)
}
