package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domxform/pkg/transform"
)

// vec3 is the JSON form of a point.
type vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// record is the JSON output for one resolved element.
type record struct {
	Tag               string      `json:"tag"`
	ID                string      `json:"id,omitempty"`
	Matrix            [16]float64 `json:"matrix"`
	Affine            *[6]float64 `json:"affine,omitempty"`
	Perspective       *float64    `json:"perspective,omitempty"`
	PerspectiveOrigin *vec3       `json:"perspectiveOrigin,omitempty"`
}

func newRecord(tag, id string, res transform.Result) record {
	r := record{Tag: tag, ID: id, Matrix: res.Matrix, Perspective: res.Perspective}
	if res.PerspectiveOrigin != nil {
		o := res.PerspectiveOrigin
		r.PerspectiveOrigin = &vec3{X: o.X, Y: o.Y, Z: o.Z}
	}
	if m, ok := res.Affine(); ok {
		a := [6]float64(m)
		r.Affine = &a
	}
	return r
}

func writeRecords(w io.Writer, records []record, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("selector", "s", "", "CSS selector of the elements to resolve (default from config)")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	cmd.Flags().Bool("pretty", false, "indent JSON output")
}

func newResolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file|url>",
		Short: "Print the composite transform of every matching element as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, _ := cmd.Flags().GetBool("scripts")
			return a.resolve(cmd, args[0], scripts)
		},
	}
	addOutputFlags(cmd)
	cmd.Flags().Bool("scripts", false, "run the page's scripts before resolving")
	return cmd
}

func (a *app) resolve(cmd *cobra.Command, src string, scripts bool) error {
	start := time.Now()
	ctx := cmd.Context()
	p := a.pipeline(scripts)

	page, err := p.Open(ctx, src)
	if err != nil {
		return err
	}
	selector := a.selector(cmd)
	elements, err := p.Resolve(ctx, page, selector)
	if err != nil {
		return err
	}

	records := make([]record, len(elements))
	for i, el := range elements {
		records[i] = newRecord(el.Box.Node.TagName, el.Box.ID(), el.Result)
	}
	a.logger.Info("resolved elements",
		zap.String("source", page.URL),
		zap.String("selector", selector),
		zap.Int("count", len(records)),
		since(start))
	return a.emit(cmd, records)
}

func (a *app) emit(cmd *cobra.Command, records []record) error {
	path, _ := cmd.Flags().GetString("output")
	pretty, _ := cmd.Flags().GetBool("pretty")
	w, closeFn, err := output(cmd, path)
	if err != nil {
		return err
	}
	if err := writeRecords(w, records, pretty); err != nil {
		_ = closeFn()
		return err
	}
	return closeFn()
}
