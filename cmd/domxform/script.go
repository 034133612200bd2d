package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domxform/pkg/js"
	"domxform/pkg/layout"
	"domxform/pkg/resource"
	"domxform/pkg/transform"
	stdnet "domxform/std/net"
)

func newScriptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file|url>",
		Short: "Run the page's scripts with getTransformForElement available",
		Long: `Runs every script of the page against its DOM. Scripts may call
getTransformForElement(el) and document.createStylesheet(cssText); console
output goes to the log. With --eval, the expression is evaluated afterwards
and its value printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			eval, _ := cmd.Flags().GetString("eval")

			client := stdnet.NewClient(a.cfg.Fetch.Timeout, a.cfg.Fetch.UserAgent)
			doc, url, err := resource.NewFetcher(client, "", a.logger.Named("fetch")).FetchDocument(ctx, args[0])
			if err != nil {
				return fmt.Errorf("loading %s: %w", args[0], err)
			}

			le := layout.NewLayoutEngine(a.cfg.Viewport.Width, a.cfg.Viewport.Height)
			le.SetScroll(a.cfg.Viewport.ScrollX, a.cfg.Viewport.ScrollY)
			engine := js.New(
				js.WithLogger(a.logger.Named("js")),
				js.WithLayout(le),
				js.WithResolverOptions(transform.WithAlgebra(algebra(a.cfg.Resolve.Algebra))),
			)
			if err := engine.Execute(doc); err != nil {
				return err
			}
			a.logger.Info("scripts finished", zap.String("source", url), zap.Int("scripts", len(doc.Scripts)))

			if eval == "" {
				return nil
			}
			v, err := engine.Run(doc, eval)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringP("eval", "e", "", "expression to evaluate after the page's scripts")
	return cmd
}
