package main

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"domxform/pkg/config"
	"domxform/pkg/geom"
	"domxform/pkg/logging"
	"domxform/pkg/resource"
	stdnet "domxform/std/net"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app is the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "domxform",
		Short:         "Recompute element transform matrices from their ancestor chains.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Logger)
			a.logger.Debug("starting", zap.String("version", Version), zap.String("command", cmd.Name()))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./config.yaml, then ~/.domxform/config.yaml)")
	flags.Float64("width", 0, "viewport width in px")
	flags.Float64("height", 0, "viewport height in px")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	mustBind(a.v, "viewport.width", flags, "width")
	mustBind(a.v, "viewport.height", flags, "height")
	mustBind(a.v, "logger.level", flags, "log-level")

	root.AddCommand(
		newResolveCmd(a),
		newRenderCmd(a),
		newScriptCmd(a),
		newCaptureCmd(a),
	)
	return root
}

// mustBind binds a config key to a flag. Viper only lets the flag override
// the config file and environment when it was set explicitly.
func mustBind(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("binding %s: %v", name, err))
	}
}

// pipeline builds the load/layout/resolve pipeline from configuration.
func (a *app) pipeline(runScripts bool) *resource.Pipeline {
	client := stdnet.NewClient(a.cfg.Fetch.Timeout, a.cfg.Fetch.UserAgent)
	fetcher := resource.NewFetcher(client, "", a.logger.Named("fetch"))
	return resource.NewPipeline(fetcher, resource.Options{
		Width:      a.cfg.Viewport.Width,
		Height:     a.cfg.Viewport.Height,
		ScrollX:    a.cfg.Viewport.ScrollX,
		ScrollY:    a.cfg.Viewport.ScrollY,
		Workers:    a.cfg.Resolve.Workers,
		Algebra:    algebra(a.cfg.Resolve.Algebra),
		RunScripts: runScripts,
		Logger:     a.logger,
	})
}

func algebra(name string) geom.Algebra {
	if name == "naive" {
		return geom.Naive{}
	}
	return geom.MGL{}
}

// selector returns the --selector flag, falling back to configuration.
func (a *app) selector(cmd *cobra.Command) string {
	if s, _ := cmd.Flags().GetString("selector"); s != "" {
		return s
	}
	return a.cfg.Resolve.Selector
}

func since(start time.Time) zap.Field {
	return zap.Duration("elapsed", time.Since(start))
}
