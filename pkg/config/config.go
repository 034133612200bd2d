package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOMXFORM_VIEWPORT_WIDTH.
const EnvPrefix = "DOMXFORM"

// Config is the full runtime configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Resolve  ResolveConfig  `mapstructure:"resolve" yaml:"resolve"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// ViewportConfig sizes the layout viewport and its scroll position.
type ViewportConfig struct {
	Width   float64 `mapstructure:"width" yaml:"width"`
	Height  float64 `mapstructure:"height" yaml:"height"`
	ScrollX float64 `mapstructure:"scroll_x" yaml:"scroll_x"`
	ScrollY float64 `mapstructure:"scroll_y" yaml:"scroll_y"`
}

// ResolveConfig controls which elements are resolved and how.
type ResolveConfig struct {
	Selector string `mapstructure:"selector" yaml:"selector"`
	Workers  int    `mapstructure:"workers" yaml:"workers"`
	Algebra  string `mapstructure:"algebra" yaml:"algebra"` // "mgl" or "naive"
}

// RenderConfig styles the overlay output.
type RenderConfig struct {
	Fill    string  `mapstructure:"fill" yaml:"fill"`
	Stroke  string  `mapstructure:"stroke" yaml:"stroke"`
	Opacity float64 `mapstructure:"opacity" yaml:"opacity"`
	Labels  bool    `mapstructure:"labels" yaml:"labels"`
}

// BrowserConfig drives the Chrome instance used for live capture.
type BrowserConfig struct {
	Headless   bool          `mapstructure:"headless" yaml:"headless"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExecPath   string        `mapstructure:"exec_path" yaml:"exec_path"`
	WindowSize bool          `mapstructure:"window_size" yaml:"window_size"` // size the window to the viewport
}

// FetchConfig controls loading of http(s) documents.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "domxform")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)

	// -- Viewport --
	v.SetDefault("viewport.width", 800)
	v.SetDefault("viewport.height", 600)
	v.SetDefault("viewport.scroll_x", 0)
	v.SetDefault("viewport.scroll_y", 0)

	// -- Resolve --
	v.SetDefault("resolve.selector", "body *")
	v.SetDefault("resolve.workers", 4)
	v.SetDefault("resolve.algebra", "mgl")

	// -- Render --
	v.SetDefault("render.fill", "#3b82f6")
	v.SetDefault("render.stroke", "#1e3a8a")
	v.SetDefault("render.opacity", 0.25)
	v.SetDefault("render.labels", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout", "30s")
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.window_size", true)

	// -- Fetch --
	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("fetch.user_agent", "domxform/1.0")
}

// Load reads configuration into v from cfgFile, or from config.yaml in the
// working directory or the home directory when cfgFile is empty, and binds
// DOMXFORM_ environment overrides. A missing default config file is not an
// error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".domxform"))
			v.AddConfigPath(home)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make layout or resolution meaningless.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Resolve.Workers < 1 {
		return fmt.Errorf("resolve.workers must be at least 1, got %d", c.Resolve.Workers)
	}
	switch c.Resolve.Algebra {
	case "mgl", "naive":
	default:
		return fmt.Errorf("resolve.algebra must be mgl or naive, got %q", c.Resolve.Algebra)
	}
	if c.Render.Opacity < 0 || c.Render.Opacity > 1 {
		return fmt.Errorf("render.opacity must be within [0, 1], got %g", c.Render.Opacity)
	}
	return nil
}
