// Package config handles loading application configuration from a YAML
// file, a .env file and QRSTUDIO_* environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "qrstudio.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QRSTUDIO_"

// Encoder selects the QR backend.
type Encoder struct {
	Backend         string `yaml:"backend"`
	ErrorCorrection string `yaml:"error_correction"`
}

// Style mirrors render.Style with string colors for the YAML file.
type Style struct {
	Shape          string  `yaml:"shape"`
	Foreground     string  `yaml:"foreground"`
	Background     string  `yaml:"background"`
	Gradient       string  `yaml:"gradient"`
	GradientStart  string  `yaml:"gradient_start"`
	GradientMiddle string  `yaml:"gradient_middle"`
	GradientEnd    string  `yaml:"gradient_end"`
	ModuleSize     int     `yaml:"module_size"`
	QuietZone      int     `yaml:"quiet_zone"`
	Frame          string  `yaml:"frame"`
	FrameColor     string  `yaml:"frame_color"`
	FrameWidth     int     `yaml:"frame_width"`
	Logo           string  `yaml:"logo"`
	LogoRatio      float64 `yaml:"logo_ratio"`
	Caption        string  `yaml:"caption"`
}

// Batch configures CSV runs.
type Batch struct {
	OutputDir string `yaml:"output_dir"`
	Format    string `yaml:"format"`
	Encoding  string `yaml:"encoding"`
	Delimiter string `yaml:"delimiter"`
}

// PDF sets document metadata.
type PDF struct {
	Author  string `yaml:"author"`
	Creator string `yaml:"creator"`
}

// History configures the run database.
type History struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr string `yaml:"addr"`
}

// Print configures the spooler command.
type Print struct {
	Command string `yaml:"command"`
}

// Config holds all application configuration values.
type Config struct {
	LogLevel  string  `yaml:"log_level"`
	LogFormat string  `yaml:"log_format"`
	Encoder   Encoder `yaml:"encoder"`
	Style     Style   `yaml:"style"`
	Batch     Batch   `yaml:"batch"`
	PDF       PDF     `yaml:"pdf"`
	History   History `yaml:"history"`
	Server    Server  `yaml:"server"`
	Print     Print   `yaml:"print"`
}

// Defaults returns a Config populated with default values.
func Defaults() *Config {
	s := render.DefaultStyle()
	dataDir := "."
	if d, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(d, "qrstudio")
	}
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Encoder: Encoder{
			Backend:         encoder.BackendYeqown,
			ErrorCorrection: "H",
		},
		Style: Style{
			Shape:          string(s.Shape),
			Foreground:     render.Hex(s.Foreground),
			Background:     render.Hex(s.Background),
			Gradient:       string(s.Gradient),
			GradientStart:  render.Hex(s.GradientStart),
			GradientMiddle: render.Hex(s.GradientMiddle),
			GradientEnd:    render.Hex(s.GradientEnd),
			ModuleSize:     s.ModuleSize,
			QuietZone:      s.QuietZone,
			Frame:          string(s.Frame),
			FrameWidth:     s.FrameWidth,
			LogoRatio:      s.LogoRatio,
		},
		Batch: Batch{
			OutputDir: "batch_output",
			Format:    string(export.PDF),
			Encoding:  "utf-8",
			Delimiter: ",",
		},
		PDF:     PDF{Creator: "qrstudio"},
		History: History{Enabled: true, Path: filepath.Join(dataDir, "history.db")},
		Server:  Server{Addr: ":8080"},
		Print:   Print{Command: export.DefaultPrintCommand},
	}
}

// Load reads the YAML file at path (DefaultPath when empty), falling back
// to defaults when the file does not exist. Variables from a .env file in
// the working directory are loaded without replacing ones already set, then
// QRSTUDIO_* variables override file and default values.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"LOG_LEVEL":        &cfg.LogLevel,
		"LOG_FORMAT":       &cfg.LogFormat,
		"ENCODER":          &cfg.Encoder.Backend,
		"ERROR_CORRECTION": &cfg.Encoder.ErrorCorrection,
		"SHAPE":            &cfg.Style.Shape,
		"FOREGROUND":       &cfg.Style.Foreground,
		"BACKGROUND":       &cfg.Style.Background,
		"GRADIENT":         &cfg.Style.Gradient,
		"FRAME":            &cfg.Style.Frame,
		"LOGO":             &cfg.Style.Logo,
		"OUTPUT_DIR":       &cfg.Batch.OutputDir,
		"FORMAT":           &cfg.Batch.Format,
		"ENCODING":         &cfg.Batch.Encoding,
		"DELIMITER":        &cfg.Batch.Delimiter,
		"PDF_AUTHOR":       &cfg.PDF.Author,
		"PDF_CREATOR":      &cfg.PDF.Creator,
		"HISTORY_PATH":     &cfg.History.Path,
		"ADDR":             &cfg.Server.Addr,
		"PRINT_COMMAND":    &cfg.Print.Command,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"MODULE_SIZE": &cfg.Style.ModuleSize,
		"QUIET_ZONE":  &cfg.Style.QuietZone,
		"FRAME_WIDTH": &cfg.Style.FrameWidth,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sHISTORY: %w", EnvPrefix, err)
		}
		cfg.History.Enabled = b
	}
	// PORT is the usual convention on container platforms.
	if v, ok := os.LookupEnv("PORT"); ok && os.Getenv(EnvPrefix+"ADDR") == "" {
		cfg.Server.Addr = ":" + strings.TrimSpace(v)
	}
	return nil
}

// Validate checks that enumerated values parse.
func (c *Config) Validate() error {
	if _, err := encoder.New(c.Encoder.Backend); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Batch.Format); err != nil {
		return fmt.Errorf("batch.format: %w", err)
	}
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if _, err := c.RenderStyle(); err != nil {
		return err
	}
	return nil
}

// Level returns the configured error-correction level.
func (c *Config) Level() (encoder.Level, error) {
	return encoder.ParseLevel(c.Encoder.ErrorCorrection)
}

// Delimiter returns the CSV delimiter; "tab" and "\t" select a tab.
func (c *Config) Delimiter() (rune, error) {
	d := c.Batch.Delimiter
	switch strings.ToLower(d) {
	case "", ",":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("batch.delimiter %q must be a single character", d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r, nil
}

// RenderStyle converts the style section into a render.Style.
func (c *Config) RenderStyle() (render.Style, error) {
	return c.Style.Render()
}

// Render converts s into a render.Style, starting from the defaults for
// anything left empty. The quiet zone is taken as is so it can be zero.
func (s Style) Render() (render.Style, error) {
	out := render.DefaultStyle()
	var err error
	if out.Shape, err = render.ParseShape(s.Shape); err != nil {
		return out, fmt.Errorf("style.shape: %w", err)
	}
	if out.Gradient, err = render.ParseGradient(s.Gradient); err != nil {
		return out, fmt.Errorf("style.gradient: %w", err)
	}
	if out.Frame, out.FrameRounded, err = render.ParseFrame(s.Frame); err != nil {
		return out, fmt.Errorf("style.frame: %w", err)
	}
	for _, f := range []struct {
		name string
		val  string
		set  func(string) error
	}{
		{"foreground", s.Foreground, func(v string) (e error) { out.Foreground, e = render.ParseColor(v); return }},
		{"background", s.Background, func(v string) (e error) { out.Background, e = render.ParseColor(v); return }},
		{"gradient_start", s.GradientStart, func(v string) (e error) { out.GradientStart, e = render.ParseColor(v); return }},
		{"gradient_middle", s.GradientMiddle, func(v string) (e error) { out.GradientMiddle, e = render.ParseColor(v); return }},
		{"gradient_end", s.GradientEnd, func(v string) (e error) { out.GradientEnd, e = render.ParseColor(v); return }},
		{"frame_color", s.FrameColor, func(v string) (e error) { out.FrameColor, e = render.ParseColor(v); return }},
	} {
		if strings.TrimSpace(f.val) == "" {
			continue
		}
		if err := f.set(f.val); err != nil {
			return out, fmt.Errorf("style.%s: %w", f.name, err)
		}
	}
	if s.ModuleSize != 0 {
		out.ModuleSize = s.ModuleSize
	}
	out.QuietZone = s.QuietZone
	if s.FrameWidth != 0 {
		out.FrameWidth = s.FrameWidth
	}
	if s.LogoRatio != 0 {
		out.LogoRatio = s.LogoRatio
	}
	out.LogoPath = s.Logo
	out.Caption = s.Caption
	if err := out.Validate(); err != nil {
		return out, fmt.Errorf("style: %w", err)
	}
	return out, nil
}
