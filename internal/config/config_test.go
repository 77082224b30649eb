package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// chdir moves into a fresh directory so no stray qrstudio.yaml or .env is
// picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Encoder.Backend != encoder.BackendYeqown || cfg.Batch.Format != "pdf" || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if lvl, err := cfg.Level(); err != nil || lvl != encoder.LevelHigh {
		t.Errorf("default Level() = %v, %v; want H", lvl, err)
	}
	s, err := cfg.RenderStyle()
	if err != nil {
		t.Fatal(err)
	}
	if s != render.DefaultStyle() {
		t.Errorf("default style = %+v, want %+v", s, render.DefaultStyle())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdir(t)
	yml := `
log_level: debug
encoder:
  backend: skip2
  error_correction: Q
style:
  shape: dots
  foreground: "#112233"
  frame: rounded-double
  quiet_zone: 0
batch:
  delimiter: ";"
  format: png
`
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("QRSTUDIO_PDF_AUTHOR=Dotenv Author\nQRSTUDIO_FORMAT=svg\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QRSTUDIO_FORMAT", "jpg")
	t.Setenv("QRSTUDIO_MODULE_SIZE", "6")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("QRSTUDIO_PDF_AUTHOR") })

	if cfg.LogLevel != "debug" || cfg.Encoder.Backend != "skip2" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if lvl, _ := cfg.Level(); lvl != encoder.LevelQuartile {
		t.Errorf("Level() = %v", lvl)
	}
	// The process environment wins over .env.
	if cfg.Batch.Format != "jpg" {
		t.Errorf("format = %q, want jpg", cfg.Batch.Format)
	}
	if cfg.PDF.Author != "Dotenv Author" {
		t.Errorf("pdf author = %q", cfg.PDF.Author)
	}
	if d, _ := cfg.Delimiter(); d != ';' {
		t.Errorf("Delimiter() = %q", d)
	}

	s, err := cfg.RenderStyle()
	if err != nil {
		t.Fatal(err)
	}
	if s.Shape != render.ShapeCircle || s.Frame != render.FrameDouble || !s.FrameRounded {
		t.Errorf("style = %+v", s)
	}
	if s.ModuleSize != 6 || s.QuietZone != 0 || render.Hex(s.Foreground) != "#112233" {
		t.Errorf("style numbers/colors = %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := chdir(t)
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("explicit missing file accepted")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("encoder: [unclosed"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML accepted")
	}

	os.WriteFile(bad, []byte("style:\n  shape: hexagon\n"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("unknown shape accepted")
	}

	t.Setenv("QRSTUDIO_MODULE_SIZE", "big")
	if _, err := Load(""); err == nil {
		t.Error("non-numeric module size accepted")
	}
}

func TestDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": ',', ",": ',', "tab": '\t', `\t`: '\t', "|": '|', "§": '§'} {
		c := &Config{Batch: Batch{Delimiter: in}}
		got, err := c.Delimiter()
		if err != nil || got != want {
			t.Errorf("Delimiter(%q) = %q, %v", in, got, err)
		}
	}
	c := &Config{Batch: Batch{Delimiter: ";;"}}
	if _, err := c.Delimiter(); err == nil {
		t.Error("two-character delimiter accepted")
	}
}
