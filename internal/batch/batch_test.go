package batch

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// memWriter records artifact paths without touching the disk.
type memWriter struct {
	paths  []string
	titles []string
	fail   map[string]error
}

func (w *memWriter) WriteFile(path string, _ *encoder.Matrix, _ export.Format, title string) (int64, error) {
	if err, ok := w.fail[filepath.Base(path)]; ok {
		return 0, err
	}
	w.paths = append(w.paths, path)
	w.titles = append(w.titles, title)
	return 100, nil
}

func newRunner(w ArtifactWriter, f export.Format) *Runner {
	return &Runner{
		Encoder: encoder.Yeqown{},
		Writer:  w,
		Level:   encoder.LevelMedium,
		Format:  f,
		Log:     zerolog.Nop(),
	}
}

func TestRunExample(t *testing.T) {
	w := &memWriter{}
	run := newRunner(w, export.PDF).Run(context.Background(), Rows(
		Row{Type: payload.URL, Data: "https://github.com", PDFTitle: "GitHub"},
		Row{Type: payload.Phone, Data: "", PDFTitle: "Contact"},
	), "out")

	results := run.Collect()
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].Success || results[0].Path != filepath.Join("out", "001_url_github.pdf") {
		t.Errorf("row 1 = %+v", results[0])
	}
	var fe *payload.InvalidFieldError
	if results[1].Success || !errors.As(results[1].Err, &fe) || results[1].Kind != KindInvalidField {
		t.Errorf("row 2 = %+v, want InvalidFieldError", results[1])
	}
	s := run.Summary()
	if s.Total != 2 || s.Succeeded != 1 || s.Failed != 1 || s.Canceled {
		t.Errorf("summary = %+v", s)
	}
	if s.RunID == "" || !run.Done() {
		t.Error("run id missing or run not done")
	}
}

func TestRunCountsMalformedRows(t *testing.T) {
	good := []Row{
		{Type: payload.Text, Data: "hello"},
		{Type: payload.URL, Data: "https://example.com"},
		{Type: payload.WiFi, Data: "ssid=Home%3BNet&password=p%40ss&security=WPA"},
		{Type: payload.SMS, Data: `{"number":"+15550100","message":"hi"}`},
	}
	bad := []Row{
		{Type: payload.Phone, Data: "  "},
		{Type: payload.WiFi, Data: `{"ssid":"x","security":"WPA"}`},
		{Type: payload.Email, Data: `{not json`},
		{Err: errors.New("unknown content type \"fax\"")},
		{Type: payload.Text, Data: strings.Repeat("x", 3000)},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.IntN(30)
		var rows []Row
		k := 0
		for i := 0; i < n; i++ {
			if rng.IntN(3) == 0 {
				rows = append(rows, bad[rng.IntN(len(bad))])
				k++
			} else {
				rows = append(rows, good[rng.IntN(len(good))])
			}
		}
		results := newRunner(&memWriter{}, export.PNG).Run(context.Background(), Rows(rows...), "out").Collect()
		if len(results) != n {
			t.Fatalf("trial %d: %d results for %d rows", trial, len(results), n)
		}
		failed := 0
		for i, r := range results {
			if r.Index != i+1 {
				t.Errorf("trial %d: result %d has index %d", trial, i, r.Index)
			}
			if !r.Success {
				failed++
			}
		}
		if failed != k {
			t.Errorf("trial %d: %d failed, want %d", trial, failed, k)
		}
	}
}

func TestRunFailureKinds(t *testing.T) {
	w := &memWriter{fail: map[string]error{
		"003_text.png": &export.IOError{Op: "create", Path: "003_text.png", Err: os.ErrPermission},
	}}
	results := newRunner(w, export.PNG).Run(context.Background(), Rows(
		Row{Err: errors.New("bad record")},
		Row{Type: payload.Text, Data: strings.Repeat("x", 3000)},
		Row{Type: payload.Text, Data: "ok"},
		Row{Type: payload.Phone, Data: ""},
		Row{Type: payload.Email, Data: "{"},
	), "out").Collect()
	want := []Kind{KindParse, KindCapacity, KindIO, KindInvalidField, KindParse}
	for i, r := range results {
		if r.Kind != want[i] {
			t.Errorf("row %d kind = %q, want %q (%v)", i+1, r.Kind, want[i], r.Err)
		}
		if r.Message == "" {
			t.Errorf("row %d has no message", i+1)
		}
	}
}

func TestRunIsLazyAndOneShot(t *testing.T) {
	w := &memWriter{}
	run := newRunner(w, export.PNG).Run(context.Background(), Rows(
		Row{Type: payload.Text, Data: "a"},
		Row{Type: payload.Text, Data: "b"},
		Row{Type: payload.Text, Data: "c"},
	), "out")
	if len(w.paths) != 0 {
		t.Fatal("rows processed before consumption")
	}
	for r := range run.Results() {
		if r.Index == 1 {
			break
		}
	}
	if len(w.paths) != 1 {
		t.Errorf("processed %d rows after pulling one", len(w.paths))
	}
	count := 0
	for range run.Results() {
		count++
	}
	if count != 0 {
		t.Errorf("second iteration yielded %d results", count)
	}
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := &memWriter{}
	run := newRunner(w, export.PNG).Run(ctx, Rows(
		Row{Type: payload.Text, Data: "a"},
		Row{Type: payload.Text, Data: "b"},
		Row{Type: payload.Text, Data: "c"},
	), "out")
	var got []Result
	for r := range run.Results() {
		got = append(got, r)
		if r.Index == 2 {
			cancel()
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d results after cancel, want 2", len(got))
	}
	s := run.Summary()
	if !s.Canceled || s.Total != 2 || s.Succeeded != 2 {
		t.Errorf("summary = %+v", s)
	}
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	e := export.New(zerolog.Nop(), render.DefaultStyle(), export.PDFOptions{})
	csvData := "type,data,pdf_title\nURL,https://github.com,GitHub\nPhone,,Contact\nText,plain,\n"
	src, err := NewCSVSource(strings.NewReader(csvData), CSVOptions{})
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := newRunner(e, export.PDF)
	r.Now = func() time.Time { return fixed }
	run := r.Run(context.Background(), src, dir)
	results := run.Collect()

	for _, name := range []string{"001_url_github.pdf", "003_text.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "002_phone_contact.pdf")); !os.IsNotExist(err) {
		t.Errorf("failed row left an artifact: %v", err)
	}
	if s := run.Summary(); s.Bytes <= 0 || !s.Started.Equal(fixed) {
		t.Errorf("summary = %+v", s)
	}

	var buf bytes.Buffer
	if err := Report(&buf, run.Summary(), results); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Succeeded:  2", "Failed:     1", "row 2 (Phone) [invalid_field]"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestDefaultPDFTitle(t *testing.T) {
	w := &memWriter{}
	newRunner(w, export.PDF).Run(context.Background(), Rows(Row{Type: payload.Text, Data: "x"}), "out").Collect()
	if len(w.titles) != 1 || w.titles[0] != "QR_1" {
		t.Errorf("titles = %v", w.titles)
	}
	if filepath.Base(w.paths[0]) != "001_text.pdf" {
		t.Errorf("path = %s", w.paths[0])
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		index int
		typ   payload.ContentType
		title string
		f     export.Format
		want  string
	}{
		{1, payload.URL, "GitHub", export.PDF, "001_url_github.pdf"},
		{1, payload.URL, "GitHub", export.PNG, "001_url.png"},
		{12, payload.VCard, "Jane Doe / Sales!", export.PDF, "012_vcard_jane-doe-sales.pdf"},
		{1000, payload.WiFi, "", export.SVG, "1000_wifi.svg"},
		{7, payload.Text, "¡¿", export.PDF, "007_text.pdf"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.index, tt.typ, tt.title, tt.f); got != tt.want {
			t.Errorf("ArtifactName(%d, %s, %q) = %q, want %q", tt.index, tt.typ, tt.title, got, tt.want)
		}
	}
}

func TestRunInto(t *testing.T) {
	w := &memWriter{}
	run := newRunner(w, export.PNG).Run(context.Background(), Rows(Row{Type: payload.Text, Data: "a"}), "")
	run.Into(filepath.Join("runs", run.ID()))
	run.Collect()
	if want := filepath.Join("runs", run.ID(), "001_text.png"); len(w.paths) != 1 || w.paths[0] != want {
		t.Errorf("paths = %v, want %s", w.paths, want)
	}
	if run.Summary().OutputDir != filepath.Join("runs", run.ID()) {
		t.Errorf("OutputDir = %q", run.Summary().OutputDir)
	}
	run.Into("elsewhere")
	if run.Summary().OutputDir == "elsewhere" {
		t.Error("Into changed a finished run")
	}
}
