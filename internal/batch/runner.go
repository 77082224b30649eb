// Package batch produces one QR artifact per input row, recording a result
// for every row without letting one row's failure stop the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
)

// Kind classifies a failed row.
type Kind string

const (
	KindNone         Kind = ""
	KindInvalidField Kind = "invalid_field"
	KindCapacity     Kind = "capacity"
	KindIO           Kind = "io"
	KindParse        Kind = "parse"
	KindCanceled     Kind = "canceled"
)

// Result is the outcome of one row.
type Result struct {
	Index   int                 `json:"index"`
	Type    payload.ContentType `json:"type"`
	Success bool                `json:"success"`
	Path    string              `json:"path,omitempty"`
	Bytes   int64               `json:"bytes,omitempty"`
	Kind    Kind                `json:"kind,omitempty"`
	Err     error               `json:"-"`
	Message string              `json:"error,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Input     string        `json:"input,omitempty"`
	OutputDir string        `json:"output_dir"`
	Format    export.Format `json:"format"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Bytes     int64         `json:"bytes"`
	Canceled  bool          `json:"canceled"`
	Started   time.Time     `json:"started"`
	Finished  time.Time     `json:"finished"`
}

// ArtifactWriter persists one encoded row. *export.Exporter implements it.
type ArtifactWriter interface {
	WriteFile(path string, m *encoder.Matrix, f export.Format, title string) (int64, error)
}

// Runner holds the collaborators shared by every run.
type Runner struct {
	Encoder encoder.Encoder
	Writer  ArtifactWriter
	Level   encoder.Level
	Format  export.Format
	Log     zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run is a single pass over a RowSource. Its results can be consumed once.
type Run struct {
	runner  *Runner
	ctx     context.Context
	src     RowSource
	dir     string
	started bool
	done    bool
	summary Summary
}

// Run prepares a run writing into outputDir. Nothing is read until the
// results are consumed.
func (r *Runner) Run(ctx context.Context, src RowSource, outputDir string) *Run {
	format := r.Format
	if format == "" {
		format = export.PNG
	}
	return &Run{
		runner: r,
		ctx:    ctx,
		src:    src,
		dir:    outputDir,
		summary: Summary{
			RunID:     uuid.NewString(),
			OutputDir: outputDir,
			Format:    format,
		},
	}
}

// Label records the name of the input (usually a file name) in the summary.
func (run *Run) Label(input string) *Run {
	run.summary.Input = input
	return run
}

// Into redirects the artifacts of a run that has not started yet.
func (run *Run) Into(outputDir string) *Run {
	if !run.started {
		run.dir = outputDir
		run.summary.OutputDir = outputDir
	}
	return run
}

// ID identifies the run.
func (run *Run) ID() string { return run.summary.RunID }

// Summary returns the counts so far; it is final once Results is drained.
func (run *Run) Summary() Summary { return run.summary }

// Done reports whether the results have been fully consumed.
func (run *Run) Done() bool { return run.done }

// Results yields one Result per row in input order. Rows are processed as
// they are pulled. A second call yields nothing.
func (run *Run) Results() iter.Seq[Result] {
	return func(yield func(Result) bool) {
		if run.started {
			return
		}
		run.started = true
		r := run.runner
		run.summary.Started = r.now()
		log := r.Log.With().Str("run", run.summary.RunID).Logger()
		defer func() {
			run.summary.Finished = r.now()
			run.done = true
			log.Info().
				Int("total", run.summary.Total).
				Int("succeeded", run.summary.Succeeded).
				Int("failed", run.summary.Failed).
				Bool("canceled", run.summary.Canceled).
				Msg("batch finished")
		}()

		for {
			if err := run.ctx.Err(); err != nil {
				run.summary.Canceled = true
				log.Warn().Err(err).Msg("batch canceled")
				return
			}
			row, err := run.src.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				// The source itself failed; no further rows can be read.
				res := Result{Index: run.summary.Total + 1, Kind: KindIO, Err: err, Message: err.Error()}
				run.record(res, log)
				yield(res)
				return
			}
			res := r.process(row, run.dir, run.summary.Format)
			run.record(res, log)
			if !yield(res) {
				return
			}
		}
	}
}

// Collect drains the run and returns every result.
func (run *Run) Collect() []Result {
	var out []Result
	for res := range run.Results() {
		out = append(out, res)
	}
	return out
}

func (run *Run) record(res Result, log zerolog.Logger) {
	run.summary.Total++
	if res.Success {
		run.summary.Succeeded++
		run.summary.Bytes += res.Bytes
		log.Debug().Int("row", res.Index).Str("path", res.Path).Msg("row written")
		return
	}
	run.summary.Failed++
	log.Warn().Int("row", res.Index).Str("kind", string(res.Kind)).Err(res.Err).Msg("row failed")
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Runner) process(row Row, dir string, format export.Format) Result {
	res := Result{Index: row.Index, Type: row.Type}
	fail := func(kind Kind, err error) Result {
		res.Kind, res.Err, res.Message = kind, err, err.Error()
		return res
	}
	if row.Err != nil {
		return fail(KindParse, row.Err)
	}

	fields := row.Fields
	if fields == nil {
		var err error
		fields, err = payload.ParseData(row.Type, row.Data)
		if err != nil {
			return fail(KindParse, err)
		}
	}
	p, err := payload.Format(row.Type, fields)
	if err != nil {
		return fail(kindOf(err), err)
	}
	m, err := r.Encoder.Encode(string(p), r.Level)
	if err != nil {
		return fail(kindOf(err), err)
	}

	title := row.PDFTitle
	if title == "" && format == export.PDF {
		title = fmt.Sprintf("QR_%d", row.Index)
	}
	path := filepath.Join(dir, ArtifactName(row.Index, row.Type, row.PDFTitle, format))
	n, err := r.Writer.WriteFile(path, m, format, title)
	if err != nil {
		return fail(kindOf(err), err)
	}
	res.Success, res.Path, res.Bytes = true, path, n
	return res
}

func kindOf(err error) Kind {
	var (
		fe *payload.InvalidFieldError
		ce *encoder.CapacityError
		ie *export.IOError
	)
	switch {
	case errors.As(err, &fe):
		return KindInvalidField
	case errors.As(err, &ce):
		return KindCapacity
	case errors.As(err, &ie):
		return KindIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindIO
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lower-cases s and collapses anything but ASCII letters and digits
// into single dashes.
func Slug(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	return s
}

// ArtifactName is the deterministic file name of a row's output:
// NNN_type[_title].ext, with the title slug used for PDFs only.
func ArtifactName(index int, t payload.ContentType, title string, f export.Format) string {
	name := fmt.Sprintf("%03d_%s", index, t.Slug())
	if f == export.PDF {
		if s := Slug(title); s != "" {
			name += "_" + s
		}
	}
	return name + f.Ext()
}
