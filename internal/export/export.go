// Package export writes rendered codes to PNG, JPEG, SVG and PDF.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// Format is an output file format.
type Format string

const (
	PNG Format = "png"
	JPG Format = "jpg"
	SVG Format = "svg"
	PDF Format = "pdf"
)

// Formats lists the supported output formats.
var Formats = []Format{PNG, JPG, SVG, PDF}

// ParseFormat accepts a format name or file extension; "jpeg" is an alias
// for jpg.
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if v == "jpeg" {
		return JPG, nil
	}
	for _, f := range Formats {
		if Format(v) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// MIMEType is the media type served for f.
func (f Format) MIMEType() string {
	switch f {
	case JPG:
		return "image/jpeg"
	case SVG:
		return "image/svg+xml"
	case PDF:
		return "application/pdf"
	}
	return "image/png"
}

// IOError reports a failure writing an artifact.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// PDFOptions sets the document metadata of PDF output.
type PDFOptions struct {
	Author  string
	Creator string
	Subject string
}

const jpegQuality = 92

// Exporter renders matrices with a fixed style and writes them out.
type Exporter struct {
	renderer *render.Renderer
	style    render.Style
	pdf      PDFOptions
	now      func() time.Time
}

// New returns an Exporter drawing with style s.
func New(log zerolog.Logger, s render.Style, opts PDFOptions) *Exporter {
	if opts.Creator == "" {
		opts.Creator = "qrstudio"
	}
	return &Exporter{
		renderer: render.NewRenderer(log),
		style:    s,
		pdf:      opts,
		now:      time.Now,
	}
}

// WithClock returns a copy of e that stamps PDFs with now.
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	c := *e
	c.now = now
	return &c
}

// Style returns the style e draws with.
func (e *Exporter) Style() render.Style { return e.style }

// Image renders m with the exporter's style.
func (e *Exporter) Image(m *encoder.Matrix) (*image.RGBA, error) {
	return e.renderer.Render(m, e.style)
}

// Write encodes m as f to w. title is used by PDF output only. It returns
// the number of bytes written.
func (e *Exporter) Write(w io.Writer, m *encoder.Matrix, f Format, title string) (int64, error) {
	cw := &countingWriter{w: w}
	var err error
	switch f {
	case SVG:
		err = render.RenderSVG(cw, m, e.style)
	case PNG, JPG, PDF:
		var img *image.RGBA
		img, err = e.Image(m)
		if err != nil {
			return 0, err
		}
		switch f {
		case PNG:
			err = png.Encode(cw, img)
		case JPG:
			err = jpeg.Encode(cw, opaque(img, e.style.Background), &jpeg.Options{Quality: jpegQuality})
		case PDF:
			err = e.writePDF(cw, img, title)
		}
	default:
		return 0, fmt.Errorf("unknown output format %q", f)
	}
	if err != nil {
		var ioe *IOError
		if errors.As(err, &ioe) || cw.err == nil {
			return cw.n, err
		}
		return cw.n, &IOError{Op: "write", Err: err}
	}
	return cw.n, nil
}

// WriteFile writes m as f to path, creating parent directories. A failed
// write leaves no partial file behind.
func (e *Exporter) WriteFile(path string, m *encoder.Matrix, f Format, title string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, &IOError{Op: "create", Path: path, Err: err}
	}
	n, err := e.Write(file, m, f, title)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = &IOError{Op: "close", Path: path, Err: cerr}
	}
	if err != nil {
		os.Remove(path)
		var ioe *IOError
		if errors.As(err, &ioe) && ioe.Path == "" {
			ioe.Path = path
		}
		return 0, err
	}
	return n, nil
}

// opaque composites img over bg, or over white when bg is transparent.
func opaque(img image.Image, bg color.RGBA) *image.RGBA {
	if bg.A == 0 {
		bg = color.RGBA{255, 255, 255, 255}
	}
	bg.A = 255
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, &image.Uniform{C: bg}, image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}
