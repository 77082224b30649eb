// Package render rasterizes a module matrix into a styled image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
)

// maxCanvas bounds either side of a rendered image in pixels.
const maxCanvas = 16384

// Renderer draws matrices with a Style. The zero value is usable and
// discards log output.
type Renderer struct {
	log zerolog.Logger
}

// NewRenderer returns a Renderer that reports skipped logos to log.
func NewRenderer(log zerolog.Logger) *Renderer {
	return &Renderer{log: log}
}

// Layout describes where the parts of a rendered code land on the canvas.
type Layout struct {
	Canvas  image.Rectangle
	Framed  image.Rectangle // code plus frame band
	Code    image.Rectangle // symbol plus quiet zone
	Symbol  image.Rectangle // modules only
	Frame   int             // band width in pixels
	Caption image.Rectangle
}

// Measure computes the layout of m drawn with s without drawing anything.
func Measure(m *encoder.Matrix, s Style) Layout {
	n := m.Size()
	ms := s.ModuleSize
	codePx := (n + 2*s.QuietZone) * ms
	frame := 0
	if s.Frame != FrameNone && s.FrameWidth > 0 {
		frame = max(2, codePx*s.FrameWidth/100)
	}
	side := codePx + 2*frame
	captionH := 0
	if s.Caption != "" {
		captionH = int(math.Ceil(captionSize(codePx) * 2))
	}
	quiet := s.QuietZone * ms
	return Layout{
		Canvas:  image.Rect(0, 0, side, side+captionH),
		Framed:  image.Rect(0, 0, side, side),
		Code:    image.Rect(frame, frame, frame+codePx, frame+codePx),
		Symbol:  image.Rect(frame+quiet, frame+quiet, frame+quiet+n*ms, frame+quiet+n*ms),
		Frame:   frame,
		Caption: image.Rect(0, side, side, side+captionH),
	}
}

// Render draws m with style s.
func (r *Renderer) Render(m *encoder.Matrix, s Style) (*image.RGBA, error) {
	if m == nil || m.Size() == 0 {
		return nil, errors.New("render: empty matrix")
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	l := Measure(m, s)
	if l.Canvas.Dx() > maxCanvas || l.Canvas.Dy() > maxCanvas {
		return nil, fmt.Errorf("render: %dx%d image exceeds %d pixels", l.Canvas.Dx(), l.Canvas.Dy(), maxCanvas)
	}

	dst := image.NewRGBA(l.Canvas)
	dc := gg.NewContextForRGBA(dst)
	if s.Background.A != 0 {
		dc.SetColor(s.Background)
		dc.Clear()
	}

	traceModules(dc, m, s, l.Symbol.Min)
	dc.SetFillStyle(s.fill(l.Symbol))
	dc.Fill()

	paintFrame(dst, l.Framed, l.Frame, s)

	if s.LogoPath != "" {
		logo, err := LoadLogo(s.LogoPath)
		if err != nil {
			r.log.Warn().Err(err).Str("logo", s.LogoPath).Msg("skipping logo")
		} else {
			pasteLogo(dst, l.Symbol, logo, s.LogoRatio)
		}
	}

	if s.Caption != "" {
		if err := drawCaption(dc, s.Caption, l.Caption, s.captionColor(), l.Code.Dx()); err != nil {
			r.log.Warn().Err(err).Msg("skipping caption")
		}
	}
	return dst, nil
}

// traceModules adds one subpath per dark module (plus connectors for the
// joined shapes) to the current path of dc.
func traceModules(dc *gg.Context, m *encoder.Matrix, s Style, origin image.Point) {
	n := m.Size()
	ms := float64(s.ModuleSize)
	ox, oy := float64(origin.X), float64(origin.Y)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := ox+float64(x)*ms, oy+float64(y)*ms
			if finderModule(x, y, n) {
				dc.DrawRectangle(px, py, ms, ms)
				continue
			}
			right, down := m.Dark(x+1, y), m.Dark(x, y+1)
			switch s.Shape {
			case ShapeCircle:
				dc.DrawCircle(px+ms/2, py+ms/2, ms/2)
			case ShapeGapped:
				gap := ms * 0.1
				dc.DrawRectangle(px+gap, py+gap, ms-2*gap, ms-2*gap)
			case ShapeRounded:
				dc.DrawRoundedRectangle(px, py, ms, ms, ms*0.35)
				if right {
					dc.DrawRectangle(px+ms/2, py, ms, ms)
				}
				if down {
					dc.DrawRectangle(px, py+ms/2, ms, ms)
				}
			case ShapeVertical:
				inset := ms * 0.1
				dc.DrawRoundedRectangle(px+inset, py, ms-2*inset, ms, (ms-2*inset)/2)
				if down {
					dc.DrawRectangle(px+inset, py+ms/2, ms-2*inset, ms)
				}
			case ShapeHorizontal:
				inset := ms * 0.1
				dc.DrawRoundedRectangle(px, py+inset, ms, ms-2*inset, (ms-2*inset)/2)
				if right {
					dc.DrawRectangle(px+ms/2, py+inset, ms, ms-2*inset)
				}
			default:
				dc.DrawRectangle(px, py, ms, ms)
			}
		}
	}
}

// finderModule reports whether (x, y) lies in one of the three 7x7 finder
// patterns. Readers locate a code by the 1:1:3:1:1 runs across these, so
// they are always drawn as plain squares.
func finderModule(x, y, n int) bool {
	const f = 7
	left, top := x < f, y < f
	return (left && top) || (x >= n-f && top) || (left && y >= n-f)
}

// fill returns the pattern for dark modules spread over area.
func (s Style) fill(area image.Rectangle) gg.Pattern {
	x0, y0 := float64(area.Min.X), float64(area.Min.Y)
	x1, y1 := float64(area.Max.X), float64(area.Max.Y)
	var g gg.Gradient
	switch s.Gradient {
	case GradientLinear:
		g = gg.NewLinearGradient(x0, y1, x1, y0)
	case GradientRadial:
		cx, cy := (x0+x1)/2, (y0+y1)/2
		g = gg.NewRadialGradient(cx, cy, 0, cx, cy, (x1-x0)/2*math.Sqrt2)
	default:
		return gg.NewSolidPattern(s.Foreground)
	}
	g.AddColorStop(0, s.GradientStart)
	g.AddColorStop(0.5, s.GradientMiddle)
	g.AddColorStop(1, s.GradientEnd)
	return g
}

func (s Style) captionColor() color.Color {
	if s.Gradient != GradientNone {
		return s.GradientStart
	}
	if s.Foreground.A == 0 {
		return black
	}
	return s.Foreground
}
