package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/srwiley/oksvg"
)

// Shape is how a single dark module is drawn.
type Shape string

const (
	ShapeSquare     Shape = "square"
	ShapeRounded    Shape = "rounded"
	ShapeCircle     Shape = "circle"
	ShapeGapped     Shape = "gapped"
	ShapeVertical   Shape = "vertical"
	ShapeHorizontal Shape = "horizontal"
)

// Shapes lists the supported module shapes.
var Shapes = []Shape{ShapeSquare, ShapeRounded, ShapeCircle, ShapeGapped, ShapeVertical, ShapeHorizontal}

// ParseShape accepts a shape name or one of the aliases used by the web
// form (rectangle, dots, liquid, chain, vstripe, hstripe).
func ParseShape(s string) (Shape, error) {
	switch v := Shape(strings.ToLower(strings.TrimSpace(s))); v {
	case "", "rectangle":
		return ShapeSquare, nil
	case "dots", "dot":
		return ShapeCircle, nil
	case "liquid", "chain":
		return ShapeRounded, nil
	case "vstripe", "bars":
		return ShapeVertical, nil
	case "hstripe":
		return ShapeHorizontal, nil
	default:
		for _, sh := range Shapes {
			if v == sh {
				return sh, nil
			}
		}
	}
	return "", fmt.Errorf("unknown module shape %q", s)
}

// Gradient selects how the foreground is filled.
type Gradient string

const (
	GradientNone   Gradient = "none"
	GradientLinear Gradient = "linear"
	GradientRadial Gradient = "radial"
)

// ParseGradient accepts none/flat, linear/gradient and radial.
func ParseGradient(s string) (Gradient, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "flat":
		return GradientNone, nil
	case "linear", "gradient":
		return GradientLinear, nil
	case "radial", "square":
		return GradientRadial, nil
	}
	return "", fmt.Errorf("unknown gradient %q", s)
}

// Frame is the decorative border pattern drawn around the code.
type Frame string

const (
	FrameNone     Frame = "none"
	FrameSimple   Frame = "simple"
	FrameDashed   Frame = "dashed"
	FrameDotted   Frame = "dotted"
	FrameDouble   Frame = "double"
	FrameDiagonal Frame = "diagonal"
	FrameGrid     Frame = "grid"
)

var frames = []Frame{FrameNone, FrameSimple, FrameDashed, FrameDotted, FrameDouble, FrameDiagonal, FrameGrid}

// ParseFrame accepts a frame pattern. A "rounded-" prefix selects rounded
// corners, matching the web form's combined value.
func ParseFrame(s string) (Frame, bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	rounded := false
	if rest, ok := strings.CutPrefix(v, "rounded-"); ok {
		v, rounded = rest, true
	}
	if v == "" {
		return FrameNone, false, nil
	}
	for _, f := range frames {
		if Frame(v) == f {
			return f, rounded && f != FrameNone, nil
		}
	}
	return "", false, fmt.Errorf("unknown frame %q", s)
}

// Style holds every visual parameter of a rendered code.
type Style struct {
	Shape      Shape
	Foreground color.RGBA
	Background color.RGBA

	Gradient       Gradient
	GradientStart  color.RGBA
	GradientMiddle color.RGBA
	GradientEnd    color.RGBA

	// ModuleSize is the edge length of one module in pixels.
	ModuleSize int
	// QuietZone is the light margin around the symbol, in modules.
	QuietZone int

	Frame        Frame
	FrameRounded bool
	// FrameColor defaults to the foreground when its alpha is zero.
	FrameColor color.RGBA
	// FrameWidth is a percentage of the symbol edge.
	FrameWidth int

	LogoPath string
	// LogoRatio caps the logo area as a share of the code area.
	LogoRatio float64

	Caption string
}

var (
	black       = color.RGBA{0, 0, 0, 255}
	white       = color.RGBA{255, 255, 255, 255}
	transparent = color.RGBA{}
)

// DefaultStyle is black square modules on white with a four module quiet
// zone.
func DefaultStyle() Style {
	return Style{
		Shape:          ShapeSquare,
		Foreground:     black,
		Background:     white,
		Gradient:       GradientNone,
		GradientStart:  black,
		GradientMiddle: color.RGBA{128, 128, 128, 255},
		GradientEnd:    color.RGBA{255, 0, 0, 255},
		ModuleSize:     10,
		QuietZone:      4,
		Frame:          FrameNone,
		FrameWidth:     4,
		LogoRatio:      0.0655,
	}
}

// Validate checks numeric limits.
func (s Style) Validate() error {
	if s.ModuleSize < 1 || s.ModuleSize > 200 {
		return fmt.Errorf("module size %d out of range 1-200", s.ModuleSize)
	}
	if s.QuietZone < 0 || s.QuietZone > 40 {
		return fmt.Errorf("quiet zone %d out of range 0-40", s.QuietZone)
	}
	if s.FrameWidth < 0 || s.FrameWidth > 25 {
		return fmt.Errorf("frame width %d%% out of range 0-25", s.FrameWidth)
	}
	if s.LogoRatio < 0 || s.LogoRatio > 0.3 {
		return fmt.Errorf("logo ratio %.3f out of range 0-0.3", s.LogoRatio)
	}
	return nil
}

func (s Style) frameColor() color.RGBA {
	if s.FrameColor.A != 0 {
		return s.FrameColor
	}
	if s.Gradient != GradientNone {
		return s.GradientStart
	}
	return s.Foreground
}

// ParseColor parses hex (#rgb, #rrggbb), rgb(), hsl(), SVG color names and
// "transparent".
func ParseColor(s string) (color.RGBA, error) {
	v := strings.TrimSpace(s)
	switch strings.ToLower(v) {
	case "":
		return transparent, fmt.Errorf("empty color")
	case "transparent", "none":
		return transparent, nil
	}
	if !strings.HasPrefix(v, "#") && isHex(v) {
		v = "#" + v
	}
	c, err := oksvg.ParseSVGColor(v)
	if err != nil {
		return transparent, fmt.Errorf("parse color %q: %w", s, err)
	}
	if c == nil {
		return transparent, nil
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}, nil
}

// ParseColorOr returns def when s is empty or unparsable.
func ParseColorOr(s string, def color.RGBA) color.RGBA {
	if strings.TrimSpace(s) == "" {
		return def
	}
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

func isHex(s string) bool {
	if len(s) != 3 && len(s) != 6 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
