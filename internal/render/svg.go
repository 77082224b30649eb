package render

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
)

// RenderSVG writes m as a vector SVG document. Modules are emitted as
// individual shapes; logos are not embedded.
func RenderSVG(w io.Writer, m *encoder.Matrix, s Style) error {
	if m == nil || m.Size() == 0 {
		return errors.New("render svg: empty matrix")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	l := Measure(m, s)
	width, height := l.Canvas.Dx(), l.Canvas.Dy()
	bw := bufio.NewWriter(w)

	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)

	fill := svgColor(s.Foreground)
	if s.Gradient != GradientNone {
		writeGradientDefs(bw, s)
		fill = "url(#qrGradient)"
	}

	if s.Background.A > 0 {
		fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="%s"%s/>`+"\n",
			width, height, svgColor(s.Background), svgOpacity(s.Background))
	}

	if f := l.Frame; f > 0 {
		fc := svgColor(s.frameColor())
		if s.Gradient != GradientNone && s.FrameColor.A == 0 {
			fc = "url(#qrGradient)"
		}
		side := float64(l.Framed.Dx())
		rx := 0.0
		if s.FrameRounded {
			rx = float64(f) * 1.5
		}
		// Stroke centered on the band.
		half := float64(f) / 2
		fmt.Fprintf(bw, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="none" stroke="%s" stroke-width="%d"%s/>`+"\n",
			num(half), num(half), num(side-float64(f)), num(side-float64(f)), num(rx), fc, f, svgDash(s.Frame, f))
	}

	fmt.Fprintf(bw, `<g fill="%s">`+"\n", fill)
	writeModules(bw, m, s, float64(l.Symbol.Min.X), float64(l.Symbol.Min.Y))
	bw.WriteString("</g>\n")

	if s.Caption != "" {
		fmt.Fprintf(bw, `<text x="%d" y="%d" font-family="sans-serif" font-size="%s" text-anchor="middle" dominant-baseline="middle" fill="%s">`,
			l.Caption.Min.X+l.Caption.Dx()/2, l.Caption.Min.Y+l.Caption.Dy()/2,
			num(captionSize(l.Code.Dx())), svgColor(toRGBA(s.captionColor())))
		if err := xml.EscapeText(bw, []byte(s.Caption)); err != nil {
			return err
		}
		bw.WriteString("</text>\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writeGradientDefs(bw *bufio.Writer, s Style) {
	bw.WriteString("<defs>")
	end := "</linearGradient>"
	if s.Gradient == GradientRadial {
		bw.WriteString(`<radialGradient id="qrGradient" cx="50%" cy="50%" r="71%">`)
		end = "</radialGradient>"
	} else {
		bw.WriteString(`<linearGradient id="qrGradient" x1="0%" y1="100%" x2="100%" y2="0%">`)
	}
	fmt.Fprintf(bw, `<stop offset="0%%" stop-color="%s"/>`, svgColor(s.GradientStart))
	fmt.Fprintf(bw, `<stop offset="50%%" stop-color="%s"/>`, svgColor(s.GradientMiddle))
	fmt.Fprintf(bw, `<stop offset="100%%" stop-color="%s"/>`, svgColor(s.GradientEnd))
	bw.WriteString(end)
	bw.WriteString("</defs>\n")
}

func writeModules(bw *bufio.Writer, m *encoder.Matrix, s Style, ox, oy float64) {
	rect := func(x, y, w, h, rx float64) {
		if rx > 0 {
			fmt.Fprintf(bw, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s"/>`, num(x), num(y), num(w), num(h), num(rx))
			return
		}
		fmt.Fprintf(bw, `<rect x="%s" y="%s" width="%s" height="%s"/>`, num(x), num(y), num(w), num(h))
	}
	n := m.Size()
	ms := float64(s.ModuleSize)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !m.Dark(x, y) {
				continue
			}
			px, py := ox+float64(x)*ms, oy+float64(y)*ms
			if finderModule(x, y, n) {
				rect(px, py, ms, ms, 0)
				continue
			}
			switch s.Shape {
			case ShapeCircle:
				fmt.Fprintf(bw, `<circle cx="%s" cy="%s" r="%s"/>`, num(px+ms/2), num(py+ms/2), num(ms/2))
			case ShapeGapped:
				gap := ms * 0.1
				rect(px+gap, py+gap, ms-2*gap, ms-2*gap, 0)
			case ShapeRounded:
				rect(px, py, ms, ms, ms*0.35)
				if m.Dark(x+1, y) {
					rect(px+ms/2, py, ms, ms, 0)
				}
				if m.Dark(x, y+1) {
					rect(px, py+ms/2, ms, ms, 0)
				}
			case ShapeVertical:
				inset := ms * 0.1
				rect(px+inset, py, ms-2*inset, ms, (ms-2*inset)/2)
				if m.Dark(x, y+1) {
					rect(px+inset, py+ms/2, ms-2*inset, ms, 0)
				}
			case ShapeHorizontal:
				inset := ms * 0.1
				rect(px, py+inset, ms, ms-2*inset, (ms-2*inset)/2)
				if m.Dark(x+1, y) {
					rect(px+ms/2, py+inset, ms, ms-2*inset, 0)
				}
			default:
				rect(px, py, ms, ms, 0)
			}
		}
		bw.WriteByte('\n')
	}
}

// svgDash maps the patterned frames onto stroke dash arrays. Frames that
// have no dash equivalent fall back to a solid stroke.
func svgDash(f Frame, width int) string {
	switch f {
	case FrameDashed:
		d := max(width*3, 6)
		return fmt.Sprintf(` stroke-dasharray="%d %d"`, d, d/2)
	case FrameDotted:
		return fmt.Sprintf(` stroke-dasharray="%d %d" stroke-linecap="round"`, 0, max(width, 6)*2)
	}
	return ""
}

func svgColor(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

func svgOpacity(c color.RGBA) string {
	if c.A == 255 {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%s"`, num(float64(c.A)/255))
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
