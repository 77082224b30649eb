package render

import (
	"image"
	"image/color"
	"math"
)

// framePainter decides, per pixel of the frame band, whether the pixel is
// stroked. width is the band thickness; w and h the full canvas size.
type framePainter func(x, y, width, w, h int) bool

func painterFor(f Frame) framePainter {
	switch f {
	case FrameDashed:
		return dashedFrame
	case FrameDotted:
		return dottedFrame
	case FrameDouble:
		return doubleFrame
	case FrameDiagonal:
		return diagonalFrame
	case FrameGrid:
		return gridFrame
	default:
		return func(int, int, int, int, int) bool { return true }
	}
}

func inCorner(x, y, width, w, h int) bool {
	return (x < width || x >= w-width) && (y < width || y >= h-width)
}

func dashedFrame(x, y, width, w, h int) bool {
	if inCorner(x, y, width, w, h) {
		return true
	}
	dash := max(width*3, 6)
	period := dash + dash/2
	pos := x - width
	if x < width || x >= w-width {
		pos = y - width
	}
	return pos%period < dash
}

// dottedFrame is a solid band with round perforations, like a stamp edge.
func dottedFrame(x, y, width, w, h int) bool {
	spacing := max(width, 6)
	radius := max(width/3, 2)
	var cx, cy int
	switch {
	case y < width || y >= h-width:
		if x%spacing >= radius*2 {
			return true
		}
		cx = (x/spacing)*spacing + radius
		cy = width / 2
		if y >= h-width {
			cy = h - width/2
		}
	default:
		if y%spacing >= radius*2 {
			return true
		}
		cy = (y/spacing)*spacing + radius
		cx = width / 2
		if x >= w-width {
			cx = w - width/2
		}
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy > radius*radius
}

// doubleFrame splits the band into outer stroke, gap and inner stroke.
func doubleFrame(x, y, width, w, h int) bool {
	outer := int(math.Max(2, math.Round(float64(width)*0.4)))
	gap := int(math.Max(1, math.Round(float64(width)*0.2)))
	edge := min(x, y, w-1-x, h-1-y)
	return edge < outer || edge >= outer+gap
}

func diagonalFrame(x, y, width, _, _ int) bool {
	spacing := max(width/2, 2)
	thickness := max(width/5, 2)
	if thickness >= spacing {
		thickness = max(spacing-1, 1)
	}
	return (x+y)%spacing < thickness
}

func gridFrame(x, y, width, _, _ int) bool {
	cell := max(width/3, 2)
	return (x/cell+y/cell)%2 == 0
}

// paintFrame strokes a band of the given width around the edge of dst
// (limited to bounds).
func paintFrame(dst *image.RGBA, bounds image.Rectangle, width int, s Style) {
	if width <= 0 || s.Frame == FrameNone {
		return
	}
	paint := painterFor(s.Frame)
	w, h := bounds.Dx(), bounds.Dy()
	fc := s.frameColor()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= width && x < w-width && y >= width && y < h-width {
				continue
			}
			if !paint(x, y, width, w, h) {
				continue
			}
			c := fc
			if s.Gradient != GradientNone && s.FrameColor.A == 0 {
				c = s.gradientAt(x, y, w, h)
			}
			dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, c)
		}
	}
	if s.FrameRounded {
		roundFrame(dst, bounds, width, s.Background)
	}
}

// roundFrame clears the outer corners and carves a rounded inner edge into
// the band so the stroke follows rounded rectangles.
func roundFrame(dst *image.RGBA, bounds image.Rectangle, width int, bg color.RGBA) {
	w, h := bounds.Dx(), bounds.Dy()
	innerR := int(math.Max(2, math.Round(float64(width)*0.55)))
	outerR := innerR + width
	cut := int(math.Max(2, math.Ceil(float64(width)*0.33)))
	carve := image.Rect(width-cut, width-cut, w-1-width+cut, h-1-width+cut)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= width && x < w-width && y >= width && y < h-width {
				continue
			}
			switch {
			case !insideRoundedRect(x, y, image.Rect(0, 0, w-1, h-1), outerR):
				dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, transparent)
			case insideRoundedRect(x, y, carve, innerR+cut):
				dst.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, bg)
			}
		}
	}
}

// insideRoundedRect tests (x, y) against a rounded rectangle with inclusive
// corners r.Min and r.Max.
func insideRoundedRect(x, y int, r image.Rectangle, radius int) bool {
	left, top, right, bottom := r.Min.X, r.Min.Y, r.Max.X, r.Max.Y
	if x < left || x > right || y < top || y > bottom {
		return false
	}
	if radius <= 0 {
		return true
	}
	if x >= left+radius && x <= right-radius {
		return true
	}
	if y >= top+radius && y <= bottom-radius {
		return true
	}
	cx := left + radius
	if x > right-radius {
		cx = right - radius
	}
	cy := top + radius
	if y > bottom-radius {
		cy = bottom - radius
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// gradientAt returns the three-stop gradient color at (x, y) of a w x h
// area, running at 45 degrees from bottom-left to top-right.
func (s Style) gradientAt(x, y, w, h int) color.RGBA {
	t := (float64(x)/float64(w) + (1 - float64(y)/float64(h))) / 2
	t = math.Min(1, math.Max(0, t))
	if t <= 0.5 {
		return lerpColor(s.GradientStart, s.GradientMiddle, t*2)
	}
	return lerpColor(s.GradientMiddle, s.GradientEnd, (t-0.5)*2)
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	mix := func(p, q uint8) uint8 {
		return uint8(float64(p) + t*(float64(q)-float64(p)))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}
