package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// logoPad is the white margin around a pasted logo, in pixels.
const logoPad = 5

// svgLogoSize is the raster size an SVG logo is drawn at before scaling.
const svgLogoSize = 512

// LoadLogo reads a PNG, JPEG or SVG logo.
func LoadLogo(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".svg") || bytes.Contains(data[:min(len(data), 512)], []byte("<svg")) {
		return rasterizeSVG(data, svgLogoSize)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}
	return img, nil
}

func rasterizeSVG(data []byte, size int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg logo: %w", err)
	}
	w, h := size, size
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		h = int(math.Round(float64(size) * icon.ViewBox.H / icon.ViewBox.W))
		if h > size {
			w = int(math.Round(float64(size) * icon.ViewBox.W / icon.ViewBox.H))
			h = size
		}
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

// logoSize fits a logo of lw x lh into a code of side codePx so that its
// area stays under ratio of the code area and neither side exceeds 25.6% of
// the code edge.
func logoSize(lw, lh, codePx int, ratio float64) (int, int) {
	if lw <= 0 || lh <= 0 || ratio <= 0 {
		return 0, 0
	}
	maxArea := float64(codePx*codePx) * ratio
	w, h := float64(lw), float64(lh)
	if w*h > maxArea {
		k := math.Sqrt(maxArea / (w * h))
		w, h = w*k, h*k
	}
	maxSide := float64(codePx) * 0.256
	if w > maxSide || h > maxSide {
		k := maxSide / math.Max(w, h)
		w, h = w*k, h*k
	}
	return max(int(w), 1), max(int(h), 1)
}

// pasteLogo scales logo and draws it on a white pad centered in area.
func pasteLogo(dst *image.RGBA, area image.Rectangle, logo image.Image, ratio float64) image.Rectangle {
	b := logo.Bounds()
	w, h := logoSize(b.Dx(), b.Dy(), area.Dx(), ratio)
	if w == 0 {
		return image.Rectangle{}
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), logo, b, draw.Over, nil)

	cx := area.Min.X + area.Dx()/2
	cy := area.Min.Y + area.Dy()/2
	pad := image.Rect(cx-w/2-logoPad, cy-h/2-logoPad, cx-w/2+w+logoPad, cy-h/2+h+logoPad)
	stddraw.Draw(dst, pad, &image.Uniform{C: color.White}, image.Point{}, stddraw.Src)
	at := image.Rect(cx-w/2, cy-h/2, cx-w/2+w, cy-h/2+h)
	stddraw.Draw(dst, at, scaled, image.Point{}, stddraw.Over)
	return pad
}
