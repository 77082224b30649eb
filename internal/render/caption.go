package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const minCaptionSize = 8

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error
)

func goRegular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularErr
}

// captionSize is the point size used under a code of side codePx.
func captionSize(codePx int) float64 {
	return math.Max(12, float64(codePx)/16)
}

// drawCaption centers text in area, shrinking the font until it fits
// within 90% of width.
func drawCaption(dc *gg.Context, text string, area image.Rectangle, c color.Color, width int) error {
	f, err := goRegular()
	if err != nil {
		return fmt.Errorf("load caption font: %w", err)
	}
	size := captionSize(width)
	var face font.Face
	for {
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return fmt.Errorf("caption face: %w", err)
		}
		dc.SetFontFace(face)
		if w, _ := dc.MeasureString(text); w <= float64(width)*0.9 || size <= minCaptionSize {
			break
		}
		face.Close()
		size = math.Max(minCaptionSize, size*0.85)
	}
	defer face.Close()

	dc.SetColor(c)
	cx := float64(area.Min.X+area.Max.X) / 2
	cy := float64(area.Min.Y+area.Max.Y) / 2
	dc.DrawStringAnchored(text, cx, cy, 0.5, 0.35)
	return nil
}
