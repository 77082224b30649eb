package components

import (
	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// FieldInput describes one form input of a content type.
type FieldInput struct {
	Name     string
	Required bool
}

// TypeForm groups the inputs shown for one content type.
type TypeForm struct {
	Type   payload.ContentType
	Fields []FieldInput
}

// HomeData feeds the generator page.
type HomeData struct {
	Forms   []TypeForm
	Shapes  []render.Shape
	Formats []export.Format
	Levels  []encoder.Level
	Version string
}

// NewHomeData lists every content type with its fields in form order.
func NewHomeData(version string) HomeData {
	d := HomeData{
		Shapes:  render.Shapes,
		Formats: export.Formats,
		Levels:  []encoder.Level{encoder.LevelLow, encoder.LevelMedium, encoder.LevelQuartile, encoder.LevelHigh},
		Version: version,
	}
	for _, t := range payload.ContentTypes {
		required, optional := t.Fields()
		f := TypeForm{Type: t}
		for _, n := range required {
			f.Fields = append(f.Fields, FieldInput{Name: n, Required: true})
		}
		for _, n := range optional {
			f.Fields = append(f.Fields, FieldInput{Name: n})
		}
		d.Forms = append(d.Forms, f)
	}
	return d
}
