package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
)

// Page geometry in inches.
const (
	titleTop     = 1.0
	footerBottom = 0.5
	sideMargin   = 1.0
	vertMargin   = 1.5
)

// writePDF lays img out on a single Letter page: bold title near the top,
// code centered, small grey footer with creator and timestamp.
func (e *Exporter) writePDF(w io.Writer, img image.Image, title string) error {
	now := e.now()
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(e.pdf.Author, true)
	pdf.SetCreator(e.pdf.Creator, true)
	subject := e.pdf.Subject
	if subject == "" {
		subject = "QR code"
	}
	pdf.SetSubject(subject, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	if title != "" {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetXY(0, titleTop)
		pdf.CellFormat(pageW, 0.3, tr(title), "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf image: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("qr", opts, &buf)

	b := img.Bounds()
	size := math.Min(pageW-2*sideMargin, pageH-2*vertMargin)
	imgW, imgH := size, size*float64(b.Dy())/float64(b.Dx())
	if imgH > size {
		imgW, imgH = size*float64(b.Dx())/float64(b.Dy()), size
	}
	pdf.ImageOptions("qr", (pageW-imgW)/2, (pageH-imgH)/2, imgW, imgH, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.SetXY(0, pageH-footerBottom-0.15)
	footer := fmt.Sprintf("Generated by %s - %s", e.pdf.Creator, now.Format("2006-01-02 15:04"))
	pdf.CellFormat(pageW, 0.15, tr(footer), "", 0, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}
