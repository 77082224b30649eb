package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

// Target edge lengths in pixels for the two size presets.
const (
	previewSize  = 400
	downloadSize = 2000
)

// QRCodeHandler generates a QR code for any content type with the styling
// options of the web form.
func (h *Handler) QRCodeHandler(c *gin.Context) {
	t, err := payload.ParseContentType(c.DefaultQuery("type", "url"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields, err := queryFields(c, t)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Parse format parameter (default to PNG)
	format, err := export.ParseFormat(c.DefaultQuery("format", "png"))
	if err != nil {
		format = export.PNG
	}
	level := h.level
	if ec := c.Query("ec"); ec != "" {
		if level, err = encoder.ParseLevel(ec); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	style, err := h.styleFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	size := c.DefaultQuery("size", "preview") // "preview" or "download"

	h.log.Debug().
		Str("type", t.String()).
		Str("format", string(format)).
		Str("size", size).
		Str("shape", string(style.Shape)).
		Str("gradient", string(style.Gradient)).
		Msg("qr request")

	p, err := payload.Format(t, fields)
	if err != nil {
		h.fail(c, err)
		return
	}
	if t == payload.URL {
		if warn := payload.CheckURL(string(p)); warn != nil {
			c.Header("X-QR-Warning", warn.Error())
		}
	}
	m, err := h.enc.Encode(string(p), level)
	if err != nil {
		h.fail(c, err)
		return
	}

	target := previewSize
	if size == "download" {
		target = downloadSize
	}
	style.ModuleSize = max(1, target/(m.Size()+2*style.QuietZone))

	var buf bytes.Buffer
	exp := export.New(h.log, style, h.pdf)
	if _, err := exp.Write(&buf, m, format, c.Query("title")); err != nil {
		h.fail(c, err)
		return
	}

	// Add debug header for quick inspection from devtools
	c.Header("X-QR-Debug", fmt.Sprintf("format=%s;size=%s;shape=%s;colorMode=%s;version=%d",
		format, size, style.Shape, style.Gradient, (m.Size()-17)/4))
	c.Header("Cache-Control", "public, max-age=3600")
	if size == "download" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="qr_%s%s"`, t.Slug(), format.Ext()))
	}
	c.Data(http.StatusOK, format.MIMEType(), buf.Bytes())
}

// queryFields collects the fields of t from the query string. A "data"
// parameter in the batch sub-format fills in whatever is not given
// explicitly.
func queryFields(c *gin.Context, t payload.ContentType) (payload.FieldSet, error) {
	fields := payload.FieldSet{}
	if data, ok := c.GetQuery("data"); ok {
		parsed, err := payload.ParseData(t, data)
		if err != nil {
			return nil, err
		}
		fields = parsed
	}
	required, optional := t.Fields()
	for _, name := range append(append([]string{}, required...), optional...) {
		if v, ok := c.GetQuery(name); ok {
			fields[name] = v
		}
	}
	return fields, nil
}

// styleFromQuery starts from the configured style and applies the form
// parameters on top.
func (h *Handler) styleFromQuery(c *gin.Context) (render.Style, error) {
	s := h.style
	var err error

	switch mode := c.DefaultQuery("colorMode", "flat"); mode {
	case "flat":
		s.Gradient = render.GradientNone
		s.Foreground = render.ParseColorOr(c.Query("fg"), s.Foreground)
	default:
		if s.Gradient, err = render.ParseGradient(mode); err != nil {
			return s, err
		}
		s.GradientStart = render.ParseColorOr(c.Query("gradientStart"), s.GradientStart)
		s.GradientMiddle = render.ParseColorOr(c.Query("gradientMiddle"), s.GradientMiddle)
		s.GradientEnd = render.ParseColorOr(c.Query("gradientEnd"), s.GradientEnd)
	}
	s.Background = render.ParseColorOr(c.Query("bg"), s.Background)

	if s.Shape, err = render.ParseShape(c.DefaultQuery("qrShape", string(s.Shape))); err != nil {
		return s, err
	}

	// Combine corner style and border pattern
	borderPattern := c.DefaultQuery("borderPattern", "simple")
	frame := borderPattern
	switch c.DefaultQuery("cornerStyle", "none") {
	case "none":
		frame = "none"
	case "rounded":
		frame = "rounded-" + borderPattern
	}
	if s.Frame, s.FrameRounded, err = render.ParseFrame(frame); err != nil {
		return s, err
	}
	// Rounded frames start thicker so the band stays visible after the
	// inner edge is carved.
	if s.FrameRounded && s.FrameWidth < 6 {
		s.FrameWidth = 6
	}
	if bc := c.Query("borderColor"); bc != "" {
		s.FrameColor = render.ParseColorOr(bc, s.FrameColor)
	}

	if qz := c.Query("quietZone"); qz != "" {
		if s.QuietZone, err = strconv.Atoi(qz); err != nil {
			return s, fmt.Errorf("quietZone: %w", err)
		}
	}
	if caption, ok := c.GetQuery("caption"); ok {
		s.Caption = caption
	}

	s.LogoPath = ""
	if c.DefaultQuery("centerLogo", "false") == "true" {
		name := c.DefaultQuery("logoFile", "temp_logo.png")
		if filepath.Base(name) != name || strings.HasPrefix(name, ".") {
			return s, fmt.Errorf("invalid logo file %q", name)
		}
		s.LogoPath = filepath.Join(h.uploadDir, name)
	}
	return s, s.Validate()
}

// fail maps domain errors onto HTTP status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		fe *payload.InvalidFieldError
		ce *encoder.CapacityError
		ie *export.IOError
	)
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Error(), "field": fe.Field})
	case errors.As(err, &ce):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ce.Error(), "length": ce.Length, "level": ce.Level.String()})
	case errors.As(err, &ie):
		h.log.Error().Err(err).Msg("write qr code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write QR code"})
	default:
		h.log.Error().Err(err).Msg("generate qr code")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
	}
}
