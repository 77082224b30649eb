package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/web/components/ui/toast"
)

// GenericToast returns a Toast component rendered as HTML for HTMX swaps.
func (h *Handler) GenericToast(c *gin.Context) {
	dismissible := c.PostForm("dismissible") == "on"

	var v toast.Variant
	switch c.PostForm("variant") {
	case "error", "destructive":
		v = toast.VariantError
	case "warning":
		v = toast.VariantWarning
	case "info":
		v = toast.VariantInfo
	default:
		v = toast.VariantSuccess
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)

	err := toast.Toast(toast.Props{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Variant:     v,
		Position:    toast.PositionBottomRight,
		Duration:    2000,
		Dismissible: dismissible,
		Icon:        true,
	}).Render(c.Request.Context(), c.Writer)
	if err != nil {
		h.log.Warn().Err(err).Msg("render toast")
	}
}
