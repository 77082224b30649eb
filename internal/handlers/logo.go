package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cristianadrielbraun/qrstudio/internal/render"
)

var logoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".svg": true}

// UploadLogo stores a logo image in the upload directory and returns the
// name to pass back as logoFile.
func (h *Handler) UploadLogo(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	fh, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo file is required"})
		return
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !logoExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "logo must be PNG, JPEG or SVG"})
		return
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.log.Error().Err(err).Msg("create upload dir")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store logo"})
		return
	}
	name := uuid.NewString() + ext
	path := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		h.log.Error().Err(err).Msg("save logo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store logo"})
		return
	}
	// Reject files that do not decode so later renders do not silently
	// drop the logo.
	if _, err := render.LoadLogo(path); err != nil {
		os.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"logoFile": name})
}
