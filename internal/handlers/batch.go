package handlers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cristianadrielbraun/qrstudio/internal/batch"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/store"
)

// maxUpload caps CSV and logo uploads.
const maxUpload = 8 << 20

// BatchHandler runs a batch over an uploaded CSV file. Artifacts are written
// to a fresh directory under the batch root; the response lists every row.
func (h *Handler) BatchHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required"})
		return
	}
	format, err := export.ParseFormat(c.DefaultPostForm("format", string(export.PDF)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts := batch.CSVOptions{Encoding: c.PostForm("encoding")}
	if d := c.PostForm("delimiter"); d != "" {
		r, n := utf8.DecodeRuneInString(d)
		if n != len(d) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delimiter must be a single character"})
			return
		}
		opts.Delimiter = r
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	src, err := batch.NewCSVSource(f, opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runner := &batch.Runner{
		Encoder: h.enc,
		Writer:  export.New(h.log, h.style, h.pdf),
		Level:   h.level,
		Format:  format,
		Log:     h.log,
	}
	run := runner.Run(c.Request.Context(), src, "").Label(fh.Filename)
	run.Into(filepath.Join(h.batchDir, run.ID()))
	results := run.Collect()
	summary := run.Summary()

	if h.history != nil {
		// A client that hangs up mid-run still gets its run recorded.
		ctx := context.WithoutCancel(c.Request.Context())
		if err := h.history.SaveRun(ctx, summary, results); err != nil {
			h.log.Error().Err(err).Str("run", summary.RunID).Msg("save batch history")
		}
	}
	status := http.StatusOK
	if summary.Canceled {
		status = http.StatusRequestTimeout
	}
	c.JSON(status, gin.H{"summary": summary, "results": results})
}

// HistoryHandler lists recent runs.
func (h *Handler) HistoryHandler(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.history.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []batch.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// RunHandler returns one run with its results.
func (h *Handler) RunHandler(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})
		return
	}
	id := c.Param("id")
	sum, err := h.history.GetRun(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("run", id).Msg("get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}
	results, err := h.history.RunResults(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("run", id).Msg("get run results")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": sum, "results": results})
}
