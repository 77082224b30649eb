package handlers

import (
	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
	"github.com/cristianadrielbraun/qrstudio/internal/export"
	"github.com/cristianadrielbraun/qrstudio/internal/render"
	"github.com/cristianadrielbraun/qrstudio/internal/store"
)

// Options carries the dependencies of the HTTP handlers.
type Options struct {
	Encoder encoder.Encoder
	Level   encoder.Level
	Style   render.Style
	PDF     export.PDFOptions
	// History may be nil, in which case runs are not recorded.
	History *store.Store
	// UploadDir holds uploaded logos.
	UploadDir string
	// BatchDir receives one subdirectory per batch run.
	BatchDir string
	Log      zerolog.Logger
}

// Handler holds the dependencies shared by HTTP handlers. Each request
// builds its own exporter and runner from them.
type Handler struct {
	enc       encoder.Encoder
	level     encoder.Level
	style     render.Style
	pdf       export.PDFOptions
	history   *store.Store
	uploadDir string
	batchDir  string
	log       zerolog.Logger
}

// New returns a new Handler instance.
func New(opts Options) *Handler {
	if opts.Encoder == nil {
		opts.Encoder = encoder.Yeqown{}
	}
	if opts.Style.ModuleSize == 0 {
		opts.Style = render.DefaultStyle()
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if opts.BatchDir == "" {
		opts.BatchDir = "batch_output"
	}
	return &Handler{
		enc:       opts.Encoder,
		level:     opts.Level,
		style:     opts.Style,
		pdf:       opts.PDF,
		history:   opts.History,
		uploadDir: opts.UploadDir,
		batchDir:  opts.BatchDir,
		log:       opts.Log,
	}
}
