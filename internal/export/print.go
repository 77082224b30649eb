package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
)

// DefaultPrintCommand is the spooler used when none is configured.
const DefaultPrintCommand = "lp"

// Printer sends codes to the system print spooler as single-page PDFs.
type Printer struct {
	exporter *Exporter
	command  []string
	log      zerolog.Logger
}

// NewPrinter returns a Printer running command (split on spaces) with the
// PDF path appended.
func NewPrinter(e *Exporter, command string, log zerolog.Logger) *Printer {
	args := strings.Fields(command)
	if len(args) == 0 {
		args = []string{DefaultPrintCommand}
	}
	return &Printer{exporter: e, command: args, log: log}
}

// Print renders m to a temporary PDF and hands it to the spooler.
func (p *Printer) Print(ctx context.Context, m *encoder.Matrix, title string) error {
	f, err := os.CreateTemp("", "qrstudio-*.pdf")
	if err != nil {
		return &IOError{Op: "create", Err: err}
	}
	path := f.Name()
	defer os.Remove(path)

	_, err = p.exporter.Write(f, m, PDF, title)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = &IOError{Op: "close", Path: path, Err: cerr}
	}
	if err != nil {
		return err
	}

	args := append(append([]string{}, p.command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.command[0], args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	p.log.Debug().Strs("command", p.command).Str("file", path).Msg("printing")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("print with %s: %w: %s", p.command[0], err, strings.TrimSpace(out.String()))
	}
	if msg := strings.TrimSpace(out.String()); msg != "" {
		p.log.Info().Str("spooler", msg).Msg("print job submitted")
	}
	return nil
}
