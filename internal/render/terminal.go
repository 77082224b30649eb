package render

import (
	"io"

	"github.com/mdp/qrterminal/v3"

	"github.com/cristianadrielbraun/qrstudio/internal/encoder"
)

// Terminal prints payload as a QR code using block characters. Half blocks
// halve the height, which most terminals need to keep the code square.
func Terminal(w io.Writer, payload string, level encoder.Level, halfBlocks bool) {
	cfg := qrterminal.Config{
		Level:     encoder.RSCLevel(level),
		Writer:    w,
		QuietZone: 2,
	}
	if halfBlocks {
		cfg.HalfBlocks = true
		cfg.BlackChar = qrterminal.BLACK_BLACK
		cfg.WhiteBlackChar = qrterminal.WHITE_BLACK
		cfg.WhiteChar = qrterminal.WHITE_WHITE
		cfg.BlackWhiteChar = qrterminal.BLACK_WHITE
	} else {
		cfg.BlackChar = qrterminal.BLACK
		cfg.WhiteChar = qrterminal.WHITE
	}
	qrterminal.GenerateWithConfig(payload, cfg)
}
