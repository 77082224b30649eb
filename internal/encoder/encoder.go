// Package encoder turns payload text into a QR module matrix. The actual
// Reed-Solomon coding and masking is delegated to third-party libraries;
// this package only normalizes their output into a Matrix.
package encoder

import (
	"fmt"
	"strings"
)

// Level is a QR error-correction level.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelQuartile
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "L"
	case LevelMedium:
		return "M"
	case LevelQuartile:
		return "Q"
	case LevelHigh:
		return "H"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts L/M/Q/H or low/medium/quartile/high.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile", "quart":
		return LevelQuartile, nil
	case "h", "high", "highest":
		return LevelHigh, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", s)
}

// Matrix is a square grid of modules without quiet zone.
type Matrix struct {
	size int
	dark []bool
}

// NewMatrix returns an all-light matrix of the given size.
func NewMatrix(size int) *Matrix {
	return &Matrix{size: size, dark: make([]bool, size*size)}
}

// Size is the number of modules on a side.
func (m *Matrix) Size() int { return m.size }

// Dark reports whether module (x, y) is dark. Out-of-range modules are light.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.dark[y*m.size+x]
}

// Set marks module (x, y).
func (m *Matrix) Set(x, y int, dark bool) {
	m.dark[y*m.size+x] = dark
}

// Encoder produces a module matrix for a payload.
type Encoder interface {
	Encode(payload string, level Level) (*Matrix, error)
	Name() string
}

// Backend names.
const (
	BackendYeqown = "yeqown"
	BackendSkip2  = "skip2"
	BackendRSC    = "rsc"
)

// Backends lists the available encoder backends; the first is the default.
var Backends = []string{BackendYeqown, BackendSkip2, BackendRSC}

// New returns the encoder registered under name. An empty name selects the
// default backend.
func New(name string) (Encoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendYeqown:
		return Yeqown{}, nil
	case BackendSkip2:
		return Skip2{}, nil
	case BackendRSC:
		return RSC{}, nil
	}
	return nil, fmt.Errorf("unknown encoder backend %q (want one of %s)", name, strings.Join(Backends, ", "))
}

// CapacityError reports a payload too large for the requested level.
type CapacityError struct {
	Length int
	Level  Level
	Err    error
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("payload of %d bytes does not fit a QR code at level %s: %v", e.Length, e.Level, e.Err)
}

func (e *CapacityError) Unwrap() error { return e.Err }

// maxBytes is the byte-mode capacity of a version 40 symbol per level.
var maxBytes = [...]int{LevelLow: 2953, LevelMedium: 2331, LevelQuartile: 1663, LevelHigh: 1273}

// checkCapacity rejects payloads that no version can hold in byte mode, so
// every backend reports oversize input the same way.
func checkCapacity(payload string, level Level) error {
	if level < LevelLow || level > LevelHigh {
		return fmt.Errorf("unknown error correction level %d", int(level))
	}
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}
	if len(payload) > maxBytes[level] {
		return &CapacityError{Length: len(payload), Level: level, Err: fmt.Errorf("limit is %d bytes", maxBytes[level])}
	}
	return nil
}
