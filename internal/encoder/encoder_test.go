package encoder

import (
	"errors"
	"strings"
	"testing"
)

func TestBackendsEncode(t *testing.T) {
	for _, name := range Backends {
		t.Run(name, func(t *testing.T) {
			enc, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			if enc.Name() != name {
				t.Errorf("Name() = %q, want %q", enc.Name(), name)
			}
			m, err := enc.Encode("hello", LevelMedium)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			// "hello" fits a version 1 symbol: 21x21 modules.
			if m.Size() != 21 {
				t.Errorf("Size() = %d, want 21", m.Size())
			}
			// Finder pattern corners are always dark.
			for _, p := range [][2]int{{0, 0}, {20, 0}, {0, 20}, {6, 6}} {
				if !m.Dark(p[0], p[1]) {
					t.Errorf("module %v is light, want dark finder", p)
				}
			}
			// Separator next to the top-left finder is always light.
			if m.Dark(7, 0) || m.Dark(0, 7) {
				t.Error("finder separator is dark")
			}
		})
	}
}

func TestCapacityError(t *testing.T) {
	long := strings.Repeat("x", 1300)
	for _, name := range Backends {
		enc, _ := New(name)
		_, err := enc.Encode(long, LevelHigh)
		var ce *CapacityError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: Encode(1300 bytes, H) error = %v, want CapacityError", name, err)
		}
		if ce.Length != 1300 || ce.Level != LevelHigh {
			t.Errorf("%s: CapacityError = %+v", name, ce)
		}
	}
}

func TestLowerLevelFitsMore(t *testing.T) {
	enc := Yeqown{}
	if _, err := enc.Encode(strings.Repeat("x", 1300), LevelLow); err != nil {
		t.Errorf("1300 bytes at L: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"L": LevelLow, "m": LevelMedium, "quartile": LevelQuartile, "H": LevelHigh, "highest": LevelHigh} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("Z"); err == nil {
		t.Error("ParseLevel(Z) succeeded")
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New("zxing"); err == nil {
		t.Error("New(zxing) succeeded")
	}
	enc, err := New("")
	if err != nil || enc.Name() != BackendYeqown {
		t.Errorf("New(\"\") = %v, %v", enc, err)
	}
}

func TestMatrixBounds(t *testing.T) {
	m := NewMatrix(3)
	m.Set(1, 2, true)
	if !m.Dark(1, 2) || m.Dark(2, 1) {
		t.Error("Set/Dark mismatch")
	}
	if m.Dark(-1, 0) || m.Dark(3, 3) {
		t.Error("out of range module reported dark")
	}
}
