package encoder

import (
	"fmt"

	skip2 "github.com/skip2/go-qrcode"
	qrcode "github.com/yeqown/go-qrcode/v2"
	"rsc.io/qr"
)

// Yeqown encodes with github.com/yeqown/go-qrcode/v2 in byte mode.
type Yeqown struct{}

func (Yeqown) Name() string { return BackendYeqown }

func (Yeqown) Encode(payload string, level Level) (*Matrix, error) {
	if err := checkCapacity(payload, level); err != nil {
		return nil, err
	}
	qrc, err := qrcode.NewWith(payload,
		qrcode.WithEncodingMode(qrcode.EncModeByte),
		yeqownLevel(level),
	)
	if err != nil {
		return nil, &CapacityError{Length: len(payload), Level: level, Err: err}
	}
	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}
	if w.m == nil {
		return nil, fmt.Errorf("build matrix: encoder produced no modules")
	}
	return w.m, nil
}

func yeqownLevel(l Level) qrcode.EncodeOption {
	switch l {
	case LevelLow:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case LevelMedium:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case LevelQuartile:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	}
}

// matrixWriter implements qrcode.Writer and captures the bitmap instead of
// drawing it, so styling stays independent of the encoding backend.
type matrixWriter struct {
	m *Matrix
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	size := mat.Width()
	w.m = NewMatrix(size)
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if x < size && y < size && v.IsSet() {
			w.m.Set(x, y, true)
		}
	})
	return nil
}

func (w *matrixWriter) Close() error { return nil }

// Skip2 encodes with github.com/skip2/go-qrcode.
type Skip2 struct{}

func (Skip2) Name() string { return BackendSkip2 }

func (Skip2) Encode(payload string, level Level) (*Matrix, error) {
	if err := checkCapacity(payload, level); err != nil {
		return nil, err
	}
	q, err := skip2.New(payload, skip2Level(level))
	if err != nil {
		return nil, &CapacityError{Length: len(payload), Level: level, Err: err}
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	m := NewMatrix(len(bitmap))
	for y, row := range bitmap {
		for x, dark := range row {
			if dark && x < m.size {
				m.Set(x, y, true)
			}
		}
	}
	return m, nil
}

func skip2Level(l Level) skip2.RecoveryLevel {
	switch l {
	case LevelLow:
		return skip2.Low
	case LevelMedium:
		return skip2.Medium
	case LevelQuartile:
		return skip2.High
	default:
		return skip2.Highest
	}
}

// RSC encodes with rsc.io/qr, which also backs the terminal preview.
type RSC struct{}

func (RSC) Name() string { return BackendRSC }

func (RSC) Encode(payload string, level Level) (*Matrix, error) {
	if err := checkCapacity(payload, level); err != nil {
		return nil, err
	}
	code, err := qr.Encode(payload, RSCLevel(level))
	if err != nil {
		return nil, &CapacityError{Length: len(payload), Level: level, Err: err}
	}
	m := NewMatrix(code.Size)
	for y := 0; y < code.Size; y++ {
		for x := 0; x < code.Size; x++ {
			if code.Black(x, y) {
				m.Set(x, y, true)
			}
		}
	}
	return m, nil
}

// RSCLevel maps l onto rsc.io/qr levels.
func RSCLevel(l Level) qr.Level {
	switch l {
	case LevelLow:
		return qr.L
	case LevelMedium:
		return qr.M
	case LevelQuartile:
		return qr.Q
	default:
		return qr.H
	}
}
