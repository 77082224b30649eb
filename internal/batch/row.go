package batch

import (
	"io"

	"github.com/cristianadrielbraun/qrstudio/internal/payload"
)

// Row is one input record.
type Row struct {
	// Index is 1-based, counting data rows only.
	Index    int
	Type     payload.ContentType
	Data     string
	Fields   payload.FieldSet
	PDFTitle string
	// Err is set when the record itself could not be read.
	Err error
}

// RowSource yields rows in input order and returns io.EOF when exhausted.
type RowSource interface {
	Next() (Row, error)
}

type sliceSource struct {
	rows []Row
	i    int
}

// Rows returns a RowSource over rows. Zero indexes are filled in from the
// position in the slice.
func Rows(rows ...Row) RowSource {
	return &sliceSource{rows: rows}
}

func (s *sliceSource) Next() (Row, error) {
	if s.i >= len(s.rows) {
		return Row{}, io.EOF
	}
	r := s.rows[s.i]
	s.i++
	if r.Index == 0 {
		r.Index = s.i
	}
	return r, nil
}
