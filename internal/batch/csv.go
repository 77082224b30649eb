package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cristianadrielbraun/qrstudio/internal/payload"
)

// Column names of the batch input. Matching is case-insensitive.
const (
	ColumnType     = "type"
	ColumnData     = "data"
	ColumnPDFTitle = "pdf_title"
)

// CSVOptions controls how CSV input is read.
type CSVOptions struct {
	// Encoding is a WHATWG label such as "utf-8", "windows-1252" or
	// "iso-8859-1". Empty means UTF-8.
	Encoding string
	// Delimiter defaults to a comma.
	Delimiter rune
}

// CSVSource reads rows lazily from CSV input with a header row.
type CSVSource struct {
	r       *csv.Reader
	columns map[string]int
	index   int
	err     error
}

// NewCSVSource reads the header from r. Unknown columns are ignored; a
// missing type column means every row is Text.
func NewCSVSource(r io.Reader, opts CSVOptions) (*CSVSource, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		if opts.Delimiter == '"' || opts.Delimiter == '\r' || opts.Delimiter == '\n' || !utf8.ValidRune(opts.Delimiter) {
			return nil, fmt.Errorf("invalid CSV delimiter %q", opts.Delimiter)
		}
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read CSV header: input is empty")
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	if _, ok := columns[ColumnData]; !ok {
		return nil, fmt.Errorf("CSV header %v has no %q column", header, ColumnData)
	}
	return &CSVSource{r: cr, columns: columns}, nil
}

func decoder(label string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown input encoding %q: %w", label, err)
	}
	return enc.NewDecoder(), nil
}

// Next returns the next data row. Records that cannot be parsed come back
// as rows with Err set so the run can record them and carry on. Index is the
// record's position in the input, blank records included.
func (s *CSVSource) Next() (Row, error) {
	if s.err != nil {
		return Row{}, s.err
	}
	record, err := s.r.Read()
	if errors.Is(err, io.EOF) {
		s.err = io.EOF
		return Row{}, io.EOF
	}
	s.index++
	row := Row{Index: s.index}
	if err != nil {
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			s.err = fmt.Errorf("read CSV: %w", err)
			return Row{}, s.err
		}
		row.Err = fmt.Errorf("malformed record: %w", err)
		return row, nil
	}

	typ := strings.TrimSpace(s.cell(record, ColumnType))
	row.Type = payload.Text
	if typ != "" {
		row.Type, err = payload.ParseContentType(typ)
		if err != nil {
			row.Err = err
		}
	}
	row.Data = s.cell(record, ColumnData)
	row.PDFTitle = strings.TrimSpace(s.cell(record, ColumnPDFTitle))
	return row, nil
}

func (s *CSVSource) cell(record []string, column string) string {
	i, ok := s.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
