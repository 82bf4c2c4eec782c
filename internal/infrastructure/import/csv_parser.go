package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVParser reads a transaction sheet: a header row followed by one
// transaction per row
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter. Without it the delimiter is
// detected from the header row (comma, semicolon or tab).
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes tolerates stray quotes inside unquoted cells
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// NewCSVParser wraps r, checking the encoding and detecting the delimiter
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		lazyQuotes: true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(parser)
	}

	parser.bufReader = bufio.NewReader(r)

	// UTF-8 BOM: 0xEF, 0xBB, 0xBF
	content, err := parser.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = parser.bufReader.Discard(3)
	}

	head, err := peekHead(parser.bufReader)
	if err != nil {
		return nil, err
	}
	if parser.delimiter == 0 {
		parser.delimiter = detectDelimiter(head)
	}

	parser.reader = csv.NewReader(parser.bufReader)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = true
	parser.reader.FieldsPerRecord = -1

	return parser, nil
}

// peekHead returns the first bytes of the input after checking they are UTF-8
func peekHead(r *bufio.Reader) ([]byte, error) {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file for encoding validation: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}

	// a multi-byte rune may be cut at the end of the window
	if !utf8.Valid(content) && !(len(content) == checkSize && utf8.Valid(trimPartialRune(content))) {
		return nil, ErrInvalidEncoding
	}

	return content, nil
}

func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// detectDelimiter picks the candidate occurring most in the first line
func detectDelimiter(head []byte) rune {
	line, _, _ := bytes.Cut(head, []byte{'\n'})
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// Delimiter returns the field delimiter in use
func (p *CSVParser) Delimiter() rune {
	return p.delimiter
}

// ParseHeader reads the header row. Header names are compared case
// insensitively and stored in lower case.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, 0, len(record))
	for i, h := range record {
		header := normalizeHeader(h)
		if header == "" {
			continue
		}
		if _, dup := p.headerMap[header]; dup {
			return fmt.Errorf("%w: column %q appears twice", ErrInvalidHeader, header)
		}
		p.headers = append(p.headers, header)
		p.headerMap[header] = i
	}

	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.currentRow = 1

	return nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Headers returns the normalized column names in sheet order
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader reports whether the sheet declares the column
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[normalizeHeader(name)]
	return ok
}

// ValidateHeaders returns the required headers that are missing
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row keyed by column, with its 1-based sheet line
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the trimmed cell of a column, or "" when the column is absent
func (r *Row) Get(header string) string {
	return r.Data[normalizeHeader(header)]
}

// GetOrDefault returns the value for a column, or def if it is empty
func (r *Row) GetOrDefault(header, def string) string {
	if val := r.Get(header); val != "" {
		return val
	}
	return def
}

// IsEmpty reports whether every cell of the row is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next data row, or io.EOF after the last one
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	p.totalRows++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for header, i := range p.headerMap {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads all remaining rows, skipping empty ones
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// CurrentRow returns the current row number (1-indexed, header included)
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}

// TotalRows returns how many data rows have been read so far
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}

