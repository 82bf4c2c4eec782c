package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sheet is a parsed and validated CSV file
type Sheet struct {
	Headers   []string
	Rows      []*Row
	Delimiter rune
	// TotalRows counts every well-formed data row read, including empty
	// and rejected ones
	TotalRows int
}

// ReadSheet parses a CSV file, checks the header against the rules and
// validates every non-empty row. Row level problems are returned in the
// ErrorCollection; structural problems of the file are returned as err.
func ReadSheet(r io.Reader, rules []FieldRule, maxErrors int, opts ...ParserOption) (*Sheet, *ErrorCollection, error) {
	parser, err := NewCSVParser(r, opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, nil, err
	}

	validator := NewFieldValidator(rules, maxErrors)
	if missing := parser.ValidateHeaders(validator.RequiredColumns()); len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: missing columns %s", ErrInvalidHeader, strings.Join(missing, ", "))
	}

	sheet := &Sheet{
		Headers:   parser.Headers(),
		Delimiter: parser.Delimiter(),
	}

	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			validator.Errors().Add(NewRowError(parser.CurrentRow(), "", ErrCodeImportMalformedRow, err.Error()))
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if row.IsEmpty() {
			continue
		}
		if validator.ValidateRow(row) {
			sheet.Rows = append(sheet.Rows, row)
		}
	}

	sheet.TotalRows = parser.TotalRows()

	if len(sheet.Rows) == 0 && !validator.Errors().HasErrors() {
		return nil, nil, ErrNoDataRows
	}

	return sheet, validator.Errors(), nil
}
