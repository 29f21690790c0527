package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/model"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/pkg/util"
)

// Result is a fully parsed dataset.
type Result struct {
	Rows    []model.RawRecord
	Headers []string
	// HeadersCleaned is set when the raw header row carried a BOM or stray whitespace.
	HeadersCleaned bool
}

// ParseCSV reads a header row followed by data rows. Quotes are strict: an
// unterminated or stray quote surfaces as a *csv.ParseError and fails the whole
// parse, so no partial result is returned.
func ParseCSV(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	headers := util.CleanHeaders(header)
	cleaned := util.NeedsCleanup(header)

	var rows []model.RawRecord
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read row: %w", err)
		}
		if blankRecord(record) {
			continue
		}
		row := make(model.RawRecord, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			if h == "" {
				continue
			}
			// First occurrence wins when a header is duplicated.
			if _, dup := row[h]; dup {
				continue
			}
			row[h] = util.CleanValue(record[i])
		}
		rows = append(rows, row)
	}
	return Result{Rows: rows, Headers: headers, HeadersCleaned: cleaned}, nil
}

// ParseCSVBytes is ParseCSV over an in-memory buffer.
func ParseCSVBytes(data []byte) (Result, error) {
	return ParseCSV(bytes.NewReader(data))
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if util.CleanValue(v) != "" {
			return false
		}
	}
	return true
}
