package domain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptySheet is returned when a sheet has a header but no data rows.
var ErrEmptySheet = errors.New("sheet has no data rows")

// ParseCSV turns raw CSV text into rows keyed by lower-cased header name.
// The text is split into lines first and each non-blank line is read as one
// record, so a stray quote only affects its own line. Fields are trimmed.
// Rows shorter than the header are padded with empty strings; extra fields
// are dropped. Text with fewer than two non-blank lines yields no rows and
// no error.
func ParseCSV(text string) ([]Row, error) {
	lines := nonBlankLines(strings.TrimPrefix(text, "\ufeff"))
	if len(lines) < 2 {
		return nil, nil
	}

	header, err := parseLine(lines[0])
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(lines)-1)
	for n, line := range lines[1:] {
		record, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("parse csv row %d: %w", n+1, err)
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// nonBlankLines splits on \n or \r\n and drops whitespace-only lines.
func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// parseLine reads a single line as one CSV record.
func parseLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	record, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return record, err
}

// RestaurantFromRow maps a parsed row onto a Restaurant. The heat label is read
// from "salsa", falling back to "heat"; an unparseable rating becomes 0.
func RestaurantFromRow(row Row) Restaurant {
	salsa := row["salsa"]
	if salsa == "" {
		salsa = row["heat"]
	}
	r := Restaurant{
		Name:        row["restaurant"],
		Location:    row["location"],
		Salsa:       salsa,
		Rating:      ParseRating(row["rating"]),
		Description: row["description"],
	}
	r.ID = restaurantID(r.Name, r.Location)
	return r
}

// RestaurantsFromCSV parses sheet text into restaurants. It returns
// ErrEmptySheet when the sheet has no data rows.
func RestaurantsFromCSV(text string) ([]Restaurant, error) {
	rows, err := ParseCSV(text)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	out := make([]Restaurant, len(rows))
	for i, row := range rows {
		out[i] = RestaurantFromRow(row)
	}
	return out, nil
}
