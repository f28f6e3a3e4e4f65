package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Day-first layouts accepted for date cells, most specific first.
var dayFirstLayouts = []string{
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDayFirstDate coerces a date cell. Unparsable or empty cells
// return nil, the missing-date marker; the caller keeps the row.
func ParseDayFirstDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Some exports leave the raw Excel serial number in date cells.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 20000 && serial < 80000 {
		t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return &t
	}
	return nil
}

// Excel day 0 (accounting for the fictitious 1900-02-29).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseNumber coerces a numeric cell, tolerating currency symbols,
// thousands separators and comma decimals. Unparsable cells return
// nil, the missing-number marker: summed as zero, but distinct from a
// recorded zero.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" || strings.EqualFold(s, "N/A") {
		return nil
	}
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// 1,234.56: comma is the thousands separator.
			s = strings.ReplaceAll(s, ",", "")
		} else {
			// 1234,56: comma is the decimal separator.
			s = strings.Replace(s, ",", ".", 1)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// IsDataRow reports whether a row-counter cell marks a data row.
// Wialon intersperses subtotal and group-header rows whose counter is
// a bare integer; real rows carry a dotted counter like "1.5".
func IsDataRow(counter string) bool {
	return strings.Contains(counter, ".")
}
