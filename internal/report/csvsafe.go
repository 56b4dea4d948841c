// Package report writes consolidated records, analysis tables, marketplace
// prices and scraped game lists to CSV and JSON.
package report

import (
	"strings"
)

// formulaPrefixes start cells that spreadsheets may evaluate.
const formulaPrefixes = "=+-@|%\t\r\n"

// EscapeCSVCell protects against CSV formula injection by prefixing cells
// that start with a formula character with a single quote.
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}
	if strings.IndexByte(formulaPrefixes, value[0]) >= 0 {
		return "'" + value
	}
	return value
}

// EscapeCSVRow escapes all cells in a row
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(cell)
	}
	return escaped
}

// EscapeCSVRows escapes all cells in multiple rows
func EscapeCSVRows(rows [][]string) [][]string {
	escaped := make([][]string, len(rows))
	for i, row := range rows {
		escaped[i] = EscapeCSVRow(row)
	}
	return escaped
}

// SafeCSVHeaders escapes a header row. Scraped tables carry headers taken
// from remote pages.
func SafeCSVHeaders(headers []string) []string {
	return EscapeCSVRow(headers)
}
