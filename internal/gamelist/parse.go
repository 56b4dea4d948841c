// Package gamelist scrapes the Portuguese Wikipedia "Lista de jogos para
// <console>" pages into plain tables.
package gamelist

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MinRows is the row count a wikitable must exceed to be kept. Smaller tables
// on these pages are legends and navigation boxes.
const MinRows = 9

// Table is one parsed wikitable: a header row and trimmed data rows.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// ParseTables extracts every table.wikitable with more than MinRows rows.
// The first row supplies the header; rows whose cells are all empty are dropped.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}

	var tables []Table
	doc.Find("table.wikitable").Each(func(_ int, sel *goquery.Selection) {
		rows := sel.Find("tr")
		if rows.Length() <= MinRows {
			return
		}

		var t Table
		rows.Each(func(i int, tr *goquery.Selection) {
			cells := rowCells(tr)
			if i == 0 {
				t.Header = uniqueHeader(cells)
				return
			}
			if allEmpty(cells) {
				return
			}
			t.Rows = append(t.Rows, cells)
		})
		tables = append(tables, t)
	})

	return tables, nil
}

func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Children().Filter("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cleanText(cell.Text()))
	})
	return cells
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

// uniqueHeader names blank columns by position and suffixes repeats with .1,
// .2 so each column can be addressed by name when tables are merged.
func uniqueHeader(cells []string) []string {
	seen := make(map[string]int, len(cells))
	out := make([]string, len(cells))
	for i, c := range cells {
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		name := c
		if n := seen[c]; n > 0 {
			name = fmt.Sprintf("%s.%d", c, n)
		}
		seen[c]++
		out[i] = name
	}
	return out
}

// Merge concatenates tables into one, aligning columns by header name.
// Columns appear in first-seen order; cells missing from a table are empty.
func Merge(tables []Table) Table {
	var merged Table
	pos := make(map[string]int)

	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := pos[h]; !ok {
				pos[h] = len(merged.Header)
				merged.Header = append(merged.Header, h)
			}
		}
	}

	for _, t := range tables {
		for _, row := range t.Rows {
			out := make([]string, len(merged.Header))
			for i, cell := range row {
				if i >= len(t.Header) {
					break
				}
				out[pos[t.Header[i]]] = cell
			}
			merged.Rows = append(merged.Rows, out)
		}
	}

	return merged
}
