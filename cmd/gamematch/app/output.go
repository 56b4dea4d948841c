package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/progress"
)

// tableData is a rendered-ready table.
type tableData struct {
	Headers []string
	Rows    [][]string
	// RightAligned marks numeric columns.
	RightAligned map[int]bool
}

// render prints data as JSON when --format=json, else as a table.
func (a *App) render(t tableData, data any) error {
	if a.format == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	}
	return renderTable(a.out, t)
}

func renderTable(w io.Writer, t tableData) error {
	cfg := tablewriter.Config{}
	if len(t.RightAligned) > 0 {
		align := make([]tw.Align, len(t.Headers))
		for i := range align {
			align[i] = tw.AlignLeft
			if t.RightAligned[i] {
				align[i] = tw.AlignRight
			}
		}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	headers := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range t.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}
	return table.Render()
}

// progressFor returns a bar on the error stream unless --quiet or JSON output.
func (a *App) progressFor(label string, total int) *progress.Indicator {
	return progress.New(a.errOut, label, total, !a.quiet && a.format != "json")
}

func formatPrice(p model.BestPrice) string {
	if !p.Found {
		return "-"
	}
	return "R$ " + strconv.FormatFloat(p.Price, 'f', 2, 64)
}

func userTable(records []model.Record) tableData {
	t := tableData{
		Headers:      []string{"ID", "Name", "Email", "Birth Date", "City", "State", "Consoles", "Games"},
		RightAligned: map[int]bool{0: true},
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.FullName,
			r.Email,
			r.BirthDate,
			r.City,
			r.State,
			model.JoinList(r.Consoles),
			model.JoinList(r.PreferredGames),
		})
	}
	return t
}

func priceTable(prices []model.BestPrice) tableData {
	t := tableData{
		Headers:      []string{"Game", "Price", "Link"},
		RightAligned: map[int]bool{1: true},
	}
	for _, p := range prices {
		t.Rows = append(t.Rows, []string{p.Query, formatPrice(p), p.Permalink})
	}
	return t
}

func hitTable(hits []model.CatalogHit) tableData {
	t := tableData{
		Headers:      []string{"Listing", "Price", "Link"},
		RightAligned: map[int]bool{1: true},
	}
	for _, h := range hits {
		t.Rows = append(t.Rows, []string{h.Title, fmt.Sprintf("R$ %.2f", h.Price), h.Permalink})
	}
	return t
}

func countTable(counts []model.GameCount) tableData {
	t := tableData{
		Headers:      []string{"Game", "Players"},
		RightAligned: map[int]bool{1: true},
	}
	for _, c := range counts {
		t.Rows = append(t.Rows, []string{c.Title, strconv.Itoa(c.Count)})
	}
	return t
}

func titleTable(header string, titles []string) tableData {
	t := tableData{Headers: []string{header}}
	for _, title := range titles {
		t.Rows = append(t.Rows, []string{title})
	}
	return t
}
