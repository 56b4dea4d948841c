package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/guarzo/gamematch/internal/analysis"
	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/gamelist"
	"github.com/guarzo/gamematch/internal/model"
)

// RecordHeader uses the same column names ingest accepts, so exported
// records can be imported again.
var RecordHeader = []string{
	"nome_completo", "data_nascimento", "email", "cidade", "estado", "consoles", "jogos_preferidos",
}

// WriteRecordsCSV writes canonical records, lists joined with "|".
func WriteRecordsCSV(w io.Writer, records []model.Record) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.FullName,
			r.BirthDate,
			r.Email,
			r.City,
			r.State,
			model.JoinList(r.Consoles),
			model.JoinList(r.PreferredGames),
		})
	}
	return writeCSV(w, RecordHeader, rows)
}

// WriteTitlesCSV writes a single-column game table.
func WriteTitlesCSV(w io.Writer, titles []string) error {
	rows := make([][]string, 0, len(titles))
	for _, t := range titles {
		rows = append(rows, []string{t})
	}
	return writeCSV(w, []string{"game"}, rows)
}

// WriteCountsCSV writes the common-games frequency table in the given order.
func WriteCountsCSV(w io.Writer, counts []model.GameCount) error {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Title, strconv.Itoa(c.Count)})
	}
	return writeCSV(w, []string{"game", "count"}, rows)
}

// WriteHitsCSV writes every matched marketplace listing.
func WriteHitsCSV(w io.Writer, hits []model.CatalogHit) error {
	rows := make([][]string, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, []string{h.Query, h.Title, formatPrice(h.Price), h.Permalink})
	}
	return writeCSV(w, []string{"query", "title", "price", "permalink"}, rows)
}

// WritePricesCSV writes one best price per query; unmatched queries have
// empty price and link.
func WritePricesCSV(w io.Writer, prices []model.BestPrice) error {
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		price, link := "", ""
		if p.Found {
			price, link = formatPrice(p.Price), p.Permalink
		}
		rows = append(rows, []string{p.Query, price, link})
	}
	return writeCSV(w, []string{"query", "price", "permalink"}, rows)
}

// WriteTableCSV writes a scraped game-list table.
func WriteTableCSV(w io.Writer, t gamelist.Table) error {
	return writeCSV(w, t.Header, t.Rows)
}

// WriteTableJSON writes a scraped table as an array of objects keyed by
// header, keys in column order. Non-ASCII text is kept as is.
func WriteTableJSON(w io.Writer, t gamelist.Table) error {
	rows := make([]orderedRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, orderedRow{keys: t.Header, values: r})
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(rows)
}

type orderedRow struct {
	keys   []string
	values []string
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		v := ""
		if i < len(r.values) {
			v = r.values[i]
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnalysisFiles names the three analysis tables written by WriteAnalysis.
var AnalysisFiles = struct {
	All, Unique, Common string
}{
	All:    "all_games.csv",
	Unique: "unique_games.csv",
	Common: "common_games.csv",
}

// WriteAnalysis writes the all/unique/common tables into dir.
func WriteAnalysis(dir string, rep analysis.Report) error {
	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{AnalysisFiles.All, func(w io.Writer) error { return WriteTitlesCSV(w, rep.All) }},
		{AnalysisFiles.Unique, func(w io.Writer) error { return WriteTitlesCSV(w, rep.Unique) }},
		{AnalysisFiles.Common, func(w io.Writer) error { return WriteCountsCSV(w, rep.Common) }},
	}
	for _, f := range files {
		if err := WriteFile(filepath.Join(dir, f.name), f.write); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile creates path and its parent directories and hands the file to
// write. Failures are Export errors.
func WriteFile(path string, write func(io.Writer) error) error {
	const op = "report.write"

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &apperr.Error{Kind: apperr.Export, Op: op, Message: path, Err: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &apperr.Error{Kind: apperr.Export, Op: op, Message: path, Err: err}
	}

	if err := write(f); err != nil {
		f.Close()
		return &apperr.Error{Kind: apperr.Export, Op: op, Message: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &apperr.Error{Kind: apperr.Export, Op: op, Message: path, Err: err}
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SafeCSVHeaders(header)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(EscapeCSVRows(rows)); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
