package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/guarzo/gamematch/internal/analysis"
	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/gamelist"
	"github.com/guarzo/gamematch/internal/model"
)

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRecordsCSV(&buf, []model.Record{{
		FullName:       "Ana Souza",
		BirthDate:      "1990-03-15",
		Email:          "ana@x.com",
		City:           "São Paulo",
		State:          "SP",
		Consoles:       []string{"PS5", "Switch"},
		PreferredGames: []string{"Zelda", "Mario"},
	}})
	if err != nil {
		t.Fatalf("WriteRecordsCSV() error = %v", err)
	}

	rows := readCSV(t, buf.String())
	want := [][]string{
		RecordHeader,
		{"Ana Souza", "1990-03-15", "ana@x.com", "São Paulo", "SP", "PS5|Switch", "Zelda|Mario"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}

func TestWritePricesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WritePricesCSV(&buf, []model.BestPrice{
		{Query: "mario", Price: 199.9, Permalink: "p", Found: true},
		{Query: "tetris"},
	})
	if err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, buf.String())
	want := [][]string{
		{"query", "price", "permalink"},
		{"mario", "199.90", "p"},
		{"tetris", "", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}

func TestWriteHitsCSV_Escapes(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHitsCSV(&buf, []model.CatalogHit{
		{Query: "zelda", Title: "=HYPERLINK(\"x\") Jogo Zelda PS5", Price: 10, Permalink: "z"},
	})
	if err != nil {
		t.Fatal(err)
	}
	rows := readCSV(t, buf.String())
	if !strings.HasPrefix(rows[1][1], "'=") {
		t.Errorf("title not escaped: %q", rows[1][1])
	}
}

func TestWriteTableJSON(t *testing.T) {
	var buf bytes.Buffer
	table := gamelist.Table{
		Header: []string{"Título", "Ano"},
		Rows:   [][]string{{"Pokémon Scarlet", "2022"}, {"Halo"}},
	}
	if err := WriteTableJSON(&buf, table); err != nil {
		t.Fatalf("WriteTableJSON() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"Título": "Pokémon Scarlet"`) {
		t.Errorf("non-ASCII not preserved: %s", out)
	}
	if strings.Index(out, `"Título"`) > strings.Index(out, `"Ano"`) {
		t.Errorf("keys out of column order: %s", out)
	}
	if !strings.Contains(out, `"Ano": ""`) {
		t.Errorf("short row not padded: %s", out)
	}
}

func TestWriteAnalysis(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rep := analysis.Report{
		All:    []string{"Mario", "Zelda"},
		Unique: []string{"Mario"},
		Common: []model.GameCount{{Title: "Zelda", Count: 2}},
	}
	if err := WriteAnalysis(dir, rep); err != nil {
		t.Fatalf("WriteAnalysis() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, AnalysisFiles.Common))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"game", "count"}, {"Zelda", "2"}}
	if rows := readCSV(t, string(data)); !reflect.DeepEqual(rows, want) {
		t.Errorf("common_games = %q, want %q", rows, want)
	}

	data, err = os.ReadFile(filepath.Join(dir, AnalysisFiles.All))
	if err != nil {
		t.Fatal(err)
	}
	want = [][]string{{"game"}, {"Mario"}, {"Zelda"}}
	if rows := readCSV(t, string(data)); !reflect.DeepEqual(rows, want) {
		t.Errorf("all_games = %q, want %q", rows, want)
	}
}

func TestWriteFile_ExportError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(filepath.Join(blocker, "nested", "x.csv"), func(w io.Writer) error { return nil })
	if apperr.KindOf(err) != apperr.Export {
		t.Errorf("err = %v, want Export kind", err)
	}
}
