package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/model"
)

func TestReadFile_CSV(t *testing.T) {
	rows, err := ReadFile("testdata/users.csv")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	want := model.Row{
		FullName:       "Ana Souza",
		Email:          "ana@x.com",
		BirthDate:      "15/03/1990",
		City:           "São Paulo",
		State:          "SP",
		Consoles:       "PS5|Switch",
		PreferredGames: "Zelda|Mario",
	}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].FullName != "Carla Dias" || rows[1].Email != "carla@y.com" || rows[1].State != "" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
}

func TestReadFile_Latin1CSV(t *testing.T) {
	rows, err := ReadFile("testdata/latin1.csv")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].City != "São Paulo" {
		t.Errorf("City = %q, want São Paulo", rows[0].City)
	}
}

func TestReadFile_JSON(t *testing.T) {
	rows, err := ReadFile("testdata/users.json")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].FullName != "Ana Souza" || rows[0].City != "Santos" {
		t.Errorf("rows[0] = %+v", rows[0])
	}

	diego := rows[1]
	if diego.Email != "" {
		t.Errorf("null email = %q, want empty", diego.Email)
	}
	if diego.BirthDate != "19900101" {
		t.Errorf("numeric date = %q", diego.BirthDate)
	}
	if diego.Consoles != "Switch|PS5" || diego.PreferredGames != "Mario|Celeste" {
		t.Errorf("lists = %q / %q", diego.Consoles, diego.PreferredGames)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		rows    int
	}{
		{"empty", "", false, 0},
		{"header_only", "full_name,email\n", false, 0},
		{"no_name_column", "email,city\na@b.com,Rio\n", true, 0},
		{"english_headers", "full_name,preferred_games\nEva,Tetris\n", false, 1},
		{"bom", "\xef\xbb\xbffull_name\nEva\n", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseCSV([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCSV() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(rows) != tt.rows {
				t.Errorf("rows = %d, want %d", len(rows), tt.rows)
			}
		})
	}
}

func TestReadFiles(t *testing.T) {
	log := zerolog.Nop()

	rows, err := ReadFiles([]string{"testdata/users.csv", "testdata/missing.csv", "testdata/users.json"}, log)
	if err != nil {
		t.Fatalf("ReadFiles() error = %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("rows = %d, want 4", len(rows))
	}

	_, err = ReadFiles([]string{"testdata/missing.csv"}, log)
	if apperr.KindOf(err) != apperr.Import {
		t.Errorf("all missing: err = %v, want Import", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFiles([]string{"testdata/users.csv", bad}, log)
	if apperr.KindOf(err) != apperr.Import {
		t.Errorf("corrupt file: err = %v, want Import", err)
	}

	_, err = ReadFiles([]string{"testdata/users.xlsx"}, log)
	if err == nil {
		t.Error("missing unsupported file should be skipped, then fail with nothing loaded")
	}
}
