package consolidate

import (
	"reflect"
	"testing"

	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/validate"
)

func TestMerge_FirstValidEmail(t *testing.T) {
	g := Group{
		FullName: "Ana Souza",
		Rows: []model.Row{
			{FullName: "Ana Souza", Email: "bad"},
			{FullName: "Ana Souza", Email: "ok@x.com"},
			{FullName: "Ana Souza", Email: "also@y.com"},
		},
	}

	rec := Merge(g)
	if rec.Email != "ok@x.com" {
		t.Errorf("Email = %q, want %q", rec.Email, "ok@x.com")
	}
}

func TestMerge_Sentinels(t *testing.T) {
	g := Group{
		FullName: "Bruno",
		Rows: []model.Row{
			{FullName: "Bruno", Email: "nope", BirthDate: "32/13/2020"},
			{FullName: "Bruno", Email: "", BirthDate: "someday"},
		},
	}

	rec := Merge(g)
	if rec.Email != validate.InvalidEmail {
		t.Errorf("Email = %q, want sentinel", rec.Email)
	}
	if rec.BirthDate != validate.InvalidDate {
		t.Errorf("BirthDate = %q, want sentinel", rec.BirthDate)
	}
}

func TestMerge_FirstValidDateNormalized(t *testing.T) {
	g := Group{
		FullName: "Carla",
		Rows: []model.Row{
			{FullName: "Carla", BirthDate: "99/99/9999"},
			{FullName: "Carla", BirthDate: "15/03/1990"},
			{FullName: "Carla", BirthDate: "2001-01-01"},
		},
	}

	if got := Merge(g).BirthDate; got != "1990-03-15" {
		t.Errorf("BirthDate = %q, want %q", got, "1990-03-15")
	}
}

func TestMerge_OtherFieldsFromFirstRowOnly(t *testing.T) {
	g := Group{
		FullName: "Davi",
		Rows: []model.Row{
			{FullName: "Davi", City: "Recife", State: "", Consoles: "PS4", PreferredGames: ""},
			{FullName: "Davi", City: "Natal", State: "RN", Consoles: "PS5|Xbox 360", PreferredGames: "Halo|Zelda"},
		},
	}

	rec := Merge(g)
	if rec.City != "Recife" {
		t.Errorf("City = %q, want Recife", rec.City)
	}
	if rec.State != Unknown {
		t.Errorf("State = %q, want %q (later rows must not fill it)", rec.State, Unknown)
	}
	if !reflect.DeepEqual(rec.Consoles, []string{"PS4"}) {
		t.Errorf("Consoles = %q, want [PS4]", rec.Consoles)
	}
	if len(rec.PreferredGames) != 0 {
		t.Errorf("PreferredGames = %q, want empty", rec.PreferredGames)
	}
}

func TestGroupRows(t *testing.T) {
	rows := []model.Row{
		{FullName: "Zeca"},
		{FullName: " Ana "},
		{FullName: ""},
		{FullName: "Zeca"},
		{FullName: "ana"},
	}

	groups, skipped := GroupRows(rows)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}

	var names []string
	for _, g := range groups {
		names = append(names, g.FullName)
	}
	expected := []string{"Zeca", "Ana", "ana"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("group names = %q, want %q", names, expected)
	}
	if len(groups[0].Rows) != 2 {
		t.Errorf("Zeca rows = %d, want 2", len(groups[0].Rows))
	}
}

func TestConsolidate(t *testing.T) {
	rows := []model.Row{
		{FullName: "Maria", Email: "x", BirthDate: "01-02-2000", City: "Rio", State: "RJ", Consoles: "PS4", PreferredGames: "Zelda|Mario"},
		{FullName: "João", Email: "joao@mail.com", BirthDate: "bad", City: "SP", State: "SP", Consoles: "Nintendo Switch", PreferredGames: "Zelda"},
		{FullName: "Maria", Email: "maria@mail.com", BirthDate: "2000-05-05", City: "Niterói", State: "RJ", Consoles: "PS5", PreferredGames: "Halo"},
		{FullName: "", Email: "ghost@mail.com"},
	}

	records, stats := Consolidate(rows)

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// sorted by name: "João" < "Maria"
	if records[0].FullName != "João" || records[1].FullName != "Maria" {
		t.Errorf("order = %q, %q", records[0].FullName, records[1].FullName)
	}

	maria := records[1]
	if maria.Email != "maria@mail.com" {
		t.Errorf("Maria email = %q", maria.Email)
	}
	if maria.BirthDate != "2000-02-01" {
		t.Errorf("Maria birth date = %q", maria.BirthDate)
	}
	if maria.City != "Rio" {
		t.Errorf("Maria city = %q", maria.City)
	}
	if !reflect.DeepEqual(maria.PreferredGames, []string{"Zelda", "Mario"}) {
		t.Errorf("Maria games = %q", maria.PreferredGames)
	}

	expected := Stats{
		InputRows:     4,
		SkippedRows:   1,
		Records:       2,
		DuplicateRows: 1,
		InvalidEmails: 0,
		InvalidDates:  1,
	}
	if stats != expected {
		t.Errorf("stats = %+v, want %+v", stats, expected)
	}
}

func TestConsolidate_Empty(t *testing.T) {
	records, stats := Consolidate(nil)
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
	if stats.Records != 0 || stats.InputRows != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
