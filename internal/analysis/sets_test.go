package analysis

import (
	"reflect"
	"testing"

	"github.com/guarzo/gamematch/internal/model"
)

func records(games ...[]string) []model.Record {
	out := make([]model.Record, len(games))
	for i, g := range games {
		out[i] = model.Record{ID: int64(i + 1), PreferredGames: g}
	}
	return out
}

func TestAnalyze_Basic(t *testing.T) {
	report := Analyze(records(
		[]string{"Zelda", "Mario"},
		[]string{"Zelda"},
	))

	if !reflect.DeepEqual(report.All, []string{"Mario", "Zelda"}) {
		t.Errorf("All = %v", report.All)
	}
	if !reflect.DeepEqual(report.Unique, []string{"Mario"}) {
		t.Errorf("Unique = %v", report.Unique)
	}
	expected := []model.GameCount{{Title: "Zelda", Count: 2}}
	if !reflect.DeepEqual(report.Common, expected) {
		t.Errorf("Common = %v, want %v", report.Common, expected)
	}
}

func TestAnalyze_CommonOrdering(t *testing.T) {
	report := Analyze(records(
		[]string{"Halo", "Doom", "Zelda", "Celeste"},
		[]string{"Halo", "Doom", "Zelda"},
		[]string{"Zelda", "Doom", "Animal Crossing"},
		[]string{"Animal Crossing"},
	))

	expected := []model.GameCount{
		{Title: "Doom", Count: 3},
		{Title: "Zelda", Count: 3},
		{Title: "Animal Crossing", Count: 2},
		{Title: "Halo", Count: 2},
	}
	if !reflect.DeepEqual(report.Common, expected) {
		t.Errorf("Common = %v, want %v", report.Common, expected)
	}
	if !reflect.DeepEqual(report.Unique, []string{"Celeste"}) {
		t.Errorf("Unique = %v", report.Unique)
	}
	if len(report.All) != 5 {
		t.Errorf("len(All) = %d, want 5", len(report.All))
	}
}

func TestAnalyze_CountsRecordsNotOccurrences(t *testing.T) {
	report := Analyze(records(
		[]string{"Zelda", "Zelda"},
		[]string{"Mario"},
	))

	if !reflect.DeepEqual(report.Unique, []string{"Mario", "Zelda"}) {
		t.Errorf("Unique = %v", report.Unique)
	}
	if len(report.Common) != 0 {
		t.Errorf("Common = %v, want empty", report.Common)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	report := Analyze(nil)
	if len(report.All) != 0 || len(report.Unique) != 0 || len(report.Common) != 0 {
		t.Errorf("Analyze(nil) = %+v", report)
	}
	if report.Unique == nil || report.Common == nil {
		t.Error("expected non-nil empty slices for export")
	}
}

func TestFrequencies(t *testing.T) {
	freq := Frequencies(records(
		[]string{"A", "B", ""},
		[]string{"B"},
	))
	expected := map[string]int{"A": 1, "B": 2}
	if !reflect.DeepEqual(freq, expected) {
		t.Errorf("Frequencies() = %v, want %v", freq, expected)
	}
}
