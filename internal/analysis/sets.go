package analysis

import (
	"sort"

	"github.com/guarzo/gamematch/internal/model"
)

// Report is the game-set breakdown of a record collection.
type Report struct {
	// All is every distinct game, ascending.
	All []string `json:"all_games"`
	// Unique holds games listed by exactly one record, ascending.
	Unique []string `json:"unique_games"`
	// Common holds games listed by more than one record, by count desc then
	// title asc.
	Common []model.GameCount `json:"common_games"`
}

// Analyze computes the report from scratch. Counts are per record: a game
// listed twice by the same person counts once.
func Analyze(records []model.Record) Report {
	counts := Frequencies(records)

	report := Report{
		All:    make([]string, 0, len(counts)),
		Unique: []string{},
		Common: []model.GameCount{},
	}

	for title, n := range counts {
		report.All = append(report.All, title)
		if n == 1 {
			report.Unique = append(report.Unique, title)
		} else {
			report.Common = append(report.Common, model.GameCount{Title: title, Count: n})
		}
	}

	sort.Strings(report.All)
	sort.Strings(report.Unique)
	SortCounts(report.Common)

	return report
}

// Frequencies maps each game to the number of records listing it.
func Frequencies(records []model.Record) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		seen := make(map[string]bool, len(rec.PreferredGames))
		for _, g := range rec.PreferredGames {
			if g == "" || seen[g] {
				continue
			}
			seen[g] = true
			counts[g]++
		}
	}
	return counts
}

// SortCounts orders by count descending, ties by title ascending.
func SortCounts(counts []model.GameCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Title < counts[j].Title
	})
}
