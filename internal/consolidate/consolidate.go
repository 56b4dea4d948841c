package consolidate

import (
	"sort"
	"strings"

	"github.com/guarzo/gamematch/internal/model"
	"github.com/guarzo/gamematch/internal/validate"
)

// Unknown fills city and state when the winning row left them blank.
const Unknown = "unknown"

// Group is every row that shares one full name, in input order.
type Group struct {
	FullName string
	Rows     []model.Row
}

// Stats summarizes a consolidation pass.
type Stats struct {
	InputRows     int `json:"input_rows"`
	SkippedRows   int `json:"skipped_rows"` // rows without a name
	Records       int `json:"records"`
	DuplicateRows int `json:"duplicate_rows"`
	InvalidEmails int `json:"invalid_emails"`
	InvalidDates  int `json:"invalid_dates"`
}

// GroupRows buckets rows by exact (trimmed) full name. Groups come back in
// order of first appearance and rows keep their input order inside a group.
func GroupRows(rows []model.Row) ([]Group, int) {
	index := make(map[string]int)
	var groups []Group
	skipped := 0

	for _, row := range rows {
		name := strings.TrimSpace(row.FullName)
		if name == "" {
			skipped++
			continue
		}
		row.FullName = name

		if i, ok := index[name]; ok {
			groups[i].Rows = append(groups[i].Rows, row)
			continue
		}
		index[name] = len(groups)
		groups = append(groups, Group{FullName: name, Rows: []model.Row{row}})
	}

	return groups, skipped
}

// Merge collapses a group into one record. Email and birth date come from the
// first row carrying a valid value; city, state, consoles and games come from
// the first row only, even when later rows disagree.
func Merge(g Group) model.Record {
	rec := model.Record{
		FullName:  g.FullName,
		Email:     validate.InvalidEmail,
		BirthDate: validate.InvalidDate,
	}

	for _, row := range g.Rows {
		if validate.ValidEmail(row.Email) {
			rec.Email = strings.TrimSpace(row.Email)
			break
		}
	}

	for _, row := range g.Rows {
		if d := validate.NormalizeDate(row.BirthDate); d != validate.InvalidDate {
			rec.BirthDate = d
			break
		}
	}

	if len(g.Rows) > 0 {
		first := g.Rows[0]
		rec.City = orUnknown(first.City)
		rec.State = orUnknown(first.State)
		rec.Consoles = model.SplitList(first.Consoles)
		rec.PreferredGames = model.SplitList(first.PreferredGames)
	}

	return rec
}

// Consolidate groups rows by full name and merges each group. Records are
// returned sorted by full name.
func Consolidate(rows []model.Row) ([]model.Record, Stats) {
	groups, skipped := GroupRows(rows)

	stats := Stats{
		InputRows:   len(rows),
		SkippedRows: skipped,
		Records:     len(groups),
	}

	records := make([]model.Record, 0, len(groups))
	for _, g := range groups {
		rec := Merge(g)
		stats.DuplicateRows += len(g.Rows) - 1
		if rec.Email == validate.InvalidEmail {
			stats.InvalidEmails++
		}
		if rec.BirthDate == validate.InvalidDate {
			stats.InvalidDates++
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].FullName < records[j].FullName
	})

	return records, stats
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}
