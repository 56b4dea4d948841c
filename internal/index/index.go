package index

import (
	"sort"
	"strings"

	"github.com/guarzo/gamematch/internal/apperr"
	"github.com/guarzo/gamematch/internal/model"
)

// DefaultLimit is the number of suggestions returned when callers don't pick one.
const DefaultLimit = 5

// GameIndex maps a game title to the users who listed it. Titles are exact
// strings as first seen. Entries are only ever added; Rebuild is the way to
// drop stale ones. A GameIndex is not safe for concurrent use.
type GameIndex struct {
	games map[string]map[int64]struct{}
}

// New returns an empty index.
func New() *GameIndex {
	return &GameIndex{games: make(map[string]map[int64]struct{})}
}

// Add registers userID under each of the record's preferred games.
// Repeated calls with the same pair are no-ops.
func (ix *GameIndex) Add(userID int64, rec model.Record) error {
	if userID <= 0 {
		return apperr.Newf(apperr.Update, "index add", "invalid user id %d for %q", userID, rec.FullName)
	}
	for _, title := range rec.PreferredGames {
		if strings.TrimSpace(title) == "" {
			continue
		}
		users, ok := ix.games[title]
		if !ok {
			users = make(map[int64]struct{})
			ix.games[title] = users
		}
		users[userID] = struct{}{}
	}
	return nil
}

// Rebuild discards the current mapping and indexes records from scratch.
// Records that fail to index are skipped and returned as errors.
func (ix *GameIndex) Rebuild(records []model.Record) []error {
	ix.games = make(map[string]map[int64]struct{})
	var errs []error
	for _, rec := range records {
		if err := ix.Add(rec.ID, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Titles returns every indexed title in lexicographic order.
func (ix *GameIndex) Titles() []string {
	titles := make([]string, 0, len(ix.games))
	for title := range ix.games {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Users returns the ids listed under title, ascending.
func (ix *GameIndex) Users(title string) []int64 {
	users := ix.games[title]
	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Contains reports whether title has been indexed.
func (ix *GameIndex) Contains(title string) bool {
	_, ok := ix.games[title]
	return ok
}

// Len is the number of distinct titles.
func (ix *GameIndex) Len() int {
	return len(ix.games)
}
