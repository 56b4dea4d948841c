package index

import (
	"github.com/guarzo/gamematch/internal/model"
)

// Recommend suggests indexed titles the user has not listed yet.
// Candidates are taken in lexicographic order so repeated calls against the
// same index return the same list. At most limit titles are returned; a
// non-positive limit yields none.
func Recommend(ix *GameIndex, rec model.Record, limit int) []string {
	out := []string{}
	if ix == nil || limit <= 0 {
		return out
	}

	owned := make(map[string]struct{}, len(rec.PreferredGames))
	for _, g := range rec.PreferredGames {
		owned[g] = struct{}{}
	}

	for _, title := range ix.Titles() {
		if _, ok := owned[title]; ok {
			continue
		}
		out = append(out, title)
		if len(out) == limit {
			break
		}
	}
	return out
}
