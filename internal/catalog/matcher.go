package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/guarzo/gamematch/internal/model"
)

// GamePrefix marks listings titled as a game ("jogo" in Portuguese).
const GamePrefix = "jogo"

// DefaultConsoles are the platforms a listing may name to count as a game copy.
var DefaultConsoles = []string{
	"playstation 4",
	"playstation 5",
	"ps4",
	"ps5",
	"xbox 360",
	"xbox series s",
	"xbox series x",
	"nintendo switch",
}

// DefaultBlacklist excludes accessories that share game names.
var DefaultBlacklist = []string{
	"amiibo",
}

// Matcher decides which marketplace hits plausibly are a copy of the
// queried game on a supported console.
type Matcher struct {
	Consoles  []string
	Blacklist []string
}

// DefaultMatcher uses the built-in console list and blacklist.
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultConsoles, DefaultBlacklist)
}

// NewMatcher folds the given lists once; empty entries are ignored.
func NewMatcher(consoles, blacklist []string) *Matcher {
	return &Matcher{
		Consoles:  foldAll(consoles),
		Blacklist: foldAll(blacklist),
	}
}

// Match keeps the hits that pass every rule, in input order:
//  1. the permalink is present;
//  2. the title starts with "jogo" or names a supported console;
//  3. the title names nothing on the blacklist;
//  4. every whitespace-separated query token occurs somewhere in the title.
//
// Token matching is by substring, so short tokens can over-match.
func (m *Matcher) Match(query string, hits []model.RawHit) []model.CatalogHit {
	tokens := strings.Fields(fold(query))
	out := []model.CatalogHit{}

	for _, hit := range hits {
		if strings.TrimSpace(hit.Permalink) == "" {
			continue
		}
		title := fold(hit.Title)
		if !m.isGameListing(title) {
			continue
		}
		if m.isBlacklisted(title) {
			continue
		}
		if !containsAll(title, tokens) {
			continue
		}
		out = append(out, model.CatalogHit{
			Query:     query,
			Title:     hit.Title,
			Price:     hit.Price,
			Permalink: hit.Permalink,
		})
	}

	return out
}

func (m *Matcher) isGameListing(title string) bool {
	if strings.HasPrefix(title, GamePrefix) {
		return true
	}
	for _, console := range m.Consoles {
		if strings.Contains(title, console) {
			return true
		}
	}
	return false
}

func (m *Matcher) isBlacklisted(title string) bool {
	for _, term := range m.Blacklist {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}

func containsAll(title string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(title, tok) {
			return false
		}
	}
	return true
}

// fold returns the case-folded form used for every comparison. A fresh
// Caser per call keeps Matcher safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, fold(item))
	}
	return out
}
