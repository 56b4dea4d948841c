package model

import (
	"strings"
)

// Row is one raw submission as handed over by the ingest layer.
// Consoles and PreferredGames are '|'-delimited.
type Row struct {
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	BirthDate      string `json:"birth_date"`
	City           string `json:"city"`
	State          string `json:"state"`
	Consoles       string `json:"consoles"`
	PreferredGames string `json:"preferred_games"`
}

// Record is the canonical, deduplicated representation of one person.
type Record struct {
	ID             int64    `json:"id"`
	FullName       string   `json:"full_name"`
	BirthDate      string   `json:"birth_date"`
	Email          string   `json:"email"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Consoles       []string `json:"consoles"`
	PreferredGames []string `json:"preferred_games"`
}

// HasGame reports whether title is one of the record's preferred games.
func (r Record) HasGame(title string) bool {
	for _, g := range r.PreferredGames {
		if g == title {
			return true
		}
	}
	return false
}

// RawHit is a single marketplace search result before filtering.
type RawHit struct {
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Permalink string  `json:"permalink"`
}

// CatalogHit is a marketplace result that passed the catalog matcher.
type CatalogHit struct {
	Query     string  `json:"query,omitempty"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Permalink string  `json:"permalink"`
}

// BestPrice is the cheapest matching listing for a query.
// Found is false when no listing matched; Price is meaningless then.
type BestPrice struct {
	Query     string  `json:"query"`
	Price     float64 `json:"price"`
	Permalink string  `json:"permalink"`
	Found     bool    `json:"found"`
}

// GameCount is one row of the game frequency table.
type GameCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ListSeparator delimits consoles and preferred games in raw input.
const ListSeparator = "|"

// SplitList turns a '|'-delimited field into an ordered set: elements are
// trimmed, empty elements dropped and duplicates keep their first position.
func SplitList(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ListSeparator) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ListSeparator)
}
