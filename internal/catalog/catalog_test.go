package catalog

import (
	"reflect"
	"testing"

	"github.com/guarzo/gamematch/internal/model"
)

func titles(hits []model.CatalogHit) []string {
	out := []string{}
	for _, h := range hits {
		out = append(out, h.Title)
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	m := DefaultMatcher()

	tests := []struct {
		name     string
		query    string
		hits     []model.RawHit
		expected []string
	}{
		{
			name:  "prefix_console_blacklist",
			query: "mario",
			hits: []model.RawHit{
				{Title: "Jogo Mario PS4", Permalink: "p1"},
				{Title: "Amiibo Mario", Permalink: "p2"},
				{Title: "Livro sobre Mario", Permalink: "p3"},
			},
			expected: []string{"Jogo Mario PS4"},
		},
		{
			name:  "missing_permalink",
			query: "zelda",
			hits: []model.RawHit{
				{Title: "Jogo Zelda Nintendo Switch", Permalink: ""},
				{Title: "Jogo Zelda Nintendo Switch", Permalink: "   "},
				{Title: "Zelda Breath of the Wild Nintendo Switch", Permalink: "z"},
			},
			expected: []string{"Zelda Breath of the Wild Nintendo Switch"},
		},
		{
			name:  "console_anywhere_case_insensitive",
			query: "God of War",
			hits: []model.RawHit{
				{Title: "God Of War Ragnarok PLAYSTATION 5 Mídia Física", Permalink: "a"},
				{Title: "Camiseta God of War", Permalink: "b"},
				{Title: "god of war xbox series x", Permalink: "c"},
			},
			expected: []string{"God Of War Ragnarok PLAYSTATION 5 Mídia Física", "god of war xbox series x"},
		},
		{
			name:  "all_tokens_required",
			query: "forza horizon",
			hits: []model.RawHit{
				{Title: "Jogo Forza Motorsport Xbox Series S", Permalink: "a"},
				{Title: "Jogo Forza Horizon 5 Xbox Series S", Permalink: "b"},
			},
			expected: []string{"Jogo Forza Horizon 5 Xbox Series S"},
		},
		{
			name:  "token_absent_from_title",
			query: "halo",
			hits: []model.RawHit{
				{Title: "Jogo Halloween Xbox 360", Permalink: "a"},
			},
			expected: []string{},
		},
		{
			name:  "short_token_substring",
			query: "fi",
			hits: []model.RawHit{
				{Title: "Jogo Fifa 23 PS5", Permalink: "a"},
			},
			expected: []string{"Jogo Fifa 23 PS5"},
		},
		{
			name:  "prefix_must_be_at_start",
			query: "mario",
			hits: []model.RawHit{
				{Title: "Capa de jogo Mario", Permalink: "a"},
			},
			expected: []string{},
		},
		{
			name:  "blacklist_with_console",
			query: "link",
			hits: []model.RawHit{
				{Title: "Amiibo Link Nintendo Switch", Permalink: "a"},
			},
			expected: []string{},
		},
		{
			name:     "no_hits",
			query:    "anything",
			hits:     nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(m.Match(tt.query, tt.hits))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Match(%q) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}

func TestMatcher_MatchKeepsFields(t *testing.T) {
	hits := DefaultMatcher().Match("celeste", []model.RawHit{
		{Title: "Jogo Celeste Nintendo Switch", Price: 79.9, Permalink: "https://example.test/celeste"},
	})
	expected := []model.CatalogHit{{
		Query:     "celeste",
		Title:     "Jogo Celeste Nintendo Switch",
		Price:     79.9,
		Permalink: "https://example.test/celeste",
	}}
	if !reflect.DeepEqual(hits, expected) {
		t.Errorf("Match() = %+v, want %+v", hits, expected)
	}
}

func TestNewMatcher_CustomLists(t *testing.T) {
	m := NewMatcher([]string{"  Mega Drive ", ""}, []string{"Capa"})
	got := titles(m.Match("sonic", []model.RawHit{
		{Title: "Sonic 2 MEGA DRIVE", Permalink: "a"},
		{Title: "Sonic PS4", Permalink: "b"},
		{Title: "Jogo Sonic capa", Permalink: "c"},
	}))
	if !reflect.DeepEqual(got, []string{"Sonic 2 MEGA DRIVE"}) {
		t.Errorf("Match() = %q", got)
	}
}

func TestCheapest(t *testing.T) {
	tests := []struct {
		name     string
		hits     []model.CatalogHit
		expected model.BestPrice
	}{
		{
			name: "earliest_tie_wins",
			hits: []model.CatalogHit{
				{Price: 120, Permalink: "a"},
				{Price: 99, Permalink: "b"},
				{Price: 99, Permalink: "c"},
			},
			expected: model.BestPrice{Query: "q", Price: 99, Permalink: "b", Found: true},
		},
		{
			name: "single",
			hits: []model.CatalogHit{
				{Price: 10.5, Permalink: "only"},
			},
			expected: model.BestPrice{Query: "q", Price: 10.5, Permalink: "only", Found: true},
		},
		{
			name: "zero_price",
			hits: []model.CatalogHit{
				{Price: 5, Permalink: "a"},
				{Price: 0, Permalink: "free"},
			},
			expected: model.BestPrice{Query: "q", Price: 0, Permalink: "free", Found: true},
		},
		{
			name:     "empty",
			hits:     nil,
			expected: model.BestPrice{Query: "q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cheapest("q", tt.hits)
			if got != tt.expected {
				t.Errorf("Cheapest() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
