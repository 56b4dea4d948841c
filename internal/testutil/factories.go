package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/guarzo/gamematch/internal/model"
)

var (
	firstNames = []string{"Ana", "Bruno", "Carla", "Diego", "Eva", "Felipe", "Gabriela", "Hugo"}
	lastNames  = []string{"Souza", "Lima", "Dias", "Alves", "Costa", "Rocha", "Melo"}
	cities     = []string{"São Paulo", "Recife", "Curitiba", "Natal", "Belém", "Porto Alegre"}
	states     = []string{"SP", "PE", "PR", "RN", "PA", "RS"}
	consoles   = []string{"PS4", "PS5", "Xbox 360", "Xbox Series X", "Nintendo Switch"}
	games      = []string{
		"The Legend of Zelda", "Super Mario Odyssey", "God of War", "Halo 3",
		"Forza Horizon 5", "Celeste", "Hollow Knight", "FIFA 23", "Minecraft", "Gears of War",
	}
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateFullName returns a random "First Last" name.
func (f *TestDataFactory) GenerateFullName() string {
	return fmt.Sprintf("%s %s", pick(f, firstNames), pick(f, lastNames))
}

// GenerateEmail returns a well-formed address.
func (f *TestDataFactory) GenerateEmail() string {
	return fmt.Sprintf("user%d@example.com", f.rand.Intn(100000))
}

// GenerateBirthDate returns an ISO date between 1970 and 2009.
func (f *TestDataFactory) GenerateBirthDate() string {
	d := time.Date(1970+f.rand.Intn(40), time.Month(f.rand.Intn(12)+1), f.rand.Intn(28)+1, 0, 0, 0, 0, time.UTC)
	return d.Format("2006-01-02")
}

// GenerateGames returns up to n distinct titles from the fixture catalog.
func (f *TestDataFactory) GenerateGames(n int) []string {
	if n > len(games) {
		n = len(games)
	}
	out := make([]string, 0, n)
	for _, i := range f.rand.Perm(len(games))[:n] {
		out = append(out, games[i])
	}
	return out
}

// GenerateRecord returns a valid record with 1-4 consoles and games.
func (f *TestDataFactory) GenerateRecord() model.Record {
	i := f.rand.Intn(len(cities))
	return model.Record{
		FullName:       f.GenerateFullName(),
		BirthDate:      f.GenerateBirthDate(),
		Email:          f.GenerateEmail(),
		City:           cities[i],
		State:          states[i],
		Consoles:       f.subset(consoles, f.rand.Intn(3)+1),
		PreferredGames: f.GenerateGames(f.rand.Intn(4) + 1),
	}
}

// GenerateRow returns a raw row for the given record, as ingest would produce.
func (f *TestDataFactory) GenerateRow(rec model.Record) model.Row {
	return model.Row{
		FullName:       rec.FullName,
		Email:          rec.Email,
		BirthDate:      rec.BirthDate,
		City:           rec.City,
		State:          rec.State,
		Consoles:       model.JoinList(rec.Consoles),
		PreferredGames: model.JoinList(rec.PreferredGames),
	}
}

// GenerateRawHit returns a marketplace hit for title priced between 20 and 520.
func (f *TestDataFactory) GenerateRawHit(title string) model.RawHit {
	return model.RawHit{
		Title:     fmt.Sprintf("Jogo %s %s", title, pick(f, consoles)),
		Price:     float64(f.rand.Intn(50000)+2000) / 100,
		Permalink: fmt.Sprintf("https://produto.mercadolivre.test/MLB-%d", f.rand.Int63()),
	}
}

func (f *TestDataFactory) subset(items []string, n int) []string {
	out := make([]string, 0, n)
	for _, i := range f.rand.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}

func pick(f *TestDataFactory, items []string) string {
	return items[f.rand.Intn(len(items))]
}
