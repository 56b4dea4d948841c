package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/guarzo/gamematch/internal/model"
)

const (
	clearPreferencesCypher = `
MERGE (u:User {id: $id})
SET u.name = $name
WITH u
OPTIONAL MATCH (u)-[r:PREFERS]->(:Game)
DELETE r`

	addPreferencesCypher = `
MATCH (u:User {id: $id})
UNWIND $games AS title
MERGE (g:Game {title: title})
MERGE (u)-[:PREFERS]->(g)`

	removeUserCypher = `
MATCH (u:User {id: $id})
DETACH DELETE u`

	playersCypher = `
MATCH (u:User)-[:PREFERS]->(:Game {title: $title})
RETURN u.id AS id`
)

// Mirror keeps the graph in step with stored users.
type Mirror struct {
	client Client
}

// NewMirror wraps client.
func NewMirror(client Client) *Mirror {
	return &Mirror{client: client}
}

// SyncUser replaces the user's PREFERS edges with rec.PreferredGames.
func (m *Mirror) SyncUser(ctx context.Context, rec model.Record) error {
	params := map[string]any{"id": rec.ID, "name": rec.FullName}
	if _, err := m.client.ExecuteWrite(ctx, clearPreferencesCypher, params); err != nil {
		return fmt.Errorf("clear preferences of user %d: %w", rec.ID, err)
	}

	if len(rec.PreferredGames) == 0 {
		return nil
	}

	games := make([]any, 0, len(rec.PreferredGames))
	for _, g := range rec.PreferredGames {
		games = append(games, g)
	}
	params = map[string]any{"id": rec.ID, "games": games}
	if _, err := m.client.ExecuteWrite(ctx, addPreferencesCypher, params); err != nil {
		return fmt.Errorf("add preferences of user %d: %w", rec.ID, err)
	}
	return nil
}

// RemoveUser deletes the user node and its edges. Game nodes stay.
func (m *Mirror) RemoveUser(ctx context.Context, id int64) error {
	if _, err := m.client.ExecuteWrite(ctx, removeUserCypher, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("remove user %d: %w", id, err)
	}
	return nil
}

// Players returns the ids of users who prefer title, ascending.
func (m *Mirror) Players(ctx context.Context, title string) ([]int64, error) {
	res, err := m.client.ExecuteRead(ctx, playersCypher, map[string]any{"title": title})
	if err != nil {
		return nil, fmt.Errorf("players of %q: %w", title, err)
	}

	ids := make([]int64, 0, len(res.Records))
	for _, rec := range res.Records {
		if id, ok := rec["id"].(int64); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Close releases the underlying client.
func (m *Mirror) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}
