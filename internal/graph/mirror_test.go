package graph

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/guarzo/gamematch/internal/model"
)

func TestMirror_SyncUser(t *testing.T) {
	mem := NewMemoryClient()
	m := NewMirror(mem)

	rec := model.Record{ID: 7, FullName: "Ana Souza", PreferredGames: []string{"Zelda", "Mario"}}
	if err := m.SyncUser(context.Background(), rec); err != nil {
		t.Fatalf("SyncUser() error = %v", err)
	}

	calls := mem.WriteCalls()
	if len(calls) != 2 {
		t.Fatalf("write calls = %d, want 2", len(calls))
	}
	if !strings.Contains(calls[0].Query, "DELETE r") || calls[0].Params["name"] != "Ana Souza" {
		t.Errorf("first call = %+v", calls[0])
	}
	if calls[1].Params["id"] != int64(7) {
		t.Errorf("id param = %v", calls[1].Params["id"])
	}
	want := []any{"Zelda", "Mario"}
	if !reflect.DeepEqual(calls[1].Params["games"], want) {
		t.Errorf("games param = %v, want %v", calls[1].Params["games"], want)
	}
}

func TestMirror_SyncUserNoGames(t *testing.T) {
	mem := NewMemoryClient()
	if err := NewMirror(mem).SyncUser(context.Background(), model.Record{ID: 1}); err != nil {
		t.Fatal(err)
	}
	if n := len(mem.WriteCalls()); n != 1 {
		t.Errorf("write calls = %d, want only the clear", n)
	}
}

func TestMirror_RemoveUser(t *testing.T) {
	mem := NewMemoryClient()
	if err := NewMirror(mem).RemoveUser(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	calls := mem.WriteCalls()
	if len(calls) != 1 || !strings.Contains(calls[0].Query, "DETACH DELETE") {
		t.Errorf("calls = %+v", calls)
	}
}

func TestMirror_Players(t *testing.T) {
	mem := NewMemoryClient()
	mem.PushReadResult(Result{Records: []Record{{"id": int64(9)}, {"id": int64(2)}, {"id": "bad"}}})

	ids, err := NewMirror(mem).Players(context.Background(), "Zelda")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ids, []int64{2, 9}) {
		t.Errorf("Players() = %v, want [2 9]", ids)
	}
	if got := mem.ReadCalls()[0].Params["title"]; got != "Zelda" {
		t.Errorf("title param = %v", got)
	}
}

func TestMirror_Errors(t *testing.T) {
	boom := errors.New("connection refused")
	m := NewMirror(NewMemoryClient().WithError(boom))
	ctx := context.Background()

	if err := m.SyncUser(ctx, model.Record{ID: 1, PreferredGames: []string{"x"}}); !errors.Is(err, boom) {
		t.Errorf("SyncUser() error = %v", err)
	}
	if err := m.RemoveUser(ctx, 1); !errors.Is(err, boom) {
		t.Errorf("RemoveUser() error = %v", err)
	}
	if _, err := m.Players(ctx, "x"); !errors.Is(err, boom) {
		t.Errorf("Players() error = %v", err)
	}
}

func TestNewNeo4jClient_MissingURI(t *testing.T) {
	if _, err := NewNeo4jClient(context.Background(), Options{}); !errors.Is(err, ErrMissingURI) {
		t.Errorf("err = %v, want ErrMissingURI", err)
	}
}
