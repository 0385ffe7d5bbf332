package library

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T, maxGames int) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	url := fmt.Sprintf("redis://%s/0", mr.Addr())
	s, err := NewStore(url, time.Hour, maxGames)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testGame(uuid string, uploadedAt time.Time) *Game {
	return &Game{
		UUID:       uuid,
		Name:       "game " + uuid,
		PGN:        "1. e4 e5 *",
		Result:     "*",
		MoveCount:  2,
		UploadedAt: uploadedAt,
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	g := testGame("g1", time.Now())
	if err := s.Put(ctx, g); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "g1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.UUID != "g1" || got.PGN != g.PGN || got.MoveCount != 2 {
		t.Fatalf("Get returned %+v", got)
	}
}

func TestStoreGetAbsent(t *testing.T) {
	s := newTestStore(t, 10)
	got, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get absent: %v", err)
	}
	if got != nil {
		t.Fatalf("Get absent returned %+v, want nil", got)
	}
}

func TestStoreRejectsInvalidRecord(t *testing.T) {
	s := newTestStore(t, 10)
	if err := s.Put(context.Background(), nil); err == nil {
		t.Fatalf("Put(nil) succeeded")
	}
	if err := s.Put(context.Background(), testGame("  ", time.Now())); err == nil {
		t.Fatalf("Put with blank uuid succeeded")
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		g := testGame(fmt.Sprintf("g%d", i), base.Add(time.Duration(i)*time.Second))
		if err := s.Put(ctx, g); err != nil {
			t.Fatalf("Put g%d: %v", i, err)
		}
	}
	games, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("List = %d games, want 3", len(games))
	}
	for i, want := range []string{"g2", "g1", "g0"} {
		if games[i].UUID != want {
			t.Fatalf("List[%d] = %s, want %s", i, games[i].UUID, want)
		}
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 2 || limited[0].UUID != "g2" {
		t.Fatalf("limited List = %+v", limited)
	}
}

func TestStoreEvictsOldestBeyondCapacity(t *testing.T) {
	s := newTestStore(t, 2)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		g := testGame(fmt.Sprintf("g%d", i), base.Add(time.Duration(i)*time.Second))
		if err := s.Put(ctx, g); err != nil {
			t.Fatalf("Put g%d: %v", i, err)
		}
	}
	if got, _ := s.Get(ctx, "g0"); got != nil {
		t.Fatalf("oldest game survived eviction")
	}
	games, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(games) != 2 || games[0].UUID != "g2" || games[1].UUID != "g1" {
		t.Fatalf("post-eviction List = %+v", games)
	}
}

func TestStoreDelete(t *testing.T) {
	s := newTestStore(t, 10)
	ctx := context.Background()

	if err := s.Put(ctx, testGame("g1", time.Now())); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Get(ctx, "g1"); got != nil {
		t.Fatalf("deleted game still readable")
	}
	games, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("List after delete = %+v", games)
	}
}
