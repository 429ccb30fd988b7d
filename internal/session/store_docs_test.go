package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playroom/livequiz/internal/database"
	"github.com/playroom/livequiz/internal/livequiz"
	"github.com/playroom/livequiz/internal/migrations"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func newTestStore(t *testing.T) *DocStore {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return NewDocStore(db)
}

func seedGame(t *testing.T, s *DocStore) (livequiz.Game, livequiz.Player) {
	t.Helper()
	now := time.Now()
	g := livequiz.Game{
		ID:        newID(),
		Name:      "seed",
		Status:    livequiz.StatusLobby,
		Questions: testDeck(),
		CreatedAt: now,
	}
	p := livequiz.Player{
		ID:       newID(),
		GameID:   g.ID,
		Name:     "Ana",
		JoinedAt: now,
	}
	if err := s.CreateGame(context.Background(), g, p); err != nil {
		t.Fatalf("seeding game: %v", err)
	}
	return g, p
}

func TestDocStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, p := seedGame(t, s)

	got, err := s.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Name != g.Name || got.Status != g.Status || len(got.Questions) != len(g.Questions) {
		t.Errorf("game round trip: got %+v", got)
	}
	if got.Questions[0].AnswerIndex != 2 {
		t.Errorf("question payload lost: %+v", got.Questions[0])
	}

	gotP, err := s.GetPlayer(ctx, p.ID)
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if gotP.GameID != g.ID || gotP.Name != "Ana" {
		t.Errorf("player round trip: got %+v", gotP)
	}
}

func TestDocStoreGetMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetGame(ctx, "nope"); !isNotFound(err) {
		t.Errorf("GetGame err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetPlayer(ctx, "nope"); !isNotFound(err) {
		t.Errorf("GetPlayer err = %v, want ErrNotFound", err)
	}
	if err := s.UpdateGame(ctx, "nope", func(*livequiz.Game) error { return nil }); !isNotFound(err) {
		t.Errorf("UpdateGame err = %v, want ErrNotFound", err)
	}
	if _, _, err := s.GetGameWithPlayers(ctx, "nope"); !isNotFound(err) {
		t.Errorf("GetGameWithPlayers err = %v, want ErrNotFound", err)
	}
}

func TestUpdateGameNoChangeCommitsNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, _ := seedGame(t, s)

	err := s.UpdateGame(ctx, g.ID, func(g *livequiz.Game) error {
		g.Status = livequiz.StatusActive // discarded
		return ErrNoChange
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.GetGame(ctx, g.ID)
	if got.Status != livequiz.StatusLobby {
		t.Errorf("no-change callback committed a write: %s", got.Status)
	}
}

func TestUpdateGameCallbackError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, _ := seedGame(t, s)
	boom := errors.New("boom")

	err := s.UpdateGame(ctx, g.ID, func(*livequiz.Game) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestUpdatePlayerConcurrentIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, p := seedGame(t, s)

	// Every increment must survive the race: the conditional write
	// detects conflicts and retries with a fresh read.
	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.UpdatePlayer(ctx, p.ID, func(p *livequiz.Player) error {
				p.Score++
				return nil
			})
			if err != nil {
				t.Errorf("concurrent update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.GetPlayer(ctx, p.ID)
	if got.Score != n {
		t.Errorf("score = %d, want %d (lost updates)", got.Score, n)
	}
}

func TestGetGameWithPlayersJoinOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g, first := seedGame(t, s)

	base := time.Now()
	var ids []string
	for i, name := range []string{"Bruno", "Carla"} {
		p := livequiz.Player{
			ID:       newID(),
			GameID:   g.ID,
			Name:     name,
			JoinedAt: base.Add(time.Duration(i+1) * time.Second),
		}
		if err := s.InsertPlayer(ctx, p); err != nil {
			t.Fatalf("insert player: %v", err)
		}
		ids = append(ids, p.ID)
	}

	gotGame, players, err := s.GetGameWithPlayers(ctx, g.ID)
	if err != nil {
		t.Fatalf("joint read: %v", err)
	}
	if gotGame.ID != g.ID {
		t.Errorf("game id = %s, want %s", gotGame.ID, g.ID)
	}
	wantOrder := append([]string{first.ID}, ids...)
	if len(players) != len(wantOrder) {
		t.Fatalf("got %d players, want %d", len(players), len(wantOrder))
	}
	for i, id := range wantOrder {
		if players[i].ID != id {
			t.Errorf("position %d: got %s, want %s", i, players[i].ID, id)
		}
	}
}

func TestListPlayersOtherGameExcluded(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g1, _ := seedGame(t, s)
	g2, _ := seedGame(t, s)

	players, err := s.ListPlayers(ctx, g1.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range players {
		if p.GameID != g1.ID {
			t.Errorf("player %s leaked from game %s", p.ID, g2.ID)
		}
	}
	if len(players) != 1 {
		t.Errorf("got %d players, want 1", len(players))
	}
}
