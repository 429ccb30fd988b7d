package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker(discardLogger(), nil)

	ch := b.Subscribe("game-1")
	defer b.Unsubscribe("game-1", ch)

	other := b.Subscribe("game-2")
	defer b.Unsubscribe("game-2", other)

	b.Publish(context.Background(), Event{Type: "player_joined", GameID: "game-1", PlayerName: "Ana"})

	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("unmarshaling event: %v", err)
		}
		if ev.Type != "player_joined" || ev.PlayerName != "Ana" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case data := <-other:
		t.Fatalf("event leaked to another game: %s", data)
	default:
	}
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker(discardLogger(), nil)

	ch := b.Subscribe("game-1")
	b.Unsubscribe("game-1", ch)

	b.Publish(context.Background(), Event{Type: "game_started", GameID: "game-1"})

	select {
	case data := <-ch:
		t.Fatalf("received event after unsubscribe: %s", data)
	default:
	}
}

func TestBrokerDropsWhenSubscriberIsSlow(t *testing.T) {
	b := NewBroker(discardLogger(), nil)

	ch := b.Subscribe("game-1")
	defer b.Unsubscribe("game-1", ch)

	// Nobody drains the channel; publishing past its capacity must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(context.Background(), Event{Type: "question_advanced", GameID: "game-1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered %d events, want %d", got, cap(ch))
	}
}

func TestBrokerRunWithoutRedisWaitsForContext(t *testing.T) {
	b := NewBroker(discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
