package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Event is the payload published to a room's subscribers. Events are
// pokes, not state: clients re-read the room on receipt, so a duplicate
// or dropped event only changes when a client refreshes, never what it
// sees. Correctness of an answer is deliberately absent — pushing it
// while a question is open would leak the correct choice to the room.
type Event struct {
	Type       string `json:"type"`
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
}

const eventChannelPrefix = "livequiz:events:"

// Broker is a pub/sub for room events, keyed by game ID. Without redis
// it fans out in-process; with redis it publishes through a channel per
// game so several server processes share one event stream.
type Broker struct {
	logger *slog.Logger
	rdb    *redis.Client // nil disables the redis path

	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker(logger *slog.Logger, rdb *redis.Client) *Broker {
	return &Broker{
		logger: logger,
		rdb:    rdb,
		subs:   make(map[string]map[chan []byte]struct{}),
	}
}

// Run consumes the redis event channels and dispatches them to local
// subscribers until ctx is done. Without redis there is nothing to
// consume and Run just waits.
func (b *Broker) Run(ctx context.Context) error {
	if b.rdb == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := b.rdb.PSubscribe(ctx, eventChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			gameID := strings.TrimPrefix(msg.Channel, eventChannelPrefix)
			b.dispatch(gameID, []byte(msg.Payload))
		}
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the event's game. With
// redis enabled local delivery happens via the Run loop, which also
// picks up events published by other processes.
func (b *Broker) Publish(ctx context.Context, event Event) {
	data, _ := json.Marshal(event)

	if b.rdb != nil {
		err := b.rdb.Publish(ctx, eventChannelPrefix+event.GameID, data).Err()
		if err == nil {
			return
		}
		b.logger.Error("redis publish failed, delivering locally", "error", err)
	}

	b.dispatch(event.GameID, data)
}

func (b *Broker) dispatch(gameID string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
