package session

import (
	"context"
	"errors"

	"github.com/playroom/livequiz/internal/livequiz"
)

// ErrNotFound means a referenced game or player does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnavailable means the underlying storage could not complete the
// operation. Callers own retry policy; the core never retries a failed
// operation on its own.
var ErrUnavailable = errors.New("storage unavailable")

// ErrNoChange aborts an Update callback without writing anything.
// Mutations that turn out to be no-ops (duplicate start clicks, repeat
// answers) return it so nothing is committed.
var ErrNoChange = errors.New("no change")

// Store is the durable entity store for games and players.
//
// The Update methods follow a conditional-write discipline: the entity
// is read, the callback applied to the copy, and the result written
// only if the stored entity is unchanged since the read. On a
// conflicting write the whole cycle is retried with a fresh read, so
// two racing mutations of the same entity never lose each other's
// effect.
type Store interface {
	// CreateGame inserts a game and its creating player in one atomic
	// write. Either both records exist afterwards or neither does.
	CreateGame(ctx context.Context, g livequiz.Game, owner livequiz.Player) error
	GetGame(ctx context.Context, id string) (livequiz.Game, error)
	UpdateGame(ctx context.Context, id string, fn func(*livequiz.Game) error) error
	// ListGames returns all games, most recently created first.
	ListGames(ctx context.Context) ([]livequiz.Game, error)

	InsertPlayer(ctx context.Context, p livequiz.Player) error
	GetPlayer(ctx context.Context, id string) (livequiz.Player, error)
	UpdatePlayer(ctx context.Context, id string, fn func(*livequiz.Player) error) error
	// ListPlayers returns a game's players in join order.
	ListPlayers(ctx context.Context, gameID string) ([]livequiz.Player, error)

	// GetGameWithPlayers reads one game and all of its players at a
	// single logical instant.
	GetGameWithPlayers(ctx context.Context, gameID string) (livequiz.Game, []livequiz.Player, error)
}
