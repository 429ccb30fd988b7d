// Package session implements the quiz session core: the room lifecycle
// state machine, at-most-once answer processing, and the registry and
// leaderboard read paths, all on top of a conditional-write entity
// store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playroom/livequiz/internal/livequiz"
)

// Core is the single entry point for every room operation. All
// mutations and queries go through its small, closed method set so the
// atomicity rules live in one place. Every method is safe to call
// concurrently with any other, including itself, on the same game or
// player.
//
// Invalid-state conditions (starting a started game, answering twice,
// answering a finished room) are silent no-ops: the caller population
// is many racing clients and stale requests are normal, not
// exceptional. Only two error classes surface: ErrNotFound and
// ErrUnavailable.
type Core struct {
	store Store
	deck  []livequiz.Question
	now   func() time.Time
}

// NewCore returns a Core that creates every new game with a snapshot of
// deck as its question set.
func NewCore(store Store, deck []livequiz.Question) *Core {
	return &Core{
		store: store,
		deck:  deck,
		now:   time.Now,
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// CreateGame constructs a game in the lobby state and its creator as
// the first player, in one atomic write. It fails only when storage is
// unavailable.
func (c *Core) CreateGame(ctx context.Context, name, playerName string) (gameID, playerID string, err error) {
	now := c.now()

	questions := make([]livequiz.Question, len(c.deck))
	copy(questions, c.deck)

	g := livequiz.Game{
		ID:        newID(),
		Name:      name,
		Status:    livequiz.StatusLobby,
		Questions: questions,
		CreatedAt: now,
	}
	owner := livequiz.Player{
		ID:       newID(),
		GameID:   g.ID,
		Name:     playerName,
		JoinedAt: now,
	}

	if err := c.store.CreateGame(ctx, g, owner); err != nil {
		return "", "", unavailable("creating game", err)
	}
	return g.ID, owner.ID, nil
}

// JoinGame adds a new player to the game with score 0 and no answers.
// Joining is allowed in any status; a late joiner simply has no answers
// for the questions the room already moved past. Returns ErrNotFound
// when the game does not exist.
func (c *Core) JoinGame(ctx context.Context, gameID, playerName string) (string, error) {
	if _, err := c.store.GetGame(ctx, gameID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return "", unavailable("joining game", err)
	}

	p := livequiz.Player{
		ID:       newID(),
		GameID:   gameID,
		Name:     playerName,
		JoinedAt: c.now(),
	}
	if err := c.store.InsertPlayer(ctx, p); err != nil {
		return "", unavailable("joining game", err)
	}
	return p.ID, nil
}

// StartGame moves the game from lobby to active. Any other current
// status makes the call a silent no-op, so duplicate start clicks from
// racing clients cause exactly one transition and never an error.
func (c *Core) StartGame(ctx context.Context, gameID string) error {
	err := c.store.UpdateGame(ctx, gameID, func(g *livequiz.Game) error {
		if g.Status != livequiz.StatusLobby {
			return ErrNoChange
		}
		g.Status = livequiz.StatusActive
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return unavailable("starting game", err)
	}
	return nil
}

// AdvanceQuestion moves the cursor to the next question. Past the last
// question the game becomes finished with the cursor frozen at the last
// valid index; further calls, and calls on non-active games, are no-ops.
// The returned flag reports whether this call finished the game.
func (c *Core) AdvanceQuestion(ctx context.Context, gameID string) (finished bool, err error) {
	err = c.store.UpdateGame(ctx, gameID, func(g *livequiz.Game) error {
		// fn may run again after a write conflict; start from a clean slate.
		finished = false
		if g.Status != livequiz.StatusActive {
			return ErrNoChange
		}
		next := g.CurrentQuestionIndex + 1
		if next >= len(g.Questions) {
			g.Status = livequiz.StatusFinished
			finished = true
			return nil
		}
		g.CurrentQuestionIndex = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return false, unavailable("advancing question", err)
	}
	return finished, nil
}

// SubmitAnswer records the player's answer to the game's current
// question, at most once per question. Correctness is judged against
// the question the room is on at the moment of the check, never against
// whatever the client thought was current. The first answer wins; any
// later submission for the same question, and any submission that fails
// a precondition (unknown game or player, player in a different room,
// game not active), returns without effect and without error.
func (c *Core) SubmitAnswer(ctx context.Context, gameID, playerID string, answerIndex int) error {
	g, err := c.store.GetGame(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return unavailable("submitting answer", err)
	}

	if g.Status != livequiz.StatusActive {
		return nil
	}

	questionIndex := g.CurrentQuestionIndex
	if questionIndex >= len(g.Questions) {
		return nil
	}
	question := g.Questions[questionIndex]
	if answerIndex < 0 || answerIndex >= len(question.Options) {
		return nil
	}
	correct := question.AnswerIndex == answerIndex

	// The player record carries both the answer and the score, and the
	// conditional write commits them together, so a double-submit race
	// resolves to exactly one recorded answer and at most one point.
	err = c.store.UpdatePlayer(ctx, playerID, func(p *livequiz.Player) error {
		if p.GameID != gameID {
			return ErrNoChange
		}
		if p.Answered(questionIndex) {
			return ErrNoChange
		}
		p.Answers = append(p.Answers, livequiz.Answer{
			QuestionIndex: questionIndex,
			AnswerIndex:   answerIndex,
			Correct:       correct,
		})
		if correct {
			p.Score++
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return unavailable("submitting answer", err)
	}
	return nil
}

// ListGames returns summaries of all games, most recent first.
func (c *Core) ListGames(ctx context.Context) ([]livequiz.GameSummary, error) {
	games, err := c.store.ListGames(ctx)
	if err != nil {
		return nil, unavailable("listing games", err)
	}
	summaries := make([]livequiz.GameSummary, len(games))
	for i, g := range games {
		summaries[i] = g.Summary()
	}
	return summaries, nil
}

// GetGame returns the player-facing view of one game together with its
// players (join order) and the leaderboard derived from their scores.
func (c *Core) GetGame(ctx context.Context, gameID string) (livequiz.GameView, []livequiz.Player, []livequiz.LeaderboardEntry, error) {
	g, players, err := c.store.GetGameWithPlayers(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		return livequiz.GameView{}, nil, nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
	}
	if err != nil {
		return livequiz.GameView{}, nil, nil, unavailable("reading game", err)
	}
	return g.Redact(), players, livequiz.Leaderboard(players), nil
}
