package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/playroom/livequiz/internal/livequiz"
)

// Document shapes stored as JSONB in per-model tables.

type gameDoc struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Status               string        `json:"status"`
	Questions            []questionDoc `json:"questions"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"`
	CreatedAt            time.Time     `json:"createdAt"`
}

type questionDoc struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

type playerDoc struct {
	ID       string      `json:"id"`
	GameID   string      `json:"gameId"`
	Name     string      `json:"name"`
	Score    int         `json:"score"`
	Answers  []answerDoc `json:"answers"`
	JoinedAt time.Time   `json:"joinedAt"`
}

type answerDoc struct {
	QuestionIndex int  `json:"questionIndex"`
	AnswerIndex   int  `json:"answerIndex"`
	Correct       bool `json:"correct"`
}

func gameToDoc(g livequiz.Game) gameDoc {
	questions := make([]questionDoc, len(g.Questions))
	for i, q := range g.Questions {
		questions[i] = questionDoc(q)
	}
	return gameDoc{
		ID:                   g.ID,
		Name:                 g.Name,
		Status:               string(g.Status),
		Questions:            questions,
		CurrentQuestionIndex: g.CurrentQuestionIndex,
		CreatedAt:            g.CreatedAt,
	}
}

func docToGame(d gameDoc) livequiz.Game {
	questions := make([]livequiz.Question, len(d.Questions))
	for i, q := range d.Questions {
		questions[i] = livequiz.Question(q)
	}
	return livequiz.Game{
		ID:                   d.ID,
		Name:                 d.Name,
		Status:               livequiz.GameStatus(d.Status),
		Questions:            questions,
		CurrentQuestionIndex: d.CurrentQuestionIndex,
		CreatedAt:            d.CreatedAt,
	}
}

func playerToDoc(p livequiz.Player) playerDoc {
	answers := make([]answerDoc, len(p.Answers))
	for i, a := range p.Answers {
		answers[i] = answerDoc(a)
	}
	return playerDoc{
		ID:       p.ID,
		GameID:   p.GameID,
		Name:     p.Name,
		Score:    p.Score,
		Answers:  answers,
		JoinedAt: p.JoinedAt,
	}
}

func docToPlayer(d playerDoc) livequiz.Player {
	answers := make([]livequiz.Answer, len(d.Answers))
	for i, a := range d.Answers {
		answers[i] = livequiz.Answer(a)
	}
	return livequiz.Player{
		ID:       d.ID,
		GameID:   d.GameID,
		Name:     d.Name,
		Score:    d.Score,
		Answers:  answers,
		JoinedAt: d.JoinedAt,
	}
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// tsUTC formats timestamps fixed-width so lexicographic order in the
// created_at / joined_at columns matches chronological order.
func tsUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}

// casAttempts bounds the retry loop of the conditional-write cycle.
// Each attempt is one read plus one conditional write, so even a burst
// of clients mutating the same entity settles in bounded time;
// exhausting the budget is reported as a storage failure.
const casAttempts = 20

var errTooManyConflicts = errors.New("too many conflicting writes")

// DocStore implements Store using per-model tables with JSONB data
// columns and a version counter per row. Writes go through a
// compare-and-set on the version, so a mutation commits only if the row
// is unchanged since it was read.
type DocStore struct {
	db *sql.DB
}

func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

func (s *DocStore) CreateGame(ctx context.Context, g livequiz.Game, owner livequiz.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	gameData, err := json.Marshal(gameToDoc(g))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, status, created_at, data) VALUES (?, ?, ?, jsonb(?))`,
		g.ID, string(g.Status), tsUTC(g.CreatedAt), string(gameData),
	)
	if err != nil {
		return err
	}

	playerData, err := json.Marshal(playerToDoc(owner))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO players (id, game_id, joined_at, data) VALUES (?, ?, ?, jsonb(?))`,
		owner.ID, owner.GameID, tsUTC(owner.JoinedAt), string(playerData),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *DocStore) GetGame(ctx context.Context, id string) (livequiz.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return livequiz.Game{}, ErrNotFound
	}
	if err != nil {
		return livequiz.Game{}, err
	}

	var d gameDoc
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return livequiz.Game{}, err
	}
	return docToGame(d), nil
}

func (s *DocStore) UpdateGame(ctx context.Context, id string, fn func(*livequiz.Game) error) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		var data string
		var version int64
		err := s.db.QueryRowContext(ctx,
			`SELECT json(data), version FROM games WHERE id = ?`, id,
		).Scan(&data, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var d gameDoc
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return err
		}
		g := docToGame(d)

		err = fn(&g)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}

		newData, err := json.Marshal(gameToDoc(g))
		if err != nil {
			return err
		}
		result, err := s.db.ExecContext(ctx,
			`UPDATE games SET status = ?, data = jsonb(?), version = version + 1
			 WHERE id = ? AND version = ?`,
			string(g.Status), string(newData), id, version,
		)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 1 {
			return nil
		}
		// Lost the race; re-read and try again.
	}
	return fmt.Errorf("updating game %s: %w", id, errTooManyConflicts)
}

func (s *DocStore) ListGames(ctx context.Context) ([]livequiz.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM games ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

func (s *DocStore) InsertPlayer(ctx context.Context, p livequiz.Player) error {
	data, err := json.Marshal(playerToDoc(p))
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO players (id, game_id, joined_at, data) VALUES (?, ?, ?, jsonb(?))`,
		p.ID, p.GameID, tsUTC(p.JoinedAt), string(data),
	)
	return err
}

func (s *DocStore) GetPlayer(ctx context.Context, id string) (livequiz.Player, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM players WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return livequiz.Player{}, ErrNotFound
	}
	if err != nil {
		return livequiz.Player{}, err
	}

	var d playerDoc
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return livequiz.Player{}, err
	}
	return docToPlayer(d), nil
}

func (s *DocStore) UpdatePlayer(ctx context.Context, id string, fn func(*livequiz.Player) error) error {
	for attempt := 0; attempt < casAttempts; attempt++ {
		var data string
		var version int64
		err := s.db.QueryRowContext(ctx,
			`SELECT json(data), version FROM players WHERE id = ?`, id,
		).Scan(&data, &version)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var d playerDoc
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return err
		}
		p := docToPlayer(d)

		err = fn(&p)
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		if err != nil {
			return err
		}

		newData, err := json.Marshal(playerToDoc(p))
		if err != nil {
			return err
		}
		result, err := s.db.ExecContext(ctx,
			`UPDATE players SET data = jsonb(?), version = version + 1
			 WHERE id = ? AND version = ?`,
			string(newData), id, version,
		)
		if err != nil {
			return err
		}
		if n, _ := result.RowsAffected(); n == 1 {
			return nil
		}
	}
	return fmt.Errorf("updating player %s: %w", id, errTooManyConflicts)
}

func (s *DocStore) ListPlayers(ctx context.Context, gameID string) ([]livequiz.Player, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM players WHERE game_id = ? ORDER BY joined_at, id`, gameID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *DocStore) GetGameWithPlayers(ctx context.Context, gameID string) (livequiz.Game, []livequiz.Player, error) {
	// A read transaction gives both selects the same snapshot.
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return livequiz.Game{}, nil, err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM games WHERE id = ?`, gameID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return livequiz.Game{}, nil, ErrNotFound
	}
	if err != nil {
		return livequiz.Game{}, nil, err
	}

	var d gameDoc
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return livequiz.Game{}, nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT json(data) FROM players WHERE game_id = ? ORDER BY joined_at, id`, gameID,
	)
	if err != nil {
		return livequiz.Game{}, nil, err
	}
	defer rows.Close()

	players, err := scanPlayers(rows)
	if err != nil {
		return livequiz.Game{}, nil, err
	}
	if err := rows.Close(); err != nil {
		return livequiz.Game{}, nil, err
	}

	return docToGame(d), players, tx.Commit()
}

func scanGames(rows *sql.Rows) ([]livequiz.Game, error) {
	var games []livequiz.Game
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d gameDoc
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, err
		}
		games = append(games, docToGame(d))
	}
	return games, rows.Err()
}

func scanPlayers(rows *sql.Rows) ([]livequiz.Player, error) {
	var players []livequiz.Player
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var d playerDoc
		if err := json.Unmarshal([]byte(data), &d); err != nil {
			return nil, err
		}
		players = append(players, docToPlayer(d))
	}
	return players, rows.Err()
}

// Ensure DocStore implements Store at compile time.
var _ Store = (*DocStore)(nil)
