// Package livequiz defines the core domain types for quiz rooms.
// It has zero external dependencies — everything here is pure Go.
package livequiz

import "time"

type GameStatus string

const (
	StatusLobby    GameStatus = "lobby"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

// Game is one quiz room: its question set, lifecycle status, and
// question cursor. Status only ever moves forward
// (lobby → active → finished) and the question set is fixed at creation.
type Game struct {
	ID                   string
	Name                 string
	Status               GameStatus
	Questions            []Question
	CurrentQuestionIndex int
	CreatedAt            time.Time
}

// Question is one multiple-choice item. AnswerIndex points into Options
// at the correct choice and must never reach players while the question
// is still open — see Redact.
type Question struct {
	Prompt      string
	Options     []string
	AnswerIndex int
}

// Player is one participant in a game. Score and Answers are mutated
// only when an answer is accepted; everything else is immutable.
type Player struct {
	ID       string
	GameID   string
	Name     string
	Score    int
	Answers  []Answer
	JoinedAt time.Time
}

// Answer records one player's response to one question. Correct is
// computed once, at submission time, and never revised.
type Answer struct {
	QuestionIndex int
	AnswerIndex   int
	Correct       bool
}

// Answered reports whether the player already has an answer recorded
// for the given question index.
func (p Player) Answered(questionIndex int) bool {
	for _, a := range p.Answers {
		if a.QuestionIndex == questionIndex {
			return true
		}
	}
	return false
}

// GameSummary is the room-registry projection of a game.
type GameSummary struct {
	ID            string
	Name          string
	Status        GameStatus
	QuestionCount int
	CreatedAt     time.Time
}

// Summary projects a game into its registry row.
func (g Game) Summary() GameSummary {
	return GameSummary{
		ID:            g.ID,
		Name:          g.Name,
		Status:        g.Status,
		QuestionCount: len(g.Questions),
		CreatedAt:     g.CreatedAt,
	}
}

// GameView is the player-facing shape of a game. It mirrors Game except
// that the correct-choice index is withheld for questions the room has
// not moved past yet.
type GameView struct {
	ID                   string
	Name                 string
	Status               GameStatus
	Questions            []QuestionView
	CurrentQuestionIndex int
	CreatedAt            time.Time
}

// QuestionView is a question with the correct choice optionally hidden.
// AnswerIndex is nil while the question is current or upcoming.
type QuestionView struct {
	Prompt      string
	Options     []string
	AnswerIndex *int
}

// Redact builds the player-facing view of g. The room's question cursor
// is the authorization boundary: any question at or past the cursor has
// its AnswerIndex withheld so clients cannot look ahead. Once the game
// is finished no question is open anymore and everything is revealed.
func (g Game) Redact() GameView {
	v := GameView{
		ID:                   g.ID,
		Name:                 g.Name,
		Status:               g.Status,
		Questions:            make([]QuestionView, len(g.Questions)),
		CurrentQuestionIndex: g.CurrentQuestionIndex,
		CreatedAt:            g.CreatedAt,
	}
	for i, q := range g.Questions {
		qv := QuestionView{
			Prompt:  q.Prompt,
			Options: q.Options,
		}
		if i < g.CurrentQuestionIndex || g.Status == StatusFinished {
			idx := q.AnswerIndex
			qv.AnswerIndex = &idx
		}
		v.Questions[i] = qv
	}
	return v
}
