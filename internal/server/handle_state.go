package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playroom/livequiz/internal/livequiz"
	"github.com/playroom/livequiz/internal/session"
)

type QuestionInfo struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	// AnswerIndex is withheld for the current and upcoming questions.
	AnswerIndex *int `json:"answerIndex,omitempty"`
}

type GameInfo struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Status               string         `json:"status"`
	CurrentQuestionIndex int            `json:"currentQuestionIndex"`
	Questions            []QuestionInfo `json:"questions"`
	CreatedAt            time.Time      `json:"createdAt"`
}

type AnswerInfo struct {
	QuestionIndex int  `json:"questionIndex"`
	AnswerIndex   int  `json:"answerIndex"`
	Correct       bool `json:"correct"`
}

type PlayerInfo struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Score    int          `json:"score"`
	Answers  []AnswerInfo `json:"answers"`
	JoinedAt time.Time    `json:"joinedAt"`
}

type LeaderboardRow struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

type GameStateResponse struct {
	Game        GameInfo         `json:"game"`
	Players     []PlayerInfo     `json:"players"`
	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

func handleGameState(core *session.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		view, players, board, err := core.GetGame(r.Context(), gameID)
		if err != nil {
			writeCoreError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, GameStateResponse{
			Game:        gameInfo(view),
			Players:     playerInfos(players),
			Leaderboard: leaderboardRows(board),
		})
	}
}

func gameInfo(v livequiz.GameView) GameInfo {
	questions := make([]QuestionInfo, len(v.Questions))
	for i, q := range v.Questions {
		questions[i] = QuestionInfo{
			Prompt:      q.Prompt,
			Options:     q.Options,
			AnswerIndex: q.AnswerIndex,
		}
	}
	return GameInfo{
		ID:                   v.ID,
		Name:                 v.Name,
		Status:               string(v.Status),
		CurrentQuestionIndex: v.CurrentQuestionIndex,
		Questions:            questions,
		CreatedAt:            v.CreatedAt,
	}
}

func playerInfos(players []livequiz.Player) []PlayerInfo {
	infos := make([]PlayerInfo, len(players))
	for i, p := range players {
		answers := make([]AnswerInfo, len(p.Answers))
		for j, a := range p.Answers {
			answers[j] = AnswerInfo(a)
		}
		infos[i] = PlayerInfo{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			Answers:  answers,
			JoinedAt: p.JoinedAt,
		}
	}
	return infos
}

func leaderboardRows(board []livequiz.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, len(board))
	for i, e := range board {
		rows[i] = LeaderboardRow(e)
	}
	return rows
}
