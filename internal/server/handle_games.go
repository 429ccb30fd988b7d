package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/playroom/livequiz/internal/session"
)

type CreateGameRequest struct {
	Name       string `json:"name"`
	PlayerName string `json:"playerName"`
}

type CreateGameResponse struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

func handleCreateGame(core *session.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.Name == "" || req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "name and playerName are required")
			return
		}

		gameID, playerID, err := core.CreateGame(r.Context(), req.Name, req.PlayerName)
		if err != nil {
			writeCoreError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, CreateGameResponse{
			GameID:   gameID,
			PlayerID: playerID,
		})
	}
}

type GameSummaryItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"questionCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func handleListGames(core *session.Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := core.ListGames(r.Context())
		if err != nil {
			writeCoreError(w, err)
			return
		}

		items := make([]GameSummaryItem, len(summaries))
		for i, s := range summaries {
			items[i] = GameSummaryItem{
				ID:            s.ID,
				Name:          s.Name,
				Status:        string(s.Status),
				QuestionCount: s.QuestionCount,
				CreatedAt:     s.CreatedAt,
			}
		}
		writeJSON(w, http.StatusOK, items)
	}
}
