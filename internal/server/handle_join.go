package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/playroom/livequiz/internal/session"
)

type JoinRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinResponse struct {
	PlayerID string `json:"playerId"`
}

func handleJoin(core *session.Core, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req JoinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		playerID, err := core.JoinGame(r.Context(), gameID, req.PlayerName)
		if err != nil {
			writeCoreError(w, err)
			return
		}

		broker.Publish(r.Context(), Event{
			Type:       "player_joined",
			GameID:     gameID,
			PlayerID:   playerID,
			PlayerName: req.PlayerName,
		})

		writeJSON(w, http.StatusOK, JoinResponse{PlayerID: playerID})
	}
}
