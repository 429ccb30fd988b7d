package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playroom/livequiz/internal/session"
)

type AnswerRequest struct {
	PlayerID    string `json:"playerId"`
	AnswerIndex int    `json:"answerIndex"`
}

func handleAnswer(core *session.Core, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.PlayerID == "" {
			writeError(w, http.StatusBadRequest, "playerId is required")
			return
		}
		if req.AnswerIndex < 0 {
			writeError(w, http.StatusBadRequest, "answerIndex must not be negative")
			return
		}

		// Stale submissions (room moved on, duplicate answer, finished
		// game) are dropped silently; the response is 204 either way.
		if err := core.SubmitAnswer(r.Context(), gameID, req.PlayerID, req.AnswerIndex); err != nil {
			writeCoreError(w, err)
			return
		}

		broker.Publish(r.Context(), Event{
			Type:     "answer_submitted",
			GameID:   gameID,
			PlayerID: req.PlayerID,
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
