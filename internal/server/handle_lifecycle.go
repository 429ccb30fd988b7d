package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playroom/livequiz/internal/session"
)

// Start and advance answer 204 whether or not they changed anything: a
// duplicate or late request looks the same to the caller as the one
// that won the race.

func handleStart(core *session.Core, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		if err := core.StartGame(r.Context(), gameID); err != nil {
			writeCoreError(w, err)
			return
		}

		broker.Publish(r.Context(), Event{Type: "game_started", GameID: gameID})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdvance(core *session.Core, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		finished, err := core.AdvanceQuestion(r.Context(), gameID)
		if err != nil {
			writeCoreError(w, err)
			return
		}

		eventType := "question_advanced"
		if finished {
			eventType = "game_finished"
		}
		broker.Publish(r.Context(), Event{Type: eventType, GameID: gameID})
		w.WriteHeader(http.StatusNoContent)
	}
}
