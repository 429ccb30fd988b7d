package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playroom/livequiz/internal/session"
)

func addRoutes(r chi.Router, logger *slog.Logger, core *session.Core, broker *Broker, db *sql.DB, rdb *redis.Client, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("LiveQuiz API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", handleListGames(core))
		r.Post("/", handleCreateGame(core))

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", handleGameState(core))
			r.Post("/join", handleJoin(core, broker))
			r.Post("/start", handleStart(core, broker))
			r.Post("/advance", handleAdvance(core, broker))
			r.Post("/answers", handleAnswer(core, broker))
			r.Get("/events", handleEvents(core, broker))
			r.Get("/ws", handleWS(logger, core, broker))
		})
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
