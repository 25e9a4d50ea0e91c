// Package server wires the HTTP surface: routing, middleware, the WebSocket
// event stream, and the OpenAPI documents.
package server

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/rickpersak/idle-rpg/internal/auth"
	"github.com/rickpersak/idle-rpg/internal/httpmw"
	"github.com/rickpersak/idle-rpg/internal/session"
	"github.com/rickpersak/idle-rpg/internal/settings"
)

type Options struct {
	Logger   *log.Logger
	Auth     *auth.Service
	Sessions *session.Manager
	Broker   *session.Broker
	Settings *settings.FileRepo
	DB       *sql.DB
}

// NewHandler builds the full HTTP handler.
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	authHandler := auth.NewHandler(opts.Auth)
	gameHandler := session.NewHandler(opts.Sessions)
	settingsHandler := settings.NewHandler(opts.Settings)

	r := chi.NewRouter()

	r.Get("/healthz", handleHealth())
	r.Get("/readyz", handleReady(opts.DB))
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Idle RPG API", "/openapi.json", "/docs"))

	r.Get("/api/auth/session", authHandler.Session)
	r.Post("/api/auth/session", authHandler.Session)
	r.Post("/api/auth/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(opts.Auth.RequireAPI)

		r.Get("/api/game/state", gameHandler.State)
		r.Post("/api/game/new", gameHandler.NewGame)
		r.Post("/api/game/continue", gameHandler.Continue)
		r.Post("/api/game/load", gameHandler.Load)
		r.Post("/api/game/save", gameHandler.Save)
		r.Post("/api/game/task", gameHandler.SetTask)
		r.Post("/api/game/sell", gameHandler.Sell)
		r.Post("/api/game/move", gameHandler.Move)
		r.Post("/api/game/equip", gameHandler.Equip)
		r.Post("/api/game/upgrade", gameHandler.Upgrade)
		r.Get("/api/saves", gameHandler.Saves)

		r.Get("/api/settings", settingsHandler.Get)
		r.Put("/api/settings", settingsHandler.Put)

		r.Get("/api/events", handleEvents(opts.Broker, opts.Logger))
	})

	return httpmw.Chain(r,
		httpmw.WithRequestID,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRecover(opts.Logger),
	)
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func handleReady(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	}
}
