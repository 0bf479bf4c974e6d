package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ptchy/chiabot/internal/bot"
	"github.com/ptchy/chiabot/internal/config"
	"github.com/ptchy/chiabot/internal/store"
)

// API serves the Telegram webhook endpoint plus a small read-only JSON
// view over the stored ledgers.
type API struct {
	router    *mux.Router
	store     store.Store
	bot       *bot.Bot
	config    *config.Config
	jwtSecret []byte
}

func New(cfg *config.Config, st store.Store, b *bot.Bot) *API {
	api := &API{
		router:    mux.NewRouter(),
		store:     st,
		bot:       b,
		config:    cfg,
		jwtSecret: []byte(cfg.JWTSecret),
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Liveness + webhook ingestion
	a.router.HandleFunc("/api/health", a.handleHealth).Methods("GET")
	a.router.HandleFunc("/api/telegram", a.handleWebhook).Methods("POST")

	// Auth endpoint
	a.router.HandleFunc("/api/auth/token", a.handleToken).Methods("POST")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/ledgers/{chat_id}", a.handleGetLedger).Methods("GET")
	protected.HandleFunc("/ledgers/{chat_id}/settlement", a.handleGetSettlement).Methods("GET")
}

func (a *API) Start() error {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}

	handler := cors.New(corsOptions).Handler(a.router)

	log.Printf("API server listening on http://%s", a.config.WebBind)
	return http.ListenAndServe(a.config.WebBind, handler)
}
