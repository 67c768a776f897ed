package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hydrolog-io/hydrolog/internal/auth"
	"github.com/hydrolog-io/hydrolog/internal/config"
	"github.com/hydrolog-io/hydrolog/internal/storage"
	"github.com/hydrolog-io/hydrolog/internal/water"
)

// Uploader stores serialized history exports. Satisfied by storage.Client.
type Uploader interface {
	UploadExport(ctx context.Context, userID string, body []byte) (*storage.UploadResult, error)
}

type Api struct {
	Config   config.Config
	Tokens   *auth.TokenManager
	Ledger   *water.Engine
	Uploader Uploader
	Router   *chi.Mux
}

func NewApi(cfg config.Config, tokens *auth.TokenManager, ledger *water.Engine, uploader Uploader) (*Api, error) {
	if cfg.APIPort == 0 {
		return nil, errors.New("Must have at least a port to start API")
	}

	api := &Api{
		Config:   cfg,
		Tokens:   tokens,
		Ledger:   ledger,
		Uploader: uploader,
		Router:   chi.NewRouter(),
	}

	api.setupRoutes()
	return api, nil
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Heartbeat("/heartbeat"))

	// Public routes
	r.Post("/auth/register", api.RegisterHandler)
	r.Post("/auth/login", api.LoginHandler)
	r.Get("/health", api.HealthHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(api.Tokens))
		r.Get("/water", api.GetWaterHandler)
		r.Post("/water", api.UpdateWaterHandler)
		r.Get("/water/history", api.HistoryHandler)
		r.Post("/water/export", api.ExportHandler)
	})
}

func (api *Api) Serve() error {
	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	log.Printf("Starting API server on %s", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError writes a JSON error payload with the given status
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
