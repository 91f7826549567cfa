// Package api exposes sdwan-vault over HTTP: connection management,
// local backup browsing, and async backup/restore jobs with websocket
// log streaming.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tpimenta/sdwan-vault/internal/models"
)

// Server holds shared state for all API handlers.
type Server struct {
	Connections *models.ConnectionStore
	Jobs        *models.JobStore
	DataDir     string // data store root
	Log         *zap.Logger
}

// NewRouter builds the chi router with all API routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Connections
		r.Post("/connections", s.CreateConnection)
		r.Get("/connections", s.ListConnections)
		r.Delete("/connections/{id}", s.DeleteConnection)
		r.Post("/connections/{id}/test", s.TestConnection)

		// Async operations
		r.Post("/connections/{id}/backup", s.RunBackup)
		r.Post("/connections/{id}/restore", s.RunRestore)

		// Local backup browsing
		r.Get("/backups", s.ListBackups)
		r.Get("/backups/{node}/inventory", s.BackupInventory)
		r.Get("/backups/{node}/server-info", s.BackupServerInfo)

		// Jobs
		r.Get("/jobs", s.ListJobs)
		r.Get("/jobs/{id}", s.GetJob)
		r.Post("/jobs/{id}/cancel", s.CancelJob)
	})

	// WebSocket (outside /api to avoid JSON content-type assumptions)
	r.Get("/ws/jobs/{id}/logs", s.StreamJobLogs)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
