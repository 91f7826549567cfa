package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tpimenta/sdwan-vault/internal/models"
	"github.com/tpimenta/sdwan-vault/internal/platform"
)

func (s *Server) CreateConnection(w http.ResponseWriter, r *http.Request) {
	// The password is accepted on create but never serialized back out.
	var req struct {
		models.Connection
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	conn := req.Connection
	conn.Password = req.Password
	if conn.Host == "" {
		writeError(w, http.StatusBadRequest, "host is required")
		return
	}
	if conn.Port == 0 {
		conn.Port = 8443
	}
	s.Connections.Create(&conn)
	s.Log.Info("connection created",
		zap.String("name", conn.Name), zap.String("host", conn.Host))
	writeJSON(w, http.StatusCreated, conn)
}

func (s *Server) ListConnections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Connections.List())
}

func (s *Server) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Connections.Delete(id) {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) TestConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conn := s.Connections.Get(id)
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	client := platform.NewClient(conn)
	if err := client.Login(); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	version, err := client.ServerVersion()
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	s.Connections.SetVersion(id, version)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": version})
}
