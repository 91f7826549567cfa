package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/tpimenta/sdwan-vault/internal/models"
	"github.com/tpimenta/sdwan-vault/internal/tasks"
)

// ListBackups returns the node directories present in the data store.
func (s *Server) ListBackups(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.DataDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []string{})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	nodes := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			nodes = append(nodes, entry.Name())
		}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// BackupInventory summarizes the items stored in one backup.
func (s *Server) BackupInventory(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	rows, err := tasks.Inventory(s.DataDir, node, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []tasks.InventoryRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// BackupServerInfo returns the server info record of one backup.
func (s *Server) BackupServerInfo(w http.ResponseWriter, r *http.Request) {
	node := chi.URLParam(r, "node")
	info, err := models.LoadServerInfo(s.DataDir, node)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "no server info recorded for "+node)
		return
	}
	writeJSON(w, http.StatusOK, info.Data)
}
