package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tpimenta/sdwan-vault/internal/platform"
	"github.com/tpimenta/sdwan-vault/internal/tasks"
)

type backupRequest struct {
	Tags []string `json:"tags,omitempty"`
}

type restoreRequest struct {
	Tags         []string `json:"tags,omitempty"`
	NameTemplate string   `json:"name_template,omitempty"`
	Update       bool     `json:"update"`
	DryRun       bool     `json:"dry_run"`
}

func (s *Server) RunBackup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conn := s.Connections.Get(id)
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	var req backupRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	job, ctx := s.Jobs.Create(context.Background(), "backup", id)
	client := platform.NewClient(conn)

	go func() {
		job.AppendLog(fmt.Sprintf("Backing up %s (%s)", conn.Name, conn.BaseURL()))
		err := client.Login()
		if err == nil {
			err = tasks.Backup(ctx, client, s.DataDir, conn.NodeDir, req.Tags, job.AppendLog)
		}
		if err != nil {
			job.AppendLog("ERROR: " + err.Error())
			job.Fail(err.Error())
			s.Log.Warn("backup failed", zap.String("connection", conn.Name), zap.Error(err))
			return
		}
		job.Complete()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}

func (s *Server) RunRestore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	conn := s.Connections.Get(id)
	if conn == nil {
		writeError(w, http.StatusNotFound, "connection not found")
		return
	}
	var req restoreRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}
	opts := tasks.RestoreOptions{
		Tags:         req.Tags,
		NameTemplate: req.NameTemplate,
		Update:       req.Update,
		DryRun:       req.DryRun,
	}

	job, ctx := s.Jobs.Create(context.Background(), "restore", id)
	client := platform.NewClient(conn)

	go func() {
		job.AppendLog(fmt.Sprintf("Restoring to %s (%s)", conn.Name, conn.BaseURL()))
		err := client.Login()
		if err == nil {
			err = tasks.Restore(ctx, client, s.DataDir, conn.NodeDir, opts, job.AppendLog)
		}
		if err != nil {
			job.AppendLog("ERROR: " + err.Error())
			job.Fail(err.Error())
			s.Log.Warn("restore failed", zap.String("connection", conn.Name), zap.Error(err))
			return
		}
		job.Complete()
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID})
}
