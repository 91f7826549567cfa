// Package tasks implements the backup and restore workflows on top of
// the model layer and the controller client.
package tasks

import (
	"github.com/tpimenta/sdwan-vault/internal/models"
)

// API is the controller surface the workflows need. platform.Client
// satisfies it.
type API interface {
	models.RestAPI
	Post(path string, payload any) (any, error)
	Put(path, id string, payload any) (any, error)
	ServerVersion() (string, error)
}

// Logger receives human-readable progress lines from a running task.
type Logger func(string)

// selected reports whether a catalog tag was requested. An empty tag
// list selects everything.
func selected(tags []string, tag string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
