package models

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Connection represents a user-configured SD-WAN controller (vManage)
// instance.
type Connection struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	Tenant   string `json:"tenant,omitempty"` // multi-tenant deployments
	Insecure bool   `json:"insecure"`         // skip TLS verification
	Version  string `json:"version,omitempty"`

	// NodeDir is the directory under the data store root holding
	// backups for this controller. Defaults to a sanitized host name.
	NodeDir string `json:"node_dir"`
}

// BaseURL returns the full base URL for this connection.
func (c *Connection) BaseURL() string {
	return fmt.Sprintf("https://%s:%d", c.Host, c.Port)
}

// ConnectionStore is an in-memory thread-safe store for connections.
type ConnectionStore struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewConnectionStore creates an empty connection store.
func NewConnectionStore() *ConnectionStore {
	return &ConnectionStore{conns: make(map[string]*Connection)}
}

// Create adds a new connection, assigning it a UUID and defaulting its
// node directory from the host name.
func (s *ConnectionStore) Create(c *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New().String()
	if c.NodeDir == "" {
		c.NodeDir = FilenameSafe(c.Host, true)
	}
	s.conns[c.ID] = c
}

// Get returns a connection by ID, or nil if not found.
func (s *ConnectionStore) Get(id string) *Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[id]
}

// List returns all connections.
func (s *ConnectionStore) List() []*Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		result = append(result, c)
	}
	return result
}

// SetVersion records the controller version discovered for a
// connection.
func (s *ConnectionStore) SetVersion(id, version string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conns[id]; ok {
		c.Version = version
	}
}

// Delete removes a connection by ID.
func (s *ConnectionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[id]; !ok {
		return false
	}
	delete(s.conns, id)
	return true
}
