package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const serverInfoFile = "server_info.json"

// ServerInfo is an open-ended key-value record describing the
// controller node a backup was taken from, persisted directly under
// the node directory.
type ServerInfo struct {
	Data map[string]any
}

// NewServerInfo wraps a set of key-value pairs about the server.
func NewServerInfo(data map[string]any) *ServerInfo {
	if data == nil {
		data = make(map[string]any)
	}
	return &ServerInfo{Data: data}
}

// Get returns the value stored under key, failing with
// MissingKeyError when the key is absent or nil.
func (s *ServerInfo) Get(key string) (any, error) {
	v, ok := s.Data[key]
	if !ok || v == nil {
		return nil, &MissingKeyError{Key: key}
	}
	return v, nil
}

// GetString is Get for string-valued keys.
func (s *ServerInfo) GetString(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("server info key %q is not a string", key)
	}
	return str, nil
}

// LoadServerInfo reads the server info record from a node directory,
// returning (nil, nil) when no record exists.
func LoadServerInfo(root, nodeDir string) (*ServerInfo, error) {
	filePath := filepath.Join(root, nodeDir, serverInfoFile)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &InvalidFormatError{Path: filePath, Err: err}
	}
	return NewServerInfo(data), nil
}

// Save writes the record as indented JSON directly under the node
// directory, creating it as needed.
func (s *ServerInfo) Save(root, nodeDir string) (bool, error) {
	dir := filepath.Join(root, nodeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	out, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("serializing server info: %w", err)
	}

	filePath := filepath.Join(dir, serverInfoFile)
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", filePath, err)
	}
	return true, nil
}
