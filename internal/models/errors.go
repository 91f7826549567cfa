package models

import "fmt"

// NotFoundError indicates a stored item file was requested with strict
// loading and does not exist on disk.
type NotFoundError struct {
	Type string // item type name, e.g. "device_template"
	Name string // item display name, if known
	ID   string // item identifier, if known
}

func (e *NotFoundError) Error() string {
	if e.Name != "" && e.ID != "" {
		return fmt.Sprintf("%s file not found: %s, %s", e.Type, e.Name, e.ID)
	}
	return fmt.Sprintf("%s file not found", e.Type)
}

// InvalidFormatError indicates a stored file exists but does not contain
// valid JSON. Unlike NotFoundError it is never suppressed.
type InvalidFormatError struct {
	Path string
	Err  error
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid JSON file: %s: %v", e.Path, e.Err)
}

func (e *InvalidFormatError) Unwrap() error { return e.Err }

// TemplateError indicates a malformed rename template: no {name}
// placeholder, an inner regex without capturing groups, or an inner
// regex that does not compile.
type TemplateError struct {
	Msg string
}

func (e *TemplateError) Error() string { return e.Msg }

// MissingKeyError indicates a lookup on a ServerInfo record for a key
// that is not present.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("server info has no key %q", e.Key)
}
