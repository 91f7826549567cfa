package models

// stringField safely extracts a string field, returning "" if absent
// or of another type.
func stringField(obj map[string]any, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}

// boolField safely extracts a bool field, returning false if absent.
func boolField(obj map[string]any, field string) bool {
	if v, ok := obj[field].(bool); ok {
		return v
	}
	return false
}
