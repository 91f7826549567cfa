package models

import "testing"

func TestStringField(t *testing.T) {
	obj := map[string]any{
		"name":  "hello",
		"count": 42,
		"empty": nil,
	}
	if got := stringField(obj, "name"); got != "hello" {
		t.Errorf("stringField(name) = %q, want %q", got, "hello")
	}
	if got := stringField(obj, "count"); got != "" {
		t.Errorf("stringField(count) = %q, want empty", got)
	}
	if got := stringField(obj, "missing"); got != "" {
		t.Errorf("stringField(missing) = %q, want empty", got)
	}
}

func TestBoolField(t *testing.T) {
	obj := map[string]any{
		"enabled":  true,
		"disabled": false,
		"name":     "test",
	}
	if got := boolField(obj, "enabled"); !got {
		t.Error("boolField(enabled) = false, want true")
	}
	if got := boolField(obj, "disabled"); got {
		t.Error("boolField(disabled) = true, want false")
	}
	if got := boolField(obj, "missing"); got {
		t.Error("boolField(missing) = true, want false")
	}
	if got := boolField(obj, "name"); got {
		t.Error("boolField(name) = true, want false (wrong type)")
	}
}
