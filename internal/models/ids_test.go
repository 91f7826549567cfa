package models

import (
	"reflect"
	"testing"
)

const (
	idA = "11111111-1111-1111-1111-111111111111"
	idB = "22222222-2222-2222-2222-222222222222"
	idC = "33333333-3333-3333-3333-333333333333"
)

func TestRewriteIDsEmptyMappingIsIdentity(t *testing.T) {
	doc := map[string]any{
		"templateId": idA,
		"nested":     []any{map[string]any{"ref": idB}},
		"count":      float64(3),
	}
	got, err := RewriteIDs(map[string]string{}, doc)
	if err != nil {
		t.Fatalf("RewriteIDs returned error: %v", err)
	}
	if !reflect.DeepEqual(got, any(doc)) {
		t.Errorf("RewriteIDs({}, doc) = %v, want %v", got, doc)
	}
}

func TestRewriteIDsSubstitutes(t *testing.T) {
	doc := map[string]any{
		"ref":  idA,
		"desc": "references " + idB + " twice: " + idB,
		"keep": idC,
	}
	got, err := RewriteIDs(map[string]string{idA: idC, idB: idA}, doc)
	if err != nil {
		t.Fatalf("RewriteIDs returned error: %v", err)
	}
	obj := got.(map[string]any)
	if obj["ref"] != idC {
		t.Errorf("ref = %v, want %v", obj["ref"], idC)
	}
	if want := "references " + idA + " twice: " + idA; obj["desc"] != want {
		t.Errorf("desc = %v, want %v", obj["desc"], want)
	}
	// Unmapped ids pass through unchanged.
	if obj["keep"] != idC {
		t.Errorf("keep = %v, want %v", obj["keep"], idC)
	}
}

func TestRewriteIDsRoundTrip(t *testing.T) {
	doc := map[string]any{
		"ref":  idA,
		"desc": "uses " + idB,
		"list": []any{idA, idB},
	}
	forward := map[string]string{idA: idC, idB: idA}
	inverse := map[string]string{idC: idA, idA: idB}

	rewritten, err := RewriteIDs(forward, doc)
	if err != nil {
		t.Fatalf("forward RewriteIDs returned error: %v", err)
	}
	back, err := RewriteIDs(inverse, rewritten)
	if err != nil {
		t.Fatalf("inverse RewriteIDs returned error: %v", err)
	}
	if !reflect.DeepEqual(back, any(doc)) {
		t.Errorf("round trip = %v, want %v", back, doc)
	}
}

func TestRewriteIDsIgnoresUppercaseAndShortTokens(t *testing.T) {
	doc := map[string]any{
		"upper": "11111111-1111-1111-1111-11111111111A",
		"short": "11111111-1111-1111-1111",
	}
	got, err := RewriteIDs(map[string]string{idA: idB}, doc)
	if err != nil {
		t.Fatalf("RewriteIDs returned error: %v", err)
	}
	if !reflect.DeepEqual(got, any(doc)) {
		t.Errorf("non-UUID tokens were rewritten: %v", got)
	}
}

func TestIDReferences(t *testing.T) {
	desc := &Descriptor{TypeName: "thing", IDField: "thingId"}
	item := NewItem(desc, map[string]any{
		"thingId": idA, // own id must be excluded
		"ref":     idB,
		"desc":    "points at " + idC + " and " + idB,
	})

	refs := item.IDReferences()
	want := map[string]bool{idB: true, idC: true}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("IDReferences = %v, want %v", refs, want)
	}
}
