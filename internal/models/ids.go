package models

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// uuidRE is the sole identifier shape recognized for reference
// rewriting and extraction: lowercase hex grouped 8-4-4-4-12.
var uuidRE = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// RewriteIDs replaces item identifier references inside doc according
// to idMap. The document is serialized to JSON, every UUID-shaped
// substring present as a key in idMap is replaced with its mapped
// value, and the result is parsed back. Matching is purely textual, so
// references embedded in free-text fields (e.g. descriptions) are
// rewritten as well; identifiers not present in idMap pass through
// unchanged.
func RewriteIDs(idMap map[string]string, doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing payload: %w", err)
	}

	rewritten := uuidRE.ReplaceAllFunc(raw, func(match []byte) []byte {
		if newID, ok := idMap[string(match)]; ok {
			return []byte(newID)
		}
		return match
	})

	var out any
	if err := json.Unmarshal(rewritten, &out); err != nil {
		return nil, fmt.Errorf("parsing rewritten payload: %w", err)
	}
	return out, nil
}

// rewriteIDMap is RewriteIDs restricted to mapping payloads.
func rewriteIDMap(idMap map[string]string, doc map[string]any) (map[string]any, error) {
	out, err := RewriteIDs(idMap, doc)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("rewritten payload is not an object")
	}
	return m, nil
}
