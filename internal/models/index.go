package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// IdName names the identifier and display-name fields of an index
// entry. A descriptor whose IterIDName is set projects entries as
// (id, name) pairs and triggers collision detection over the
// sanitized, lowercased names.
type IdName struct {
	ID   string
	Name string
}

// Index is an index-type item: a payload holding one summary entry per
// item of a given type. Construction unwraps the {"data": [...]}
// envelope the controller returns for listings.
type Index struct {
	Desc    *Descriptor
	Entries []map[string]any

	// NeedExtendedName reports that two or more entries collide on
	// their sanitized lowercase names, so consumers must disambiguate
	// filenames by appending the item identifier.
	NeedExtendedName bool
}

// NewIndex wraps a listing document. The document is either the raw
// entry sequence or an envelope object with the sequence under "data".
func NewIndex(desc *Descriptor, doc any) (*Index, error) {
	seq := doc
	if envelope, ok := doc.(map[string]any); ok {
		seq = envelope["data"]
	}

	var entries []map[string]any
	if seq != nil {
		list, ok := seq.([]any)
		if !ok {
			return nil, fmt.Errorf("%s index: payload is not a sequence", desc.TypeName)
		}
		entries = make([]map[string]any, 0, len(list))
		for _, elem := range list {
			entry, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s index: entry is not an object", desc.TypeName)
			}
			entries = append(entries, entry)
		}
	}

	x := &Index{Desc: desc, Entries: entries}
	if desc.IterIDName != nil {
		seen := make(map[string]bool, len(entries))
		for _, entry := range entries {
			name, ok := entry[desc.IterIDName.Name].(string)
			if !ok {
				return nil, fmt.Errorf("%s index: entry missing field %q", desc.TypeName, desc.IterIDName.Name)
			}
			seen[FilenameSafe(name, true)] = true
		}
		x.NeedExtendedName = len(seen) != len(entries)
	}
	return x, nil
}

// FetchIndexRaise retrieves a listing from the controller, propagating
// any API error.
func FetchIndexRaise(api RestAPI, desc *Descriptor, args ...string) (*Index, error) {
	doc, err := api.Get(desc.Path.Get, args...)
	if err != nil {
		return nil, err
	}
	return NewIndex(desc, doc)
}

// FetchIndex is FetchIndexRaise with API errors swallowed, yielding
// nil when the listing cannot be retrieved.
func FetchIndex(api RestAPI, desc *Descriptor, args ...string) *Index {
	index, err := FetchIndexRaise(api, desc, args...)
	if err != nil {
		return nil
	}
	return index
}

// BuildIndex assembles an index from a list of items, filling each
// configured iteration field from the item payload and falling back to
// idHints keyed by display name for fields the payload lacks.
func BuildIndex(desc *Descriptor, items []*Item, idHints map[string]string) (*Index, error) {
	entries := make([]any, 0, len(items))
	for _, item := range items {
		entry := make(map[string]any, len(desc.iterFieldNames()))
		for _, field := range desc.iterFieldNames() {
			if v, ok := item.Data[field]; ok {
				entry[field] = v
			} else if hint, ok := idHints[item.Name()]; ok {
				entry[field] = hint
			} else {
				entry[field] = nil
			}
		}
		entries = append(entries, entry)
	}
	return NewIndex(desc, map[string]any{"data": entries})
}

// iterFieldNames flattens the descriptor's index projection into a
// field name list.
func (d *Descriptor) iterFieldNames() []string {
	if d.IterIDName != nil {
		return []string{d.IterIDName.ID, d.IterIDName.Name}
	}
	return d.IterFields
}

// Iter projects the given fields from every entry, in order. It is
// strict: an entry missing one of the fields fails.
func (x *Index) Iter(fields ...string) ([][]any, error) {
	rows := make([][]any, 0, len(x.Entries))
	for _, entry := range x.Entries {
		row := make([]any, len(fields))
		for i, field := range fields {
			v, ok := entry[field]
			if !ok {
				return nil, fmt.Errorf("%s index: entry missing field %q", x.Desc.TypeName, field)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Pairs projects every entry to its (identifier, name) pair. It is
// only meaningful for descriptors with IterIDName set.
func (x *Index) Pairs() ([]IdName, error) {
	if x.Desc.IterIDName == nil {
		return nil, fmt.Errorf("%s index: no id/name projection configured", x.Desc.TypeName)
	}
	pairs := make([]IdName, 0, len(x.Entries))
	for _, entry := range x.Entries {
		id, idOK := entry[x.Desc.IterIDName.ID].(string)
		name, nameOK := entry[x.Desc.IterIDName.Name].(string)
		if !idOK || !nameOK {
			return nil, fmt.Errorf("%s index: entry missing id/name fields", x.Desc.TypeName)
		}
		pairs = append(pairs, IdName{ID: id, Name: name})
	}
	return pairs, nil
}

// ExtendedIter projects the combined iteration and extended fields
// from every entry. Unlike Iter it tolerates missing fields,
// substituting nil.
func (x *Index) ExtendedIter() [][]any {
	fields := append(append([]string{}, x.Desc.iterFieldNames()...), x.Desc.ExtendedFields...)
	rows := make([][]any, 0, len(x.Entries))
	for _, entry := range x.Entries {
		row := make([]any, len(fields))
		for i, field := range fields {
			row[i] = entry[field] // nil when absent
		}
		rows = append(rows, row)
	}
	return rows
}

// LoadIndex reconstructs an index from its stored JSON file, with the
// same missing-file and invalid-JSON semantics as LoadItem. Index
// files hold the bare entry sequence.
func LoadIndex(desc *Descriptor, root, nodeDir string, opts LoadOptions) (*Index, error) {
	filePath := filepath.Join(desc.storeDir(root, nodeDir), desc.Filename(opts.Extended, opts.ItemName, opts.ItemID))

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if opts.MustExist {
				return nil, &NotFoundError{Type: desc.TypeName, Name: opts.ItemName, ID: opts.ItemID}
			}
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", filePath, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &InvalidFormatError{Path: filePath, Err: err}
	}
	return NewIndex(desc, doc)
}

// Save writes the bare entry sequence as indented JSON to the index
// file under the node directory. It reports false, with no file
// created, when the index has no entries.
func (x *Index) Save(root, nodeDir string) (bool, error) {
	if len(x.Entries) == 0 {
		return false, nil
	}

	dir := x.Desc.storeDir(root, nodeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	out, err := json.MarshalIndent(x.Entries, "", "  ")
	if err != nil {
		return false, fmt.Errorf("serializing %s index: %w", x.Desc.TypeName, err)
	}

	filePath := filepath.Join(dir, x.Desc.Filename(false, "", ""))
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", filePath, err)
	}
	return true, nil
}
