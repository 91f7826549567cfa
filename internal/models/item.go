package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DataDir is the default top-level directory for the local data store.
const DataDir = "data"

// Default sentinel field names shared by most controller item types.
// A Descriptor overrides them only when an item type deviates.
const (
	defaultFactoryDefaultField = "factoryDefault"
	defaultReadOnlyField       = "readOnly"
	defaultOwnerField          = "owner"
	defaultInfoField           = "infoTag"
)

// Fields stripped from every create payload in addition to the item
// identifier and any descriptor-specific exclusions.
var createStripFields = []string{"@rid", "createdOn", "lastUpdatedOn"}

var nameCheckRE = regexp.MustCompile(`^[^&<>! "]{1,128}$`)

// Descriptor describes one controller item type: where it lives on the
// API, how to project its identity, and how it is stored on disk. All
// item operations are driven by a Descriptor value rather than by
// per-type code.
type Descriptor struct {
	TypeName string  // human-readable type label, used in errors
	Path     ApiPath // controller URL paths per verb

	IDField   string // payload field holding the item identifier, "" if none
	NameField string // payload field holding the display name, "" if none

	StoreSegments []string // directory segments under the node directory
	StoreFile     string   // filename template, {item_name}/{item_id} placeholders

	// Sentinel field overrides; empty means the shared default.
	FactoryDefaultField string
	ReadOnlyField       string
	OwnerField          string
	InfoField           string
	TypeField           string

	SkipCompare   []string // fields excluded from equality comparison
	CreateExclude []string // extra fields stripped from create payloads

	// Index projection. IterIDName marks an index type whose entries
	// project to (identifier, name) pairs, enabling extended-name
	// collision detection. IterFields covers plain projections, and
	// ExtendedFields supplements them for tolerant iteration.
	IterIDName     *IdName
	IterFields     []string
	ExtendedFields []string
}

func (d *Descriptor) factoryDefaultField() string {
	if d.FactoryDefaultField != "" {
		return d.FactoryDefaultField
	}
	return defaultFactoryDefaultField
}

func (d *Descriptor) readOnlyField() string {
	if d.ReadOnlyField != "" {
		return d.ReadOnlyField
	}
	return defaultReadOnlyField
}

func (d *Descriptor) ownerField() string {
	if d.OwnerField != "" {
		return d.OwnerField
	}
	return defaultOwnerField
}

func (d *Descriptor) infoField() string {
	if d.InfoField != "" {
		return d.InfoField
	}
	return defaultInfoField
}

// Filename computes the stored filename for an item. When both name
// and id are absent the template is assumed to need no substitution.
// An extended filename disambiguates colliding sanitized names by
// appending the item identifier.
func (d *Descriptor) Filename(extended bool, itemName, itemID string) string {
	if itemName == "" || itemID == "" {
		return d.StoreFile
	}
	safeName := FilenameSafe(itemName, false)
	if extended {
		safeName = safeName + "_" + itemID
	}
	return strings.NewReplacer("{item_name}", safeName, "{item_id}", itemID).Replace(d.StoreFile)
}

// storeDir resolves the directory holding this item type's files.
// An empty root means nodeDir is used as-is rather than under the
// data store root.
func (d *Descriptor) storeDir(root, nodeDir string) string {
	segments := make([]string, 0, len(d.StoreSegments)+2)
	if root != "" {
		segments = append(segments, root)
	}
	segments = append(segments, nodeDir)
	segments = append(segments, d.StoreSegments...)
	return filepath.Join(segments...)
}

// RestAPI is the remote controller collaborator. Get retrieves the
// JSON document at path, with args appended as extra URL segments.
type RestAPI interface {
	Get(path string, args ...string) (any, error)
}

// Item is the in-memory representation of one controller configuration
// object: an arbitrary JSON payload plus the Descriptor that gives it
// meaning. A nil payload means "no data".
type Item struct {
	Desc *Descriptor
	Data map[string]any
}

// NewItem wraps a payload with its descriptor.
func NewItem(desc *Descriptor, data map[string]any) *Item {
	return &Item{Desc: desc, Data: data}
}

// UUID returns the item identifier, or "" when the payload is absent
// or the type has no identifier field.
func (it *Item) UUID() string {
	if it.Desc.IDField == "" {
		return ""
	}
	s, _ := it.Data[it.Desc.IDField].(string)
	return s
}

// Name returns the item display name, or "" when the payload is absent
// or the type has no name field.
func (it *Item) Name() string {
	if it.Desc.NameField == "" {
		return ""
	}
	s, _ := it.Data[it.Desc.NameField].(string)
	return s
}

// IsEmpty reports whether the item carries no data.
func (it *Item) IsEmpty() bool {
	return it.Data == nil || len(it.Data) == 0
}

// Type returns the value of the descriptor's type field, if any.
func (it *Item) Type() string {
	if it.Desc.TypeField == "" {
		return ""
	}
	s, _ := it.Data[it.Desc.TypeField].(string)
	return s
}

// IsReadOnly reports whether the item is factory-default or read-only
// on the controller.
func (it *Item) IsReadOnly() bool {
	return boolField(it.Data, it.Desc.factoryDefaultField()) || boolField(it.Data, it.Desc.readOnlyField())
}

// IsSystemOwned reports whether the item is owned by the system rather
// than created by an operator.
func (it *Item) IsSystemOwned() bool {
	return stringField(it.Data, it.Desc.ownerField()) == "system" || stringField(it.Data, it.Desc.infoField()) == "aci"
}

// String renders the payload as indented JSON.
func (it *Item) String() string {
	out, err := json.MarshalIndent(it.Data, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

// FetchItemRaise retrieves an item from the controller, propagating
// any API error.
func FetchItemRaise(api RestAPI, desc *Descriptor, args ...string) (*Item, error) {
	doc, err := api.Get(desc.Path.Get, args...)
	if err != nil {
		return nil, err
	}
	data, _ := doc.(map[string]any)
	return NewItem(desc, data), nil
}

// FetchItem is FetchItemRaise with API errors swallowed: a failed
// fetch yields nil so callers can treat the item as absent.
func FetchItem(api RestAPI, desc *Descriptor, args ...string) *Item {
	item, err := FetchItemRaise(api, desc, args...)
	if err != nil {
		return nil
	}
	return item
}

// LoadOptions control how an item is reconstructed from disk.
type LoadOptions struct {
	Extended  bool   // use the identifier-suffixed filename
	ItemName  string // display name used to build the filename
	ItemID    string // identifier used to build the filename
	MustExist bool   // missing file becomes NotFoundError instead of nil
}

// LoadItem reconstructs an item from its stored JSON file. A missing
// file yields (nil, nil) unless opts.MustExist is set; a file that is
// not valid JSON always fails with InvalidFormatError.
func LoadItem(desc *Descriptor, root, nodeDir string, opts LoadOptions) (*Item, error) {
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

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &InvalidFormatError{Path: filePath, Err: err}
	}
	return NewItem(desc, data), nil
}

// Save writes the payload as indented JSON under the node directory,
// creating parent directories as needed and overwriting any existing
// file. It reports false, with no file created, when the item is
// empty.
func (it *Item) Save(root, nodeDir string, extended bool, itemName, itemID string) (bool, error) {
	if it.IsEmpty() {
		return false, nil
	}

	dir := it.Desc.storeDir(root, nodeDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating %s: %w", dir, err)
	}

	out, err := json.MarshalIndent(it.Data, "", "  ")
	if err != nil {
		return false, fmt.Errorf("serializing %s: %w", it.Desc.TypeName, err)
	}

	filePath := filepath.Join(dir, it.Desc.Filename(extended, itemName, itemID))
	if err := os.WriteFile(filePath, out, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", filePath, err)
	}
	return true, nil
}

// IsEqual compares this item's payload against another payload of the
// same type, ignoring the identifier field and the descriptor's
// compare-excluded fields. Comparison is over the sorted characters of
// the serialized payloads, a cheap canonicalization that tolerates key
// ordering differences but is weaker than structural equality.
func (it *Item) IsEqual(other map[string]any) bool {
	skip := make(map[string]bool, len(it.Desc.SkipCompare)+1)
	for _, field := range it.Desc.SkipCompare {
		skip[field] = true
	}
	if it.Desc.IDField != "" {
		skip[it.Desc.IDField] = true
	}

	return sortedJSON(it.Data, skip) == sortedJSON(other, skip)
}

func sortedJSON(data map[string]any, skip map[string]bool) string {
	cmp := make(map[string]any, len(data))
	for k, v := range data {
		if !skip[k] {
			cmp[k] = v
		}
	}
	raw, err := json.Marshal(cmp)
	if err != nil {
		return ""
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i] < raw[j] })
	return string(raw)
}

// CreatePayload builds the payload for creating this item on a
// controller: a copy of the stored payload with the identifier and
// volatile/excluded fields stripped, renamed to newName when given,
// and with identifier references rewritten through idMap.
func (it *Item) CreatePayload(idMap map[string]string, newName string) (map[string]any, error) {
	strip := map[string]bool{it.Desc.IDField: true}
	for _, field := range createStripFields {
		strip[field] = true
	}
	for _, field := range it.Desc.CreateExclude {
		strip[field] = true
	}

	out := make(map[string]any, len(it.Data))
	for k, v := range it.Data {
		if !strip[k] {
			out[k] = v
		}
	}
	if newName != "" {
		out[it.Desc.NameField] = newName
	}
	return rewriteIDMap(idMap, out)
}

// UpdatePayload builds the payload for updating this item in place:
// volatile fields are stripped but the identifier is retained, since
// update calls target a specific id.
func (it *Item) UpdatePayload(idMap map[string]string) (map[string]any, error) {
	strip := make(map[string]bool, len(createStripFields))
	for _, field := range createStripFields {
		strip[field] = true
	}

	out := make(map[string]any, len(it.Data))
	for k, v := range it.Data {
		if !strip[k] {
			out[k] = v
		}
	}
	return rewriteIDMap(idMap, out)
}

// IDReferences returns the set of all distinct identifiers referenced
// by this item's payload, excluding its own identifier field. Used by
// workflow collaborators to build dependency graphs.
func (it *Item) IDReferences() map[string]bool {
	filtered := make(map[string]any, len(it.Data))
	for k, v := range it.Data {
		if k != it.Desc.IDField {
			filtered[k] = v
		}
	}
	raw, err := json.Marshal(filtered)
	if err != nil {
		return nil
	}

	refs := make(map[string]bool)
	for _, match := range uuidRE.FindAll(raw, -1) {
		refs[string(match)] = true
	}
	return refs
}

// NewName derives a new name for this item from a rename template. The
// returned bool reports whether the derived name is valid: 1-128
// characters, none of & < > ! " or space. An invalid name is an
// expected, recoverable outcome rather than an error.
func (it *Item) NewName(template string) (string, bool, error) {
	newName, err := NewNameTemplate(template).Apply(it.Name())
	if err != nil {
		return "", false, err
	}
	return newName, nameCheckRE.MatchString(newName), nil
}

// FindValues returns every scalar value stored under key anywhere in
// the payload, searching the subtree rooted at fromKey when given.
// Matched values that are themselves objects or arrays are skipped.
func (it *Item) FindValues(key, fromKey string) []any {
	var matches []any

	var walk func(node any)
	walk = func(node any) {
		switch v := node.(type) {
		case map[string]any:
			if matched, ok := v[key]; ok && matched != nil && !isContainer(matched) {
				matches = append(matches, matched)
			}
			for _, child := range v {
				walk(child)
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}

	if fromKey != "" {
		walk(it.Data[fromKey])
	} else {
		walk(it.Data)
	}
	return matches
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
