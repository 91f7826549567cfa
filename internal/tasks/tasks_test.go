package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

const (
	siteListID  = "11111111-1111-1111-1111-111111111111"
	policyID    = "22222222-2222-2222-2222-222222222222"
	newSiteID   = "33333333-3333-3333-3333-333333333333"
	newPolicyID = "44444444-4444-4444-4444-444444444444"
)

type apiCall struct {
	path    string
	id      string
	payload map[string]any
}

// fakeAPI serves GET fixtures keyed by the joined request path and
// records mutations. Paths without a fixture fail, which the workflows
// treat as "not available".
type fakeAPI struct {
	docs     map[string]any
	version  string
	postResp map[string]any
	putResp  map[string]any
	posts    []apiCall
	puts     []apiCall
}

func (f *fakeAPI) Get(path string, args ...string) (any, error) {
	key := strings.Join(append([]string{path}, args...), "/")
	doc, ok := f.docs[key]
	if !ok {
		return nil, fmt.Errorf("no fixture for GET %s", key)
	}
	return doc, nil
}

func (f *fakeAPI) Post(path string, payload any) (any, error) {
	m, _ := payload.(map[string]any)
	f.posts = append(f.posts, apiCall{path: path, payload: m})
	return f.postResp[path], nil
}

func (f *fakeAPI) Put(path, id string, payload any) (any, error) {
	m, _ := payload.(map[string]any)
	f.puts = append(f.puts, apiCall{path: path, id: id, payload: m})
	return f.putResp[path], nil
}

func (f *fakeAPI) ServerVersion() (string, error) {
	if f.version == "" {
		return "", fmt.Errorf("about endpoint unavailable")
	}
	return f.version, nil
}

func discardLogger(string) {}

// collectLogger appends every progress line to lines.
func collectLogger(lines *[]string) Logger {
	return func(line string) { *lines = append(*lines, line) }
}

func TestBackup(t *testing.T) {
	root := t.TempDir()
	api := &fakeAPI{
		version: "20.9.3",
		docs: map[string]any{
			"policy/list/site": map[string]any{"data": []any{
				map[string]any{"listId": siteListID, "name": "Site10"},
			}},
			"policy/list/site/" + siteListID: map[string]any{
				"listId": siteListID,
				"name":   "Site10",
				"type":   "site",
			},
		},
	}

	var lines []string
	if err := Backup(context.Background(), api, root, "node1", nil, collectLogger(&lines)); err != nil {
		t.Fatalf("Backup returned error: %v", err)
	}

	// Server info, the index and the item all land on disk.
	info, err := models.LoadServerInfo(root, "node1")
	if err != nil || info == nil {
		t.Fatalf("server info = (%v, %v), want record", info, err)
	}
	if v, _ := info.GetString("server_version"); v != "20.9.3" {
		t.Errorf("server_version = %q, want 20.9.3", v)
	}

	index, err := models.LoadIndex(catalog.SiteListIndex, root, "node1", models.LoadOptions{})
	if err != nil || index == nil {
		t.Fatalf("site list index = (%v, %v), want index", index, err)
	}

	item, err := models.LoadItem(catalog.SiteList, root, "node1", models.LoadOptions{ItemName: "Site10", ItemID: siteListID})
	if err != nil || item == nil {
		t.Fatalf("site list item = (%v, %v), want item", item, err)
	}
	if item.Name() != "Site10" {
		t.Errorf("item name = %q, want Site10", item.Name())
	}

	// Types the controller does not serve are skipped, not fatal.
	skipped := 0
	for _, line := range lines {
		if strings.Contains(line, "SKIP") {
			skipped++
		}
	}
	if skipped != len(catalog.Entries())-1 {
		t.Errorf("skipped %d types, want %d", skipped, len(catalog.Entries())-1)
	}
}

func TestBackupCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	api := &fakeAPI{version: "20.9.3"}
	err := Backup(ctx, api, t.TempDir(), "node1", nil, discardLogger)
	if err != context.Canceled {
		t.Errorf("Backup error = %v, want context.Canceled", err)
	}
}

// seedBackup writes a backup containing one site list and one vsmart
// policy that references it.
func seedBackup(t *testing.T, root string) {
	t.Helper()

	siteIndex, err := models.NewIndex(catalog.SiteListIndex, []any{
		map[string]any{"listId": siteListID, "name": "Site10"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := siteIndex.Save(root, "node1"); err != nil {
		t.Fatal(err)
	}
	site := models.NewItem(catalog.SiteList, map[string]any{
		"listId": siteListID,
		"name":   "Site10",
		"type":   "site",
	})
	if _, err := site.Save(root, "node1", false, "Site10", siteListID); err != nil {
		t.Fatal(err)
	}

	policyIndex, err := models.NewIndex(catalog.VsmartPolicyIndex, []any{
		map[string]any{"policyId": policyID, "policyName": "Central1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := policyIndex.Save(root, "node1"); err != nil {
		t.Fatal(err)
	}
	policy := models.NewItem(catalog.VsmartPolicy, map[string]any{
		"policyId":         policyID,
		"policyName":       "Central1",
		"policyDefinition": "site list " + siteListID,
	})
	if _, err := policy.Save(root, "node1", false, "Central1", policyID); err != nil {
		t.Fatal(err)
	}
}

func TestRestoreCreatesAndRemapsReferences(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		postResp: map[string]any{
			"policy/list/site":       map[string]any{"listId": newSiteID},
			"template/policy/vsmart": map[string]any{"policyId": newPolicyID},
		},
	}

	err := Restore(context.Background(), api, root, "node1", RestoreOptions{}, discardLogger)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	if len(api.posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(api.posts))
	}

	// Site list is created first, without its stored identifier.
	sitePost := api.posts[0]
	if sitePost.path != "policy/list/site" {
		t.Errorf("first post path = %q", sitePost.path)
	}
	if _, ok := sitePost.payload["listId"]; ok {
		t.Error("create payload kept listId")
	}
	if sitePost.payload["name"] != "Site10" {
		t.Errorf("create payload name = %v", sitePost.payload["name"])
	}

	// The policy's reference to the site list is rewritten to the id
	// the target just assigned.
	policyPost := api.posts[1]
	if policyPost.path != "template/policy/vsmart" {
		t.Errorf("second post path = %q", policyPost.path)
	}
	if got := policyPost.payload["policyDefinition"]; got != "site list "+newSiteID {
		t.Errorf("policyDefinition = %v, want reference to %s", got, newSiteID)
	}
}

func TestRestoreSkipsExistingWithoutUpdate(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		docs: map[string]any{
			// Target already has the site list under a different id.
			"policy/list/site": map[string]any{"data": []any{
				map[string]any{"listId": newSiteID, "name": "Site10"},
			}},
		},
		postResp: map[string]any{
			"template/policy/vsmart": map[string]any{"policyId": newPolicyID},
		},
	}

	err := Restore(context.Background(), api, root, "node1", RestoreOptions{}, discardLogger)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	// The existing site list is not re-created, but its target id still
	// feeds reference rewriting for the policy.
	if len(api.posts) != 1 {
		t.Fatalf("posts = %d, want 1 (policy only)", len(api.posts))
	}
	if got := api.posts[0].payload["policyDefinition"]; got != "site list "+newSiteID {
		t.Errorf("policyDefinition = %v, want reference to %s", got, newSiteID)
	}
}

func TestRestoreUpdatesChangedItem(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		docs: map[string]any{
			"policy/list/site": map[string]any{"data": []any{
				map[string]any{"listId": newSiteID, "name": "Site10"},
			}},
			// Remote copy differs from the backup, so an update goes out.
			"policy/list/site/" + newSiteID: map[string]any{
				"listId": newSiteID,
				"name":   "Site10",
				"type":   "site",
				"color":  "gold",
			},
		},
		postResp: map[string]any{
			"template/policy/vsmart": map[string]any{"policyId": newPolicyID},
		},
	}

	err := Restore(context.Background(), api, root, "node1", RestoreOptions{Update: true}, discardLogger)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	if len(api.puts) != 1 {
		t.Fatalf("puts = %d, want 1", len(api.puts))
	}
	put := api.puts[0]
	if put.path != "policy/list/site" || put.id != newSiteID {
		t.Errorf("put = %s %s", put.path, put.id)
	}
	if put.payload["listId"] != newSiteID {
		t.Errorf("update payload listId = %v, want %s", put.payload["listId"], newSiteID)
	}
}

func TestRestoreSkipsUnchangedItem(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		docs: map[string]any{
			"policy/list/site": map[string]any{"data": []any{
				map[string]any{"listId": newSiteID, "name": "Site10"},
			}},
			// Remote copy matches the backup apart from its identifier.
			"policy/list/site/" + newSiteID: map[string]any{
				"listId": newSiteID,
				"name":   "Site10",
				"type":   "site",
			},
		},
		postResp: map[string]any{
			"template/policy/vsmart": map[string]any{"policyId": newPolicyID},
		},
	}

	err := Restore(context.Background(), api, root, "node1", RestoreOptions{Update: true}, discardLogger)
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if len(api.puts) != 0 {
		t.Errorf("puts = %d, want 0 for unchanged item", len(api.puts))
	}
}

func TestRestoreDryRun(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{}
	var lines []string
	err := Restore(context.Background(), api, root, "node1", RestoreOptions{DryRun: true}, collectLogger(&lines))
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if len(api.posts) != 0 || len(api.puts) != 0 {
		t.Errorf("dry run issued %d posts, %d puts", len(api.posts), len(api.puts))
	}

	creates := 0
	for _, line := range lines {
		if strings.Contains(line, "DRY-RUN create") {
			creates++
		}
	}
	if creates != 2 {
		t.Errorf("dry-run create lines = %d, want 2", creates)
	}
}

func TestRestoreRenamesWithTemplate(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		postResp: map[string]any{
			"policy/list/site":       map[string]any{"listId": newSiteID},
			"template/policy/vsmart": map[string]any{"policyId": newPolicyID},
		},
	}

	opts := RestoreOptions{NameTemplate: "restored_{name}"}
	if err := Restore(context.Background(), api, root, "node1", opts, discardLogger); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}

	if len(api.posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(api.posts))
	}
	if got := api.posts[0].payload["name"]; got != "restored_Site10" {
		t.Errorf("site list name = %v, want restored_Site10", got)
	}
	if got := api.posts[1].payload["policyName"]; got != "restored_Central1" {
		t.Errorf("policy name = %v, want restored_Central1", got)
	}
}

func TestRestoreTagFilter(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	api := &fakeAPI{
		postResp: map[string]any{
			"policy/list/site": map[string]any{"listId": newSiteID},
		},
	}

	opts := RestoreOptions{Tags: []string{"policy_list_site"}}
	if err := Restore(context.Background(), api, root, "node1", opts, discardLogger); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if len(api.posts) != 1 || api.posts[0].path != "policy/list/site" {
		t.Errorf("posts = %v, want site list only", api.posts)
	}
}

func TestInventory(t *testing.T) {
	root := t.TempDir()
	seedBackup(t, root)

	rows, err := Inventory(root, "node1", nil)
	if err != nil {
		t.Fatalf("Inventory returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	byTag := make(map[string]InventoryRow)
	for _, row := range rows {
		byTag[row.Tag] = row
	}
	if row := byTag["policy_list_site"]; row.ID != siteListID || row.Name != "Site10" {
		t.Errorf("site row = %+v", row)
	}
	if row := byTag["policy_vsmart"]; row.ID != policyID || row.Name != "Central1" {
		t.Errorf("policy row = %+v", row)
	}

	// A node directory without backups yields no rows.
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}
	rows, err = Inventory(root, "empty", nil)
	if err != nil {
		t.Fatalf("Inventory returned error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}
