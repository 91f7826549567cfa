package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

// Backup saves the selected catalog types from the controller into the
// local data store under nodeDir. Types the controller does not serve
// are skipped rather than failing the whole run.
func Backup(ctx context.Context, api API, root, nodeDir string, tags []string, logger Logger) error {
	logger("=== Backup to " + nodeDir + " ===")

	if version, err := api.ServerVersion(); err == nil {
		info := models.NewServerInfo(map[string]any{
			"server_version": version,
			"collected_on":   time.Now().UTC().Format(time.RFC3339),
		})
		if _, err := info.Save(root, nodeDir); err != nil {
			return fmt.Errorf("saving server info: %w", err)
		}
		logger("Controller version: " + version)
	} else {
		logger(fmt.Sprintf("WARNING: could not read controller version: %v", err))
	}

	for _, entry := range catalog.Entries() {
		if !selected(tags, entry.Tag) {
			continue
		}
		if ctx.Err() != nil {
			logger("Backup cancelled")
			return ctx.Err()
		}
		if err := backupType(api, root, nodeDir, entry, logger); err != nil {
			return err
		}
	}

	logger("Backup complete")
	return nil
}

func backupType(api API, root, nodeDir string, entry catalog.Entry, logger Logger) error {
	logger("Saving " + entry.Tag + "...")

	index := models.FetchIndex(api, entry.Index)
	if index == nil {
		logger("  SKIP: " + entry.Tag + " not available on this controller")
		return nil
	}
	if _, err := index.Save(root, nodeDir); err != nil {
		return fmt.Errorf("%s: %w", entry.Tag, err)
	}

	pairs, err := index.Pairs()
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Tag, err)
	}

	saved := 0
	for _, pair := range pairs {
		item := models.FetchItem(api, entry.Item, pair.ID)
		if item == nil || item.IsEmpty() {
			logger(fmt.Sprintf("  WARNING: failed to fetch %s %s", entry.Tag, pair.Name))
			continue
		}
		ok, err := item.Save(root, nodeDir, index.NeedExtendedName, pair.Name, pair.ID)
		if err != nil {
			return fmt.Errorf("%s %s: %w", entry.Tag, pair.Name, err)
		}
		if ok {
			saved++
		}
	}
	logger(fmt.Sprintf("  %d/%d %s items saved", saved, len(pairs), entry.Tag))
	return nil
}
