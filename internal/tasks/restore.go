package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

// RestoreOptions control a restore run.
type RestoreOptions struct {
	Tags         []string // catalog tags to restore; empty means all
	NameTemplate string   // optional {name [regex]} rename template
	Update       bool     // update items that already exist on the target
	DryRun       bool     // log intended calls without touching the target
}

// Restore re-creates locally stored items on the target controller, in
// dependency order. Identifiers assigned by the target are accumulated
// into an id mapping so references inside later items are rewritten to
// their new identities.
func Restore(ctx context.Context, api API, root, nodeDir string, opts RestoreOptions, logger Logger) error {
	logger("=== Restore from " + nodeDir + " ===")

	idMap := make(map[string]string)
	for _, entry := range catalog.Entries() {
		if !selected(opts.Tags, entry.Tag) {
			continue
		}
		if ctx.Err() != nil {
			logger("Restore cancelled")
			return ctx.Err()
		}
		if err := restoreType(api, root, nodeDir, entry, opts, idMap, logger); err != nil {
			return err
		}
	}

	logger("Restore complete")
	return nil
}

func restoreType(api API, root, nodeDir string, entry catalog.Entry, opts RestoreOptions, idMap map[string]string, logger Logger) error {
	index, err := models.LoadIndex(entry.Index, root, nodeDir, models.LoadOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Tag, err)
	}
	if index == nil {
		return nil // type not present in this backup
	}
	logger("Restoring " + entry.Tag + "...")

	// Existing items on the target, by name, so we can branch between
	// create and update.
	targetIDs := make(map[string]string)
	if targetIndex := models.FetchIndex(api, entry.Index); targetIndex != nil {
		pairs, err := targetIndex.Pairs()
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Tag, err)
		}
		for _, pair := range pairs {
			targetIDs[pair.Name] = pair.ID
		}
	}

	pairs, err := index.Pairs()
	if err != nil {
		return fmt.Errorf("%s: %w", entry.Tag, err)
	}
	for _, pair := range pairs {
		item, err := models.LoadItem(entry.Item, root, nodeDir, models.LoadOptions{
			Extended:  index.NeedExtendedName,
			ItemName:  pair.Name,
			ItemID:    pair.ID,
			MustExist: true,
		})
		if err != nil {
			var notFound *models.NotFoundError
			if errors.As(err, &notFound) {
				logger(fmt.Sprintf("  WARNING: %s %s not in backup, skipped", entry.Tag, pair.Name))
				continue
			}
			return fmt.Errorf("%s %s: %w", entry.Tag, pair.Name, err)
		}
		if item.IsReadOnly() || item.IsSystemOwned() {
			logger(fmt.Sprintf("  SKIP (read-only): %s", pair.Name))
			continue
		}

		targetName := pair.Name
		if opts.NameTemplate != "" {
			newName, valid, err := item.NewName(opts.NameTemplate)
			if err != nil {
				return fmt.Errorf("%s: %w", entry.Tag, err)
			}
			if !valid {
				logger(fmt.Sprintf("  SKIP (invalid new name %q): %s", newName, pair.Name))
				continue
			}
			targetName = newName
		}

		if targetID, exists := targetIDs[targetName]; exists {
			if err := updateItem(api, entry, item, pair, targetName, targetID, opts, idMap, logger); err != nil {
				return err
			}
			continue
		}
		if err := createItem(api, entry, item, pair, targetName, opts, idMap, logger); err != nil {
			return err
		}
	}
	return nil
}

func createItem(api API, entry catalog.Entry, item *models.Item, pair models.IdName, targetName string, opts RestoreOptions, idMap map[string]string, logger Logger) error {
	newName := ""
	if targetName != pair.Name {
		newName = targetName
	}
	payload, err := item.CreatePayload(idMap, newName)
	if err != nil {
		return fmt.Errorf("%s %s: %w", entry.Tag, pair.Name, err)
	}

	if opts.DryRun {
		// Mint a placeholder id so later items still get their
		// references rewritten consistently.
		idMap[pair.ID] = uuid.New().String()
		logger(fmt.Sprintf("  DRY-RUN create: %s", targetName))
		return nil
	}

	resp, err := api.Post(entry.Item.Path.Post, payload)
	if err != nil {
		logger(fmt.Sprintf("  FAIL: %s: %v", targetName, err))
		return nil
	}
	if obj, ok := resp.(map[string]any); ok {
		if newID, ok := obj[entry.Item.IDField].(string); ok {
			idMap[pair.ID] = newID
		}
	}
	logger(fmt.Sprintf("  CREATED: %s", targetName))
	return nil
}

func updateItem(api API, entry catalog.Entry, item *models.Item, pair models.IdName, targetName, targetID string, opts RestoreOptions, idMap map[string]string, logger Logger) error {
	idMap[pair.ID] = targetID

	if !opts.Update {
		logger(fmt.Sprintf("  SKIP (exists): %s", targetName))
		return nil
	}

	// Only push an update when the stored item actually differs from
	// what the target has.
	if remote, err := models.FetchItemRaise(api, entry.Item, targetID); err == nil && item.IsEqual(remote.Data) {
		logger(fmt.Sprintf("  SKIP (unchanged): %s", targetName))
		return nil
	}

	payload, err := item.UpdatePayload(idMap)
	if err != nil {
		return fmt.Errorf("%s %s: %w", entry.Tag, pair.Name, err)
	}
	payload[entry.Item.IDField] = targetID

	if opts.DryRun {
		logger(fmt.Sprintf("  DRY-RUN update: %s", targetName))
		return nil
	}

	resp, err := api.Put(entry.Item.Path.Put, targetID, payload)
	if err != nil {
		logger(fmt.Sprintf("  FAIL: %s: %v", targetName, err))
		return nil
	}
	status := models.NewUpdateStatus(resp)
	if status.NeedReattach() {
		logger(fmt.Sprintf("  UPDATED: %s (device templates need reattach)", targetName))
	} else if status.NeedReactivate() {
		logger(fmt.Sprintf("  UPDATED: %s (policy needs reactivation)", targetName))
	} else {
		logger(fmt.Sprintf("  UPDATED: %s", targetName))
	}
	return nil
}
