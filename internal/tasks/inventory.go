package tasks

import (
	"fmt"

	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

// InventoryRow is one item summarized from a local backup.
type InventoryRow struct {
	Tag   string `json:"tag"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Extra []any  `json:"extra,omitempty"` // extended index fields, nil-padded
}

// Inventory lists every item recorded in the local backup under
// nodeDir, in catalog order.
func Inventory(root, nodeDir string, tags []string) ([]InventoryRow, error) {
	var rows []InventoryRow
	for _, entry := range catalog.Entries() {
		if !selected(tags, entry.Tag) {
			continue
		}
		index, err := models.LoadIndex(entry.Index, root, nodeDir, models.LoadOptions{})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Tag, err)
		}
		if index == nil {
			continue
		}
		for _, projected := range index.ExtendedIter() {
			row := InventoryRow{Tag: entry.Tag}
			if len(projected) > 0 {
				row.ID, _ = projected[0].(string)
			}
			if len(projected) > 1 {
				row.Name, _ = projected[1].(string)
			}
			if len(projected) > 2 {
				row.Extra = projected[2:]
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
