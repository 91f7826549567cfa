package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tpimenta/sdwan-vault/internal/models"
	"github.com/tpimenta/sdwan-vault/internal/tasks"
)

func newListCmd() *cobra.Command {
	var tags []string
	var nodeDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items stored in a local backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			if nodeDir == "" {
				return fmt.Errorf("--node-dir is required")
			}
			if info, err := models.LoadServerInfo(cfg.DataDir, nodeDir); err != nil {
				return err
			} else if info != nil {
				if version, err := info.GetString("server_version"); err == nil {
					fmt.Printf("Backup of controller version %s\n", version)
				}
			}

			rows, err := tasks.Inventory(cfg.DataDir, nodeDir, tags)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tNAME\tID")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.Tag, row.Name, row.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&nodeDir, "node-dir", "", "Backup directory name under the data store")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Catalog types to list (default all)")
	return cmd
}
