package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/platform"
	"github.com/tpimenta/sdwan-vault/internal/tasks"
)

func newRestoreCmd() *cobra.Command {
	var opts tasks.RestoreOptions

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Re-create locally stored items on a controller",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := resolveConnection()
			if err != nil {
				return err
			}
			client := platform.NewClient(conn)
			if err := client.Login(); err != nil {
				return fmt.Errorf("login to %s: %w", conn.Host, err)
			}
			return tasks.Restore(cmd.Context(), client, cfg.DataDir, conn.NodeDir, opts, func(line string) {
				fmt.Println(line)
			})
		},
	}

	addConnectionFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil,
		"Catalog types to restore (default all): "+strings.Join(catalog.Tags(), ", "))
	cmd.Flags().StringVar(&opts.NameTemplate, "name", "",
		"Rename template, e.g. 'migrated_{name}' or '{name site1_(.*)}'")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "Update items that already exist on the target")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Log intended calls without changing the target")
	return cmd
}
