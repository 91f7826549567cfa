package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tpimenta/sdwan-vault/internal/catalog"
	"github.com/tpimenta/sdwan-vault/internal/platform"
	"github.com/tpimenta/sdwan-vault/internal/tasks"
)

func newBackupCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Save controller configuration items to the local data store",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := resolveConnection()
			if err != nil {
				return err
			}
			client := platform.NewClient(conn)
			if err := client.Login(); err != nil {
				return fmt.Errorf("login to %s: %w", conn.Host, err)
			}
			return tasks.Backup(cmd.Context(), client, cfg.DataDir, conn.NodeDir, tags, func(line string) {
				fmt.Println(line)
			})
		},
	}

	addConnectionFlags(cmd)
	cmd.Flags().StringSliceVar(&tags, "tags", nil,
		"Catalog types to back up (default all): "+strings.Join(catalog.Tags(), ", "))
	return cmd
}
