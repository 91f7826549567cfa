// Package cli implements the sdwan-vault command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tpimenta/sdwan-vault/internal/config"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

var (
	cfgFile string
	cfg     *config.Config

	// connection selection flags shared by backup/restore
	controllerName string
	hostFlag       string
	portFlag       int
	userFlag       string
	passwordFlag   string
	tenantFlag     string
	insecureFlag   bool
	nodeDirFlag    string
)

// NewRootCmd creates the top-level sdwan-vault CLI command with all
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sdwan-vault",
		Short: "Backup and restore automation for SD-WAN controllers",
		Long: `sdwan-vault saves configuration items (templates, policies) from a
vManage controller to a local data store and re-creates them, with
identifier remapping and renaming, on the same or another controller.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (YAML)")

	cmd.AddCommand(
		newBackupCmd(),
		newRestoreCmd(),
		newListCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return cmd
}

func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&controllerName, "controller", "", "Named controller from the config file")
	cmd.Flags().StringVar(&hostFlag, "host", "", "Controller host")
	cmd.Flags().IntVar(&portFlag, "port", 8443, "Controller port")
	cmd.Flags().StringVar(&userFlag, "user", "", "Controller username")
	cmd.Flags().StringVar(&passwordFlag, "password", "", "Controller password")
	cmd.Flags().StringVar(&tenantFlag, "tenant", "", "Tenant name (multi-tenant deployments)")
	cmd.Flags().BoolVar(&insecureFlag, "insecure", false, "Skip TLS certificate verification")
	cmd.Flags().StringVar(&nodeDirFlag, "node-dir", "", "Backup directory name under the data store")
}

// resolveConnection builds the target connection from the --controller
// config entry or the individual host flags.
func resolveConnection() (*models.Connection, error) {
	if controllerName != "" {
		for _, cc := range cfg.Controllers {
			if cc.Name == controllerName {
				conn := &models.Connection{
					Name:     cc.Name,
					Host:     cc.Host,
					Port:     cc.Port,
					Username: cc.Username,
					Password: cc.Password,
					Tenant:   cc.Tenant,
					Insecure: cc.Insecure,
					NodeDir:  cc.NodeDir,
				}
				applyNodeDir(conn)
				return conn, nil
			}
		}
		return nil, fmt.Errorf("controller %q not found in config", controllerName)
	}
	if hostFlag == "" {
		return nil, fmt.Errorf("either --controller or --host is required")
	}
	conn := &models.Connection{
		Name:     hostFlag,
		Host:     hostFlag,
		Port:     portFlag,
		Username: userFlag,
		Password: passwordFlag,
		Tenant:   tenantFlag,
		Insecure: insecureFlag,
	}
	applyNodeDir(conn)
	return conn, nil
}

func applyNodeDir(conn *models.Connection) {
	if nodeDirFlag != "" {
		conn.NodeDir = nodeDirFlag
	}
	if conn.NodeDir == "" {
		conn.NodeDir = models.FilenameSafe(conn.Host, true)
	}
}
