package cli

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tpimenta/sdwan-vault/internal/api"
	"github.com/tpimenta/sdwan-vault/internal/models"
)

func newServeCmd() *cobra.Command {
	var listen string
	var dev bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var logger *zap.Logger
			var err error
			if dev {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			if err != nil {
				return err
			}
			defer logger.Sync()

			if listen == "" {
				listen = cfg.Listen
			}

			server := &api.Server{
				Connections: models.NewConnectionStore(),
				Jobs:        models.NewJobStore(),
				DataDir:     cfg.DataDir,
				Log:         logger,
			}
			for _, cc := range cfg.Controllers {
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
				server.Connections.Create(conn)
				logger.Info("loaded controller",
					zap.String("name", conn.Name),
					zap.String("url", conn.BaseURL()))
			}

			logger.Info("sdwan-vault listening", zap.String("addr", listen))
			return http.ListenAndServe(listen, api.NewRouter(server))
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Verbose development logging")
	return cmd
}
