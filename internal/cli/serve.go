package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todoclient/internal/logging"
	"todoclient/internal/server"
	"todoclient/internal/storage"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference todo store over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if dbPath == "" {
				dbPath = cfg.Server.DBPath
			}

			log := logging.New(cmd.ErrOrStderr(), slog.LevelInfo)
			st, err := storage.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("opened store", "db", dbPath)
			return server.ListenAndServe(ctx, addr, server.NewHandler(st, log), log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config: :3001)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the sqlite database (default from config)")
	return cmd
}
