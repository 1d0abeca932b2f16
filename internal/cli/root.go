package cli

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todoclient/internal/api"
	"todoclient/internal/config"
	"todoclient/internal/controller"
	"todoclient/internal/logging"
	"todoclient/internal/ui"
)

const requestTimeout = 10 * time.Second

type App struct {
	ConfigPath string
	APIURL     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Todo list client",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Run the reference store locally
  todo serve --addr :3001

  # Scriptable commands
  todo add Buy milk
  todo list
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $TODO_CONFIG or ~/.config/todo/config.toml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Base URL of the todo store (overrides api_url and $TODO_API_URL)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRemoveCmd(app))

	return cmd
}

func (app *App) loadConfig() (config.Config, error) {
	path := app.ConfigPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if app.APIURL != "" {
		cfg.APIURL = app.APIURL
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*api.Client, error) {
	return api.New(cfg.APIURL, &http.Client{Timeout: requestTimeout})
}

func runTUI(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	log.Debug("starting tui", "api_url", cfg.APIURL)
	ctrl := controller.New(cmd.Context(), client, log)
	return ui.Run(ctrl, cfg.Keys)
}

// stderrLogger logs to the command's stderr at debug level when TODO_DEBUG
// is set and discards otherwise.
func stderrLogger(cmd *cobra.Command) *slog.Logger {
	if !logging.DebugEnabled() {
		return logging.Discard()
	}
	return logging.New(cmd.ErrOrStderr(), slog.LevelDebug)
}
