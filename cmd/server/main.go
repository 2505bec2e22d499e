// Command server runs the notes and news web application and its
// maintenance tasks:
//
//	server serve                 run the HTTP server (and the diag server)
//	server migrate [up|status]   apply or list database migrations
//	server routes [--json]       print the route table
//	server user create           add a password account
//	server news add              publish a news item
//	server stats                 print row counts
//
// Configuration comes from --config, CONFIG_PATH, ./local.yaml or the
// environment, in that order.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/notes-news/internal/config"
	"github.com/sakif/notes-news/internal/logging"
)

// app is the state shared by every subcommand once the root has loaded
// the configuration.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "server",
		Short:         "Notes and news web application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the YAML config file")

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newRoutesCmd(a),
		newUserCmd(a),
		newNewsCmd(a),
		newStatsCmd(a),
	)
	return root
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.SetupWriter(logOut, cfg.Log.Level)
	return nil
}
