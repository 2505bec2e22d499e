package main

import (
	"fmt"

	"github.com/go-chi/docgen"
	"github.com/spf13/cobra"

	"github.com/sakif/notes-news/internal/config"
	"github.com/sakif/notes-news/internal/server"
)

func newRoutesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the HTTP route table as Markdown or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the route table does not depend on the real database
			cfg := *a.cfg
			cfg.Database = config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}

			srv, err := server.New(cmd.Context(), &cfg, a.logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			if asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), docgen.JSONRoutesDoc(srv.Router()))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), docgen.MarkdownRoutesDoc(srv.Router(), docgen.MarkdownOpts{
				ProjectPath: "github.com/sakif/notes-news",
				Intro:       "Routes of the notes and news application.",
			}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of Markdown")
	return cmd
}
