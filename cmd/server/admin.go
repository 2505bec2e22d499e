package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/notes-news/internal/auth"
	"github.com/sakif/notes-news/internal/server"
	"github.com/sakif/notes-news/internal/service"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a password account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := server.OpenStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			tokens, err := auth.NewTokenService(a.cfg.Auth.JWTSecret, a.cfg.Auth.SessionTTL)
			if err != nil {
				return err
			}
			svc := service.NewAuthService(store.Users(), tokens, auth.NewPasswordService(a.cfg.Auth.BcryptCost), a.logger)

			user, err := svc.CreateUser(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&username, "username", "", "login name")
	create.Flags().StringVar(&password, "password", "", "password")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newNewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Manage news items",
	}

	var title, text, date string
	add := &cobra.Command{
		Use:   "add",
		Short: "Publish a news item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				var err error
				day, err = time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}

			store, err := server.OpenStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := service.NewNewsService(store.News(), store.Comments(), service.NewsServiceConfig{Logger: a.logger})
			news, err := svc.Create(cmd.Context(), title, text, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published news %s dated %s\n", news.ID, news.Date.Format(time.DateOnly))
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "headline")
	add.Flags().StringVar(&text, "text", "", "body")
	add.Flags().StringVar(&date, "date", "", "publication date, YYYY-MM-DD (default today)")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("text")

	cmd.AddCommand(add)
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := server.OpenStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "users:    %d\n", stats.Users)
			fmt.Fprintf(out, "notes:    %d\n", stats.Notes)
			fmt.Fprintf(out, "news:     %d\n", stats.News)
			fmt.Fprintf(out, "comments: %d\n", stats.Comments)
			return nil
		},
	}
}
