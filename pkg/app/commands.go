package app

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/rdb"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Command builds the root command with every subcommand attached.
func (a *Application) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront API server and database tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		// Plain `storefront` serves.
		RunE: func(cmd *cobra.Command, _ []string) error { return a.serve(cmd) },
	}

	root.AddCommand(
		&cobra.Command{
			Use:     "serve",
			Aliases: []string{"start", "run"},
			Short:   "Start the HTTP server",
			RunE:    func(cmd *cobra.Command, _ []string) error { return a.serve(cmd) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run all pending database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(func() error {
					n, err := migration.New(database.DB, cmd.OutOrStdout()).Up()
					if err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:     "migrate:rollback",
			Aliases: []string{"migrate:down"},
			Short:   "Roll back the last batch of migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(func() error {
					_, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
					if errors.Is(err, migration.ErrNothingToRollback) {
						fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
						return nil
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "migrate:status",
			Short: "Show which migrations have run",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(func() error {
					_, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Fill the database with sample data",
			RunE: func(cmd *cobra.Command, _ []string) error {
				if a.seed == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "no seeders registered")
					return nil
				}
				return withDB(func() error {
					n, err := a.seed(database.DB, cmd.OutOrStdout())
					if err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%d seeder(s) ran\n", n)
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:     "route:list",
			Aliases: []string{"routes"},
			Short:   "List the named routes",
			RunE:    func(cmd *cobra.Command, _ []string) error { return a.routeList(cmd) },
		},
	)
	return root
}

// withDB loads config, connects, runs fn and closes the connection.
func withDB(fn func() error) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close() //nolint:errcheck
	return fn()
}

func (a *Application) serve(cmd *cobra.Command) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Setup()
	defer logger.Close()

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rdb.Connect(ctx); err != nil && !errors.Is(err, rdb.ErrDisabled) {
		// The limiter falls back to memory; the API keeps serving.
		logger.Warn("redis unavailable", "error", err)
	}
	defer rdb.Close() //nolint:errcheck

	handler, cleanup := a.buildHandler(database.DB)
	defer cleanup()

	return server.Run(ctx, server.Options{
		Addr:            ":" + config.AppPort(),
		Handler:         handler,
		ShutdownTimeout: config.ShutdownTimeout(),
	})
}

func (a *Application) routeList(cmd *cobra.Command) error {
	r := router.New()
	for _, fn := range a.routes {
		fn(r, nil)
	}

	infos := r.Routes()
	if len(infos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no named routes registered")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
