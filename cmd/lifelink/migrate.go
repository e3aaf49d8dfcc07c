package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"lifelink.org/internal/migrate"
)

type migrateFlags struct {
	dsn     string
	dir     string
	timeout time.Duration
}

func newMigrateCmd(root *rootFlags) *cobra.Command {
	flags := &migrateFlags{}
	cmd := &cobra.Command{
		Use:       "migrate [up|down|seed|status]",
		Short:     "Manage the Postgres dashboard catalog",
		Long:      "Applies the embedded catalog schema and demo seed, or the SQL under --dir (sql/ and seeds/).",
		ValidArgs: []string{"up", "down", "seed", "status"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dsn == "" {
				cfg, err := root.load()
				if err != nil {
					return err
				}
				flags.dsn = cfg.Postgres.DSN
			}
			if flags.dsn == "" {
				return errors.New("missing DSN: provide via --dsn or LIFELINK_PG_DSN")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			db, err := sql.Open("pgx", flags.dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			mgr := migrate.ForCatalog(db)
			if flags.dir != "" {
				mgr = migrate.NewManager(db, os.DirFS(flags.dir), "sql", "seeds")
			}
			return runMigrate(ctx, cmd, mgr, args[0])
		},
	}
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "PostgreSQL DSN (defaults to LIFELINK_PG_DSN)")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "read migrations from this directory instead of the embedded set")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "overall deadline")
	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command, mgr *migrate.Manager, action string) error {
	var err error
	switch action {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "seed":
		err = mgr.Seed(ctx)
	case "status":
		var history []string
		history, err = mgr.Status(ctx)
		for _, item := range history {
			fmt.Fprintln(cmd.OutOrStdout(), item)
		}
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", action, err)
	}
	return nil
}
