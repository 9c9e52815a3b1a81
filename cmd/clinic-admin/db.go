package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Killzin1000/quality-estetica2/internal/bootstrap"
	"github.com/Killzin1000/quality-estetica2/internal/devseed"
	"github.com/Killzin1000/quality-estetica2/internal/migrate"
)

const defaultMigrationTimeout = 5 * time.Minute

func migrateCmd(cmdCtx *commandContext) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				cmdCtx.Logger.Info("running database migrations")
				if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
					return err
				}
				cmdCtx.Logger.Info("migrations completed successfully")
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "Maximum time to wait for migrations")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show which embedded migrations are applied",
		RunE: func(c *cobra.Command, _ []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				statuses, err := migrate.List(ctx, db)
				if err != nil {
					return err
				}
				return printMigrationStatus(c.OutOrStdout(), statuses)
			})
		},
	}
	cmd.AddCommand(statusCmd)
	return cmd
}

func printMigrationStatus(w io.Writer, statuses []migrate.Status) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "VERSION\tAPPLIED\n"); err != nil {
		return err
	}
	for _, s := range statuses {
		applied := "no"
		if s.Applied {
			applied = "yes"
		}
		if err := writef(tw, "%s\t%s\n", s.Version, applied); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

func dbResetCmd(cmdCtx *commandContext) *cobra.Command {
	var opts dbResetOptions
	cmd := &cobra.Command{
		Use:   "db-reset",
		Short: "Drop the database schema, run migrations, and optionally seed demo data",
		RunE: func(c *cobra.Command, _ []string) error {
			return runDBReset(cmdCtx, c, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum time for the reset")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "Skip the confirmation prompt (ignored for remote hosts)")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "Seed demo data after migrating")
	cmd.Flags().BoolVar(&opts.AllowRemote, "allow-remote", false, "Allow running against a non-local database host")
	return cmd
}

func runDBReset(cmdCtx *commandContext, c *cobra.Command, opts dbResetOptions) error {
	target := fmt.Sprintf(
		"database %q on %s:%d",
		cmdCtx.Config.Postgres.Name,
		cmdCtx.Config.Postgres.Host,
		cmdCtx.Config.Postgres.Port,
	)

	remote, err := guardRemoteHost(cmdCtx, c, opts.AllowRemote, "drop and recreate the public schema")
	if err != nil {
		return err
	}

	// Remote hosts always get the prompt, even with --yes.
	if !opts.Yes || remote {
		if err := confirmAction(c, "reset database schema", target); err != nil {
			return err
		}
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("dropping public schema", "database", cmdCtx.Config.Postgres.Name)
		if resetErr := resetDatabase(ctx, cmdCtx, db); resetErr != nil {
			return resetErr
		}

		cmdCtx.Logger.Info("re-running database migrations")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		if opts.Seed {
			cmdCtx.Logger.Info("seeding demo data after reset")
			svcs := devseed.NewServices(db, cmdCtx.Config.Clinic.Location())
			if seedErr := devseed.Run(ctx, svcs, cmdCtx.Logger); seedErr != nil {
				return fmt.Errorf("seed data: %w", seedErr)
			}
		}

		cmdCtx.Logger.Info("database reset completed successfully")
		return nil
	})
}

func seedCmd(cmdCtx *commandContext) *cobra.Command {
	var (
		timeout     time.Duration
		allowRemote bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run migrations and load demo patients, products, records and appointments",
		RunE: func(c *cobra.Command, _ []string) error {
			if _, err := guardRemoteHost(cmdCtx, c, allowRemote, "seed demo data on the configured database"); err != nil {
				return err
			}
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				cmdCtx.Logger.Info("ensuring database migrations are current")
				if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
				cmdCtx.Logger.Info("seeding demo data")
				if err := devseed.Run(ctx, devseed.NewServices(db, cmdCtx.Config.Clinic.Location()), cmdCtx.Logger); err != nil {
					return fmt.Errorf("seed data: %w", err)
				}
				cmdCtx.Logger.Info("database seeding completed successfully")
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "Maximum time for seeding")
	cmd.Flags().BoolVar(&allowRemote, "allow-remote", false, "Allow running against a non-local database host")
	return cmd
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	if timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(ctx, bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func guardRemoteHost(cmdCtx *commandContext, c *cobra.Command, allow bool, action string) (bool, error) {
	host := cmdCtx.Config.Postgres.Host
	if !isLikelyRemoteHost(host) {
		return false, nil
	}
	if !allow {
		return true, fmt.Errorf(
			"refusing to run against potentially remote database host %q; re-run with --allow-remote if this is intentional",
			host,
		)
	}
	if err := requireRemoteHostConfirmation(c, action, host); err != nil {
		return true, err
	}
	return true, nil
}

func resetDatabase(ctx context.Context, cmdCtx *commandContext, db *sql.DB) error {
	statements := []string{
		"DROP SCHEMA public CASCADE",
		"CREATE SCHEMA public",
		"GRANT ALL ON SCHEMA public TO public",
	}
	if user := strings.TrimSpace(cmdCtx.Config.Postgres.User); user != "" && !strings.EqualFold(user, "public") {
		statements = append(statements, "GRANT ALL ON SCHEMA public TO "+quoteIdentifier(user))
	}

	for _, stmt := range statements {
		cmdCtx.Logger.DebugContext(ctx, "executing reset statement", "sql", stmt)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

func quoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isLikelyRemoteHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "" {
		return false
	}
	if h == "localhost" || h == "127.0.0.1" || h == "::1" {
		return false
	}
	if strings.HasSuffix(h, ".local") {
		return false
	}
	if ip := net.ParseIP(h); ip != nil {
		return !ip.IsLoopback()
	}
	return true
}

func requireRemoteHostConfirmation(c *cobra.Command, action, host string) error {
	errOut := c.ErrOrStderr()
	if err := writef(errOut,
		"\nWARNING: database host %q does not look like a local address.\nThis operation will %s.\n",
		host, action,
	); err != nil {
		return fmt.Errorf("print remote host warning: %w", err)
	}
	if err := writef(errOut, "Type %q to continue or press enter to abort: ", host); err != nil {
		return fmt.Errorf("print remote host prompt: %w", err)
	}
	resp, err := bufio.NewReader(c.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if strings.TrimSpace(resp) != host {
		return errors.New("aborted by user")
	}
	return nil
}

func confirmAction(c *cobra.Command, actionType, target string) error {
	out := c.OutOrStdout()
	if err := writef(out, "About to %s for %s.\nContinue? [y/N]: ", actionType, target); err != nil {
		return fmt.Errorf("print confirmation prompt: %w", err)
	}
	resp, err := bufio.NewReader(c.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	resp = strings.ToLower(strings.TrimSpace(resp))
	if resp == "y" || resp == "yes" {
		return nil
	}
	return errors.New("aborted by user")
}
