// Command clinic-admin runs operator tasks against the clinic database: migrations,
// development seeding and user access management.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Killzin1000/quality-estetica2/config"
	"github.com/Killzin1000/quality-estetica2/internal/bootstrap"
)

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

// configLoader is swapped in tests.
type configLoader func() (config.AppConfig, error)

func main() {
	root := newRootCmd(bootstrap.LoadConfig)
	if err := root.Execute(); err != nil {
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(load configLoader) *cobra.Command {
	cmdCtx := &commandContext{Ctx: context.Background()}

	root := &cobra.Command{
		Use:           "clinic-admin",
		Short:         "Operator tasks for the Quality Estética dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cmdCtx.Config = cfg
			cmdCtx.Logger = bootstrap.InitLogger(cfg.Observability)
			return nil
		},
	}

	root.AddCommand(
		migrateCmd(cmdCtx),
		dbResetCmd(cmdCtx),
		seedCmd(cmdCtx),
		createAdminCmd(cmdCtx),
		setAccessCmd(cmdCtx),
		listUsersCmd(cmdCtx),
	)
	return root
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
