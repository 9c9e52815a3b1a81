package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Killzin1000/quality-estetica2/internal/adapters/passwordauth"
	domainauth "github.com/Killzin1000/quality-estetica2/internal/domain/auth"
	"github.com/Killzin1000/quality-estetica2/internal/data"
	apperrors "github.com/Killzin1000/quality-estetica2/internal/errors"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
	"github.com/Killzin1000/quality-estetica2/internal/service"
)

const defaultUserTimeout = 30 * time.Second

// withAdminUsers opens the database and the optional Redis infra, then hands f an
// AdminUserService that invalidates cached profiles and notifies live sessions.
func withAdminUsers(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(ctx context.Context, db *sql.DB, svc *service.AdminUserService) error,
) error {
	return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
		infra, err := connectSessionInfra(ctx, cmdCtx.Logger, &cmdCtx.Config.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := infra.Close(); cerr != nil {
				cmdCtx.Logger.Warn("redis close failed", "error", cerr)
			}
		}()
		svc := service.NewAdminUserService(service.AdminUserServiceOptions{
			Repo:   data.NewProfileRepo(db),
			Cache:  infra.Cache,
			Events: infra.Events,
			Logger: cmdCtx.Logger,
		})
		return f(ctx, db, svc)
	})
}

type createAdminOptions struct {
	Email    string
	Password string
	Name     string
	Timeout  time.Duration
}

func createAdminCmd(cmdCtx *commandContext) *cobra.Command {
	var opts createAdminOptions
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an active administrator, or promote an existing account",
		Long: "Registers the e-mail with the given password when it is new, then grants the admin role " +
			"with active status. For an existing account the password is replaced only when --password is set.",
		RunE: func(c *cobra.Command, _ []string) error {
			return withAdminUsers(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB, svc *service.AdminUserService) error {
				auth, err := passwordauth.New(db, passwordauth.Options{Cost: cmdCtx.Config.Auth.BcryptCost})
				if err != nil {
					return err
				}
				p, err := createAdmin(ctx, createAdminDeps{
					Profiles: data.NewProfileRepo(db),
					Auth:     auth,
					Users:    svc,
				}, opts)
				if err != nil {
					return err
				}
				return writef(c.OutOrStdout(), "admin ready: %s (%s)\n", p.Email, p.ID)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "E-mail of the administrator")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password for a new account, or a replacement for an existing one")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Full name shown in the dashboard")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultUserTimeout, "Maximum time for the command")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type profileLookup interface {
	GetByEmail(ctx context.Context, email string) (*domainauth.Profile, error)
}

type credentialWriter interface {
	Register(ctx context.Context, in ports.SignUpInput) (domainauth.Identity, error)
	SetPassword(ctx context.Context, userID, password string) error
}

type accessSetter interface {
	SetAccessByEmail(ctx context.Context, email string, upd domainauth.AccessUpdate) (*domainauth.Profile, error)
}

type createAdminDeps struct {
	Profiles profileLookup
	Auth     credentialWriter
	Users    accessSetter
}

func createAdmin(ctx context.Context, deps createAdminDeps, opts createAdminOptions) (*domainauth.Profile, error) {
	email, err := passwordauth.NormalizeEmail(opts.Email)
	if err != nil {
		return nil, err
	}

	existing, err := deps.Profiles.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if opts.Password != "" {
			if err := deps.Auth.SetPassword(ctx, existing.ID, opts.Password); err != nil {
				return nil, fmt.Errorf("set password: %w", err)
			}
		}
	case apperrors.IsNotFound(err):
		if opts.Password == "" {
			return nil, errors.New("--password is required for a new account")
		}
		if _, err := deps.Auth.Register(ctx, ports.SignUpInput{
			Email:    email,
			Password: opts.Password,
			FullName: opts.Name,
		}); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
	default:
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}

	return deps.Users.SetAccessByEmail(ctx, email, domainauth.AccessUpdate{
		Role:   domainauth.RoleAdmin,
		Status: domainauth.StatusActive,
	})
}

type setAccessOptions struct {
	Email       string
	Role        string
	Status      string
	Permissions string
	Timeout     time.Duration
}

func setAccessCmd(cmdCtx *commandContext) *cobra.Command {
	var opts setAccessOptions
	cmd := &cobra.Command{
		Use:   "set-access",
		Short: "Set the role, status and permissions of an account",
		RunE: func(c *cobra.Command, _ []string) error {
			upd, err := service.ParseAccessUpdate(opts.Role, opts.Status, splitList(opts.Permissions))
			if err != nil {
				return err
			}
			return withAdminUsers(cmdCtx, opts.Timeout, func(ctx context.Context, _ *sql.DB, svc *service.AdminUserService) error {
				p, err := svc.SetAccessByEmail(ctx, strings.TrimSpace(opts.Email), upd)
				if err != nil {
					return err
				}
				return writef(c.OutOrStdout(), "%s: %s, %s\n", p.Email, p.Access().String(), p.Status)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "E-mail of the account")
	cmd.Flags().StringVar(&opts.Role, "role", string(domainauth.RoleCollaborator), "admin or collaborator")
	cmd.Flags().StringVar(&opts.Status, "status", string(domainauth.StatusActive), "pending, active or blocked")
	cmd.Flags().StringVar(&opts.Permissions, "permissions", "", "Comma separated collaborator permissions")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultUserTimeout, "Maximum time for the command")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func listUsersCmd(cmdCtx *commandContext) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List every account with its access",
		RunE: func(c *cobra.Command, _ []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				profiles, err := data.NewProfileRepo(db).List(ctx)
				if err != nil {
					return err
				}
				return printProfiles(c.OutOrStdout(), profiles)
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultUserTimeout, "Maximum time for the command")
	return cmd
}

func printProfiles(w io.Writer, profiles []domainauth.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "EMAIL\tNAME\tSTATUS\tACCESS\tCREATED\n"); err != nil {
		return err
	}
	for _, p := range profiles {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Email, p.FullName, p.Status, p.Access().String(), p.CreatedAt.Format(time.DateOnly)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
