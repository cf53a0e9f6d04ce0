package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"hearth/pkg/bus"
	"hearth/pkg/db"
	"hearth/pkg/render"
	"hearth/services/api/internal/config"
	"hearth/services/hearth"
	"hearth/services/notify"
)

const operatorActor = "hearthctl"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hearthctl",
		Short:         "Operator tooling for the hearth matching service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newAccessRequestsCommand())
	cmd.AddCommand(newCredentialsCommand())
	cmd.AddCommand(newAccountCommand())
	cmd.AddCommand(newAuditCommand())
	cmd.AddCommand(newNotifyCommand())
	return cmd
}

func groupCommand(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(children...)
	return cmd
}

// withService loads configuration, opens the database and hands fn a
// service with notifications disabled.
func withService(ctx context.Context, fn func(*hearth.Service) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	database, err := db.Open(ctx, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	store, err := hearth.NewStore(database)
	if err != nil {
		return err
	}
	engine, err := render.New()
	if err != nil {
		return err
	}
	svc, err := hearth.NewService(store, nil, engine, hearth.Config{AccessCodes: cfg.AccessCodes}, zerolog.Nop())
	if err != nil {
		return err
	}
	return fn(svc)
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.Migrate(cmd.Context(), cfg.DBDSN); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newAccessRequestsCommand() *cobra.Command {
	var format string

	list := &cobra.Command{
		Use:   "list",
		Short: "List waitlist entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *hearth.Service) error {
				entries, err := svc.ListAccessRequests(cmd.Context())
				if err != nil {
					return err
				}
				return writeAccessRequests(cmd.OutOrStdout(), format, entries)
			})
		},
	}
	list.Flags().StringVarP(&format, "output", "o", formatTable, "Output format: table, json or yaml")

	return groupCommand("access-requests", "Waitlist operations", list)
}

func newCredentialsCommand() *cobra.Command {
	var email, password string

	set := &cobra.Command{
		Use:   "set",
		Short: "Set a password and revoke its sessions, ahead of signup if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("HEARTH_PASSWORD")
			}
			return withService(cmd.Context(), func(svc *hearth.Service) error {
				if err := svc.ResetPassword(cmd.Context(), operatorActor, email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", email)
				return nil
			})
		},
	}
	set.Flags().StringVar(&email, "email", "", "Profile email")
	set.Flags().StringVar(&password, "password", "", "New password (defaults to $HEARTH_PASSWORD)")
	_ = set.MarkFlagRequired("email")

	return groupCommand("credentials", "Credential operations", set)
}

func newAccountCommand() *cobra.Command {
	var email string

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account with its activities and matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *hearth.Service) error {
				exists, err := svc.ProfileExists(cmd.Context(), email)
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("%w: profile %s", hearth.ErrNotFound, email)
				}
				if err := svc.DeleteAccount(cmd.Context(), email); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %s deleted\n", email)
				return nil
			})
		},
	}
	del.Flags().StringVar(&email, "email", "", "Profile email")
	_ = del.MarkFlagRequired("email")

	return groupCommand("account", "Account operations", del)
}

func newAuditCommand() *cobra.Command {
	var (
		actor  string
		limit  int
		format string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "Show recent audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(svc *hearth.Service) error {
				entries, err := svc.Store().AuditTrail(cmd.Context(), actor, limit)
				if err != nil {
					return err
				}
				return writeAudit(cmd.OutOrStdout(), format, entries)
			})
		},
	}
	list.Flags().StringVar(&actor, "actor", "", "Only entries written by this email")
	list.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")
	list.Flags().StringVarP(&format, "output", "o", formatTable, "Output format: table, json or yaml")

	return groupCommand("audit", "Audit trail", list)
}

func newNotifyCommand() *cobra.Command {
	var durable string

	relay := &cobra.Command{
		Use:   "relay",
		Short: "Forward bus notifications to the admin mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if cfg.NATSURL == "" {
				return errors.New("NATS_URL is required")
			}

			mailer, err := notify.NewMailNotifier(notify.MailConfig{
				Host:       cfg.SMTPHost,
				Port:       cfg.SMTPPort,
				Username:   cfg.SMTPUser,
				Password:   cfg.SMTPPassword,
				From:       cfg.SMTPFrom,
				AdminEmail: cfg.AdminEmail,
			})
			if err != nil {
				return err
			}

			b, err := bus.New(cfg.NATSURL)
			if err != nil {
				return fmt.Errorf("connect nats: %w", err)
			}
			defer b.Close()
			if err := b.EnsureStream(notify.StreamName, notify.SubjectWildcard); err != nil {
				return err
			}

			logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "relay").Logger()
			sub, err := notify.Relay(ctx, b, durable, mailer, logger)
			if err != nil {
				return err
			}
			defer sub.Close()

			logger.Info().Str("durable", durable).Msg("relaying notifications")
			<-ctx.Done()
			return nil
		},
	}
	relay.Flags().StringVar(&durable, "durable", "hearth-mailer", "JetStream durable consumer name")

	return groupCommand("notify", "Notification delivery", relay)
}
