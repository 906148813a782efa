package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/OwaisIslam/living-real/internal/app"
	types "github.com/OwaisIslam/living-real/internal/domain"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "living-real",
		Short:         "Property management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), checkConsistencyCmd(), watchEventsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp builds the app for one command and tears it down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			skipMigrate, _ := cmd.Flags().GetBool("skip-migrate")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if !skipMigrate {
					if err := a.Migrate(); err != nil {
						return fmt.Errorf("auto migrate: %w", err)
					}
				}
				return a.Run(ctx)
			})
		},
	}
	cmd.Flags().Bool("skip-migrate", false, "Do not run auto migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Migrate(); err != nil {
					return err
				}
				a.Log.Info("Migrations applied")
				return nil
			})
		},
	}
}

func checkConsistencyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-consistency",
		Short: "Report one-sided user/property occupancy references",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetString("as")
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.CheckConsistency(ctx, owner)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
				if !report.Consistent() {
					return fmt.Errorf("%d inconsistencies found", len(report.Issues))
				}
				return nil
			})
		},
	}
	cmd.Flags().String("as", "", "Email of the owner account to run the check as")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}

func watchEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch-events",
		Short: "Print occupancy events published on redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				return a.WatchEvents(ctx, func(evt types.OccupancyEvent) {
					_ = enc.Encode(evt)
				})
			})
		},
	}
}
