package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ewanmcc/rostergen/internal/config"
	"github.com/ewanmcc/rostergen/pkg/core/services"
	"github.com/ewanmcc/rostergen/pkg/postgres"
	"github.com/ewanmcc/rostergen/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rostergen",
		Short: "Rostergen - generate staff rosters from availability",
		Long:  `A CLI tool for recording staff availability and generating shift rosters.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.logger != nil {
					app.logger.Sync()
				}
				if app.database != nil {
					app.database.Close()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(addAvailabilityCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(viewScheduleCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

func addAvailabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addAvailability <person> <date> <start> <end>",
		Short: "Record a person's free window on a date (date YYYY-MM-DD, times HH:MM)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := services.AddAvailability(app.ctx, app.database, app.logger, args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}

			fmt.Printf("\nAvailability recorded for %s on %s (%s-%s)\n",
				record.Person, record.Date, record.StartTime, record.EndTime)
			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <from> <to>",
		Short: "Generate a roster for the date range (dates YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid from date: %w", err)
			}
			to, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("invalid to date: %w", err)
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")

			result, err := services.GenerateSchedule(app.ctx, app.database, app.cfg, app.logger, from, to, dryRun, force)
			if err != nil {
				return err
			}

			fmt.Printf("\nRoster generated: %d shifts\n", result.Roster.ShiftCount)
			for _, shift := range result.Schedule.Shifts {
				people := "UNFILLED"
				if len(shift.AssignedPeople) > 0 {
					people = fmt.Sprintf("%v", shift.AssignedPeople)
				}
				fmt.Printf("  %s %s-%s  %s\n",
					shift.Date.Format("2006-01-02"),
					formatClock(shift.Start),
					formatClock(shift.End),
					people)
			}

			if result.Schedule.HasUnfilledShifts() {
				fmt.Println("\nWarning: some shifts could not be filled")
			}
			switch {
			case dryRun:
				fmt.Println("\nDry run: roster was not saved")
			case result.Committed:
				fmt.Printf("\nSaved roster %s\n", result.Roster.ID)
			default:
				fmt.Println("\nRoster was not saved (rerun with --force to save an incomplete roster)")
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("force", false, "Save the roster even if shifts are unfilled")

	return cmd
}

func viewScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "viewSchedule",
		Short: "Show the most recently generated roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := services.ViewSchedule(app.ctx, app.database, app.logger)
			if errors.Is(err, services.ErrNoRoster) {
				fmt.Println("No roster has been generated yet.")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("\nRoster %s (%s to %s), generated %s\n\n",
				view.Roster.ID, view.Roster.FromDate, view.Roster.ToDate, view.Roster.GeneratedAt)
			for _, shift := range view.Shifts {
				people := "UNFILLED"
				if len(shift.People) > 0 {
					people = fmt.Sprintf("%v", shift.People)
				}
				fmt.Printf("  %s %s-%s  %s\n", shift.Date, shift.StartTime, shift.EndTime, people)
			}

			if unfilled := view.Unfilled(); unfilled > 0 {
				fmt.Printf("\n%d shifts are below their staffing target\n", unfilled)
			}

			return nil
		},
	}
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
