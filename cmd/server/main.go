package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mergington/activities-api/internal/config"
	"github.com/mergington/activities-api/internal/server"
	"github.com/mergington/activities-api/pkg/core/attendance"
	"github.com/mergington/activities-api/pkg/core/calendar"
	"github.com/mergington/activities-api/pkg/core/roster"
	"github.com/mergington/activities-api/pkg/core/services"
	"github.com/mergington/activities-api/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	roster     *roster.Store
	attendance *attendance.Tracker
	events     *calendar.Store
}

var (
	env   string
	debug bool
	app   *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "activities-api",
		Short: "Mergington High School activities API",
		Long:  `An in-memory API server for extracurricular activity rosters, attendance tracking and calendar scheduling.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "dev", "Environment name used for config and log files")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging on the console")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the in-memory stores
func initApp() error {
	var err error
	app = &App{}

	app.logger, err = logging.InitLogger(env, debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded", zap.String("addr", app.cfg.Addr()))

	seed := roster.DefaultSeed()
	if app.cfg.RosterFile != "" {
		app.logger.Info("Loading roster seed", zap.String("file", app.cfg.RosterFile))
		seed, err = roster.LoadSeed(app.cfg.RosterFile)
		if err != nil {
			return fmt.Errorf("failed to load roster seed: %w", err)
		}
	}
	app.roster = roster.New(seed)
	app.attendance = attendance.NewTracker(app.roster)
	app.events = calendar.NewStore(app.roster)
	app.logger.Info("Stores initialized", zap.Int("activities", len(seed)))

	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(app.cfg, app.logger, app.roster, app.attendance, app.events)
			return srv.Start()
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored calendar as an iCalendar document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, _ := cmd.Flags().GetString("activity")
			email, _ := cmd.Flags().GetString("email")

			payload := services.ExportCalendar(app.events, app.roster, app.logger, services.EventFilter{
				Activity: activity,
				Email:    email,
			})
			fmt.Print(payload)
			return nil
		},
	}

	cmd.Flags().String("activity", "", "Only export events of this activity")
	cmd.Flags().String("email", "", "Only export events visible to this student")

	return cmd
}
