// Package cli provides the command-line interface for the gamma profiler.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gamma-profiler/internal/config"
	"gamma-profiler/internal/errors"
	"gamma-profiler/internal/feed"
	"gamma-profiler/internal/logging"
	"gamma-profiler/internal/resilience"
	"gamma-profiler/internal/store"
	"gamma-profiler/pkg/utils"
)

// Version information
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	// Source overrides the live CBOE feed. Nil means build one from config.
	Source feed.Source
	// Store is the run history. Opened on first use when nil.
	Store store.RunStore

	breaker *resilience.Breaker
}

// NewRootCmd creates the root command for the CLI. A nil cfg is loaded
// from --config (or the default location) before any command runs.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	return newRootCmd(&App{Config: cfg, Logger: logger})
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gex",
		Short: "Gamma exposure profiler for listed index options",
		Long: `gex estimates dealer gamma exposure from a delayed CBOE option chain.

It reports exposure by strike at the current spot, scans a band of
hypothetical spot levels under three expiry scenarios, and locates the
gamma flip where aggregate exposure changes sign.

Use 'gex analyze SPX' for a single underlying or 'gex batch' for the
configured watchlist.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/gamma-profiler/config.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addHistoryCommands(rootCmd, app)

	return rootCmd
}

func (app *App) setup(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")

	if app.Config == nil {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		app.Config = cfg

		level := cfg.Logging.Level
		if debug {
			level = "debug"
		}
		app.Logger = logging.NewLoggerWithConfig(logging.LogConfig{
			Level:      level,
			Console:    true,
			File:       cfg.Logging.File,
			FilePath:   cfg.Logging.Path,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
		})
		app.Logger.Debug().Str("config", cfg.Path).Msg("Configuration loaded")
	} else if debug {
		app.Logger = app.Logger.Level(zerolog.DebugLevel)
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), app.Logger))
	return nil
}

func (app *App) close() error {
	if app.Store == nil {
		return nil
	}
	err := app.Store.Close()
	app.Store = nil
	return err
}

// feed returns the live quote source.
func (app *App) feed() feed.Source {
	if app.Source != nil {
		return app.Source
	}
	fc := app.Config.Feed
	retry := utils.DefaultRetryConfig()
	retry.MaxAttempts = fc.MaxAttempts
	if fc.InitialDelay > 0 {
		retry.InitialDelay = fc.InitialDelay
	}
	logger := logging.WithOperation(app.Logger, "feed")
	breaker := resilience.NewBreaker("cboe", resilience.BreakerConfig{
		FailureThreshold: fc.BreakerThreshold,
		SuccessThreshold: 1,
		Cooldown:         fc.BreakerCooldown,
	})
	breaker.OnStateChange(func(name string, from, to resilience.State) {
		logger.Warn().Str("breaker", name).Str("from", string(from)).Str("to", string(to)).Msg("Feed circuit changed state")
	})
	app.breaker = breaker
	app.Source = feed.NewCBOEClient(fc.BaseURL, fc.Timeout,
		feed.WithRetry(retry),
		feed.WithBreaker(breaker),
		feed.WithLogger(logger),
	)
	return app.Source
}

// logFeedStats logs the circuit breaker counters of the live feed, if one
// was built.
func (app *App) logFeedStats(logger zerolog.Logger) {
	if app.breaker == nil {
		return
	}
	stats := app.breaker.Stats()
	if stats.TotalRequests == 0 {
		return
	}
	logger.Debug().
		Str("breaker", stats.Name).
		Str("state", string(stats.State)).
		Int64("requests", stats.TotalRequests).
		Int64("rejected", stats.TotalRejected).
		Float64("failure_rate", stats.FailureRate()).
		Msg("Feed statistics")
}

// history opens the run store. force opens it even when store.enabled is
// off, for explicit --save runs and the history command.
func (app *App) history(force bool) (store.RunStore, error) {
	if app.Store != nil {
		return app.Store, nil
	}
	if !app.Config.Store.Enabled && !force {
		return nil, errors.ErrStoreDisabled
	}
	s, err := store.NewSQLiteStore(app.Config.Store.Path)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug().Str("path", app.Config.Store.Path).Msg("Run history opened")
	app.Store = s
	return s, nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("gamma-profiler v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := app.Config.Path
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Model")
	output.Printf("  Move:            %g bps\n", cfg.Model.MoveBps)
	output.Printf("  Risk-free rate:  %g\n", cfg.Model.RiskFreeRate)
	output.Printf("  Dividend yield:  %g\n", cfg.Model.DividendYield)
	output.Println()

	output.Bold("Profile")
	output.Printf("  Levels:          %d\n", cfg.Profile.Levels)
	output.Printf("  Band:            ±%.0f%%\n", cfg.Profile.Band*100)
	output.Printf("  Workers:         %d\n", cfg.Profile.Workers)
	output.Println()

	output.Bold("Feed")
	output.Printf("  Base URL:        %s\n", cfg.Feed.BaseURL)
	output.Printf("  Timeout:         %s\n", cfg.Feed.Timeout)
	output.Printf("  Max attempts:    %d\n", cfg.Feed.MaxAttempts)
	output.Printf("  Breaker:         %d failures, %s cooldown\n", cfg.Feed.BreakerThreshold, cfg.Feed.BreakerCooldown)
	output.Println()

	output.Bold("Batch")
	output.Printf("  Tickers:         %v\n", cfg.Batch.Tickers)
	output.Printf("  Output dir:      %s\n", cfg.Batch.OutputDir)
	output.Println()

	output.Bold("History")
	output.Printf("  Enabled:         %v\n", cfg.Store.Enabled)
	output.Printf("  Path:            %s\n", cfg.Store.Path)
	output.Println()

	output.Printf("Location:          %s\n", cfg.Location)
}
