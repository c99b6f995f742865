// Package cli contains all commands of the casetracker binary
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"casetracker/internal/config"
	"casetracker/internal/engine"
	"casetracker/internal/logging"
	"casetracker/internal/models"
	"casetracker/internal/upstream"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "casetracker",
	Short: "Daily case counts, national or per region",
	Long: `casetracker fetches daily case counts from the public statistics API
and shows them as a list and a 30-day bar chart.

Example usage:
  casetracker serve                 # Start the dashboard API on :8080
  casetracker show                  # Print the national series
  casetracker show --region CA      # Print one region's series
  casetracker regions               # List selectable regions
  casetracker chart -o cases.png    # Render the bar chart`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .casetracker.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.New(os.Stderr, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		"base_url", cfg.Upstream.BaseURL,
		"locale", cfg.Display.Locale,
		"timezone", cfg.Display.Timezone,
		"chart_window", cfg.Display.ChartWindow,
	)
	return nil
}

// app bundles the collaborators every command builds from config.
type app struct {
	client *upstream.Client
	format *engine.Formatter
	opts   []engine.ControllerOption
}

func newApp() (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	tag, err := cfg.Language()
	if err != nil {
		return nil, err
	}
	policy, err := engine.ParseStalePolicy(cfg.Display.StalePolicy)
	if err != nil {
		return nil, err
	}

	client := upstream.New(
		upstream.WithBaseURL(cfg.Upstream.BaseURL),
		upstream.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		upstream.WithLocation(loc),
		upstream.WithLogger(logger),
	)
	return &app{
		client: client,
		format: engine.NewFormatter(tag, loc),
		opts: []engine.ControllerOption{
			engine.WithChartWindow(cfg.Display.ChartWindow),
			engine.WithStalePolicy(policy),
		},
	}, nil
}

func (a *app) controller(dispatch engine.Dispatcher) *engine.Controller {
	return engine.NewController(a.client, dispatch, a.format, logger, a.opts...)
}

// resolveScope maps a --region flag to a scope, looking the code up in the
// region catalog so the label can carry the proper name.
func (a *app) resolveScope(ctx context.Context, code string) (models.Scope, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.National{}, nil
	}
	regions, err := a.client.FetchRegionList(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching region list: %w", err)
	}
	for _, r := range regions {
		if strings.EqualFold(r.Code, code) {
			return models.RegionScope{Region: r}, nil
		}
	}
	return nil, fmt.Errorf("unknown region %q", code)
}

// loadOnce fetches scope through a controller and waits for the outcome.
func (a *app) loadOnce(ctx context.Context, scope models.Scope) (models.View, error) {
	ctrl := a.controller(engine.Inline{})
	updates := ctrl.Subscribe()
	ctrl.SetScope(ctx, scope)

	for {
		select {
		case <-ctx.Done():
			return models.View{}, ctx.Err()
		case v := <-updates:
			switch v.State {
			case models.StateLoaded:
				return v, nil
			case models.StateFailed:
				return v, fmt.Errorf("fetching %s series: %s", v.Label, v.Error)
			}
		}
	}
}

func useColors() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return cfg.Output.Colors
}
