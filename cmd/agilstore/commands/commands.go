package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/agilstore/core/internal/adapters/cli"
	"github.com/agilstore/core/internal/adapters/repository"
	"github.com/agilstore/core/internal/application/services"
	"github.com/agilstore/core/internal/infrastructure/config"
	"github.com/agilstore/core/internal/infrastructure/logger"
	"github.com/agilstore/core/internal/infrastructure/metrics"
)

// Set at build time with -ldflags "-X github.com/agilstore/core/cmd/agilstore/commands.Version=..."
var (
	Version   = "1.0.0"
	GitCommit = "development"
)

// NewRootCommand creates the interactive inventory command
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "agilstore",
		Short:        "AgilStore inventory manager",
		Long:         `AgilStore is an interactive inventory manager that keeps its products in a local JSON file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), cmd.Flags(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("data-file", "", "Path of the products JSON file (default: data/products.json next to the executable)")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print AgilStore version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "AgilStore v%s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

func runInteractive(ctx context.Context, flags *pflag.FlagSet, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()
	appLogger = appLogger.WithSessionID(uuid.NewString())

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	locale, err := language.Parse(cfg.Display.Locale)
	if err != nil {
		appLogger.Warnw("Unknown display locale, using pt-BR collation", "locale", cfg.Display.Locale, "error", err)
		locale = language.BrazilianPortuguese
	}

	store := repository.NewJSONStore(cfg.Storage.DataFile, appLogger, m)
	service := services.NewInventoryService(store, locale, appLogger, m)
	prices := cli.NewPriceFormatter(cfg.Display.Locale, cfg.Display.Currency)
	if !prices.Localized() {
		appLogger.Warnw("Locale currency formatting unavailable, using plain decimals",
			"locale", cfg.Display.Locale,
			"currency", cfg.Display.Currency,
		)
	}

	appLogger.Infow("Starting AgilStore",
		"version", cfg.App.Version,
		"data_file", cfg.Storage.DataFile,
	)

	app := cli.NewApp(service, in, out, prices, appLogger)
	runErr := app.Run(ctx)

	if cfg.Metrics.MetricsTextfileEnabled() {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			appLogger.Errorw("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	return runErr
}
