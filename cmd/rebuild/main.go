package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rebuildintel/rebuild-go/internal/adapters/geometry"
	"github.com/rebuildintel/rebuild-go/internal/adapters/narrative"
	"github.com/rebuildintel/rebuild-go/internal/adapters/reportstore"
	"github.com/rebuildintel/rebuild-go/internal/config"
	"github.com/rebuildintel/rebuild-go/internal/domain/ports"
	"github.com/rebuildintel/rebuild-go/internal/domain/usecases"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "ReBuild Intelligence - material reuse planning service",
	Long: `rebuild analyzes demolition projects for selective deconstruction.

From project metadata and uploaded scan manifests it derives piece-by-piece
cutting plans, structural and environmental assessments, disaster exposure,
cost and carbon accounting, and a material feasibility verdict. Identical
submissions always produce identical reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "rebuild.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands to root
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildProcessUseCase wires the pipeline from configuration. The returned
// cleanup closes the archive.
func buildProcessUseCase(cfg *config.Config) (*usecases.ProcessUseCase, func(), error) {
	var archive ports.ReportArchive
	cleanup := func() {}

	switch cfg.Archive.Driver {
	case "memory":
		archive = reportstore.NewInMemoryArchive()
	case "sqlite", "":
		sqlite, err := reportstore.NewSQLiteArchive(cfg.Archive.DataPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening report archive: %w", err)
		}
		archive = sqlite
		cleanup = func() { sqlite.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown archive driver %q", cfg.Archive.Driver)
	}

	var narrator ports.NarrativeService
	if cfg.Narrative.APIKey != "" {
		narrator = narrative.NewOpenAIAdapter(cfg.Narrative.BaseURL, cfg.Narrative.Model, cfg.Narrative.APIKey)
	} else {
		narrator = narrative.NewDisabled()
	}

	analyzer := usecases.NewAnalyzeUseCase(cfg.Engine, narrator)
	return usecases.NewProcessUseCase(analyzer, archive, geometry.NewOBJExporter()), cleanup, nil
}
