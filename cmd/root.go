package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/inkwell/config"
	"github.com/tieubaoca/inkwell/service"
	"github.com/tieubaoca/inkwell/types"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Turn scanned handwritten notes into a searchable markdown archive",
	Long: `Inkwell ingests scanned or handwritten documents (PDFs and images),
extracts individual notes with a multimodal model, enriches them with tags
and wiki links, and persists them as markdown files with YAML front matter.

Expensive inference results are cached by content hash under build/cache, so
re-running on the same input is free.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("build-dir", "", "output root containing cache/ and notes/")
	rootCmd.PersistentFlags().String("raw-dir", "", "input mirror for submitted sources")
	rootCmd.PersistentFlags().String("provider", "", "completion provider: gemini or openai")
	rootCmd.PersistentFlags().String("model", "", "model to use for the AI service")
	rootCmd.PersistentFlags().Int("workers", 0, "extraction worker pool size")
	rootCmd.PersistentFlags().Int("batch-size", 0, "maximum pages per inference call")
}

// loadConfig reads the config file and applies persistent flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("build-dir"); v != "" {
		cfg.BuildDir = v
	}
	if v, _ := cmd.Flags().GetString("raw-dir"); v != "" {
		cfg.RawDir = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetInt("batch-size"); v > 0 {
		cfg.BatchSize = v
	}
	return cfg, nil
}

// newCompleter builds the configured completion client
func newCompleter(cfg *config.Config) (service.Completer, error) {
	switch cfg.Provider {
	case "openai":
		return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model), nil
	case "gemini":
		return service.NewGeminiService(cfg.GeminiKeys(), cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// buildPipeline wires the full pipeline from configuration
func buildPipeline(cfg *config.Config, logger *zap.SugaredLogger) (*service.PipelineService, error) {
	ai, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := service.NewCacheService(cfg.CacheDir(), logger)
	if err != nil {
		return nil, err
	}
	notes, err := service.NewNoteService(cfg.NotesDir(), logger)
	if err != nil {
		return nil, err
	}

	pdf := service.NewPDFService(types.RasterOptions{
		TargetEdge:  cfg.TargetEdge,
		JPEGQuality: cfg.JPEGQuality,
	}, logger)
	extract := service.NewExtractService(ai, cache, types.ExtractOptions{
		BatchSize: cfg.BatchSize,
		Workers:   cfg.Workers,
	}, logger)
	enrich := service.NewEnrichService(ai, cache, logger)

	return service.NewPipelineService(pdf, extract, enrich, notes, logger), nil
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	return logger.Sugar()
}
