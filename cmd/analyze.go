package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/repofit/repofit/internal/ai"
	"github.com/repofit/repofit/internal/ai/gemini"
	"github.com/repofit/repofit/internal/ai/groq"
	"github.com/repofit/repofit/internal/analyzer"
	"github.com/repofit/repofit/internal/extractor"
	"github.com/repofit/repofit/internal/github"
	"github.com/repofit/repofit/internal/logger"
	"github.com/repofit/repofit/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultJobDescription is used when neither analyze.job-description nor
// analyze.job-description-file is configured.
//
//go:embed job_description.md
var defaultJobDescription string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score snapshot repositories against the job description and write a ranked report",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	addAnalyzeFlags(analyzeCmd)
}

// addAnalyzeFlags registers the analysis flags. Shared with the run
// command, which accepts the same overrides.
func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().String("report", "", "path to the report file (default "+defaultReportFile+")")
	cmd.Flags().Int("limit", 0, "maximum number of repositories to analyze (default 10)")
	cmd.Flags().String("provider", "", "LLM provider to use (groq or gemini, default: auto-select)")
}

// applyAnalyzeFlags lets command-line flags override config file values.
func applyAnalyzeFlags(cmd *cobra.Command, config *Config) {
	if v, err := cmd.Flags().GetString("report"); err == nil && v != "" {
		config.Report = v
	}
	if v, err := cmd.Flags().GetInt("limit"); err == nil && v > 0 {
		config.Analyze.Limit = v
	}
	if v, err := cmd.Flags().GetString("provider"); err == nil && v != "" {
		config.Analyze.Provider = v
	}
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	applyAnalyzeFlags(cmd, config)

	logger.Info("starting the analyzer", zap.String("version", version))

	snapshot, err := github.SnapshotFromFile(config.Snapshot)
	if err != nil {
		logger.Fatal("reading snapshot",
			zap.Error(err),
			zap.String("hint", "run 'repofit extract' first or point --snapshot at an existing file"),
		)
	}

	if err := extractor.Validate(snapshot); err != nil {
		logger.Fatal("snapshot is not usable", zap.Error(err))
	}

	if err := runAnalyze(ctx, config, logger, snapshot); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
}

func runAnalyze(ctx context.Context, config *Config, logger *zap.Logger, snapshot *github.Snapshot) error {
	jobDescription, err := resolveJobDescription(config.Analyze)
	if err != nil {
		return err
	}

	creds, err := resolveGitHubCredentials(config)
	if err != nil {
		return err
	}

	provider, scorer, err := newScorer(ctx, config.Analyze, logger)
	if err != nil {
		return err
	}

	a := analyzer.New(&analyzer.Config{
		JobDescription: jobDescription,
		Limit:          config.Analyze.Limit,
		Provider:       provider,
	}, github.New(ctx, logger, creds), scorer, logger)

	report, err := a.Run(ctx, snapshot)
	if err != nil {
		return err
	}

	if err := report.ToFile(config.Report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	logger.Info("report written",
		zap.String("file", config.Report),
		zap.Int("results", len(report.Results)),
	)

	for _, result := range report.Top(5) {
		logger.Info("ranked repository",
			zap.String("repository", result.Repository),
			zap.Int("score", result.Score),
			zap.String("relevance", result.Relevance),
		)
	}

	return nil
}

// newScorer picks the provider from available credentials and builds the
// scorer on top of its generator. Groq is preferred when both keys are set.
func newScorer(ctx context.Context, cfg *AnalyzeConfig, log *zap.Logger) (ai.Provider, *ai.Scorer, error) {
	groqKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "groq api key",
		Value: cfg.Groq.APIKey,
		Env:   "GROQ_API_KEY",
		File:  cfg.Groq.APIKeyFile,
	})
	if err != nil {
		return "", nil, err
	}

	geminiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return "", nil, err
	}

	provider, err := selectProvider(cfg.Provider, ai.Keys{Groq: groqKey, Gemini: geminiKey})
	if err != nil {
		return "", nil, fmt.Errorf("%w (set GROQ_API_KEY or GEMINI_API_KEY)", err)
	}

	var generator interface {
		GenerateContent(ctx context.Context, prompt string) (string, error)
		Model() string
	}

	switch provider {
	case ai.ProviderGroq:
		generator, err = groq.NewGenerator(groqKey, cfg.Model, "")
	case ai.ProviderGemini:
		generator, err = gemini.NewGenerator(ctx, geminiKey, cfg.Model)
	default:
		return "", nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if err != nil {
		return "", nil, err
	}

	scorerLogger := logger.WithProvider(log, string(provider), generator.Model())

	return provider, ai.NewScorer(generator, scorerLogger, cfg.MaxLogLength), nil
}

// selectProvider honors an explicit override, otherwise auto-selects by
// credential availability.
func selectProvider(override string, keys ai.Keys) (ai.Provider, error) {
	switch strings.TrimSpace(strings.ToLower(override)) {
	case "":
		return ai.Select(keys)
	case string(ai.ProviderGroq):
		if keys.Groq == "" {
			return "", fmt.Errorf("groq provider requested but no groq api key is configured")
		}
		return ai.ProviderGroq, nil
	case string(ai.ProviderGemini):
		if keys.Gemini == "" {
			return "", fmt.Errorf("gemini provider requested but no gemini api key is configured")
		}
		return ai.ProviderGemini, nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", override)
	}
}

func resolveJobDescription(cfg *AnalyzeConfig) (string, error) {
	if cfg.JobDescriptionFile != "" {
		return secrets.Load(secrets.Source{
			Name: "job description",
			File: cfg.JobDescriptionFile,
		})
	}

	if strings.TrimSpace(cfg.JobDescription) != "" {
		return cfg.JobDescription, nil
	}

	return defaultJobDescription, nil
}
