package cmd

import (
	"context"
	"log"

	"github.com/repofit/repofit/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [username]",
	Short: "Extract a snapshot and analyze it in one pass",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addAnalyzeFlags(runCmd)
}

// run is the main command for the cli: extract first, then analyze the
// fresh snapshot.
func run(cmd *cobra.Command, args []string) {
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

	logger.Info("starting the repofit", zap.String("version", version))

	username, err := resolveUsername(config, args)
	if err != nil {
		logger.Fatal("resolving username", zap.Error(err))
	}

	snapshot, err := runExtract(ctx, config, logger, username)
	if err != nil {
		logger.Fatal("extraction failed", zap.Error(err))
	}

	logger.Info("snapshot written",
		zap.String("username", username),
		zap.String("file", config.Snapshot),
		zap.Int("repositories", len(snapshot.Repositories)),
	)

	if err := runAnalyze(ctx, config, logger, snapshot); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}
}
