package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/repofit/repofit/internal/extractor"
	"github.com/repofit/repofit/internal/github"
	"github.com/repofit/repofit/internal/logger"
	"github.com/repofit/repofit/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract [username]",
	Short: "Extract a GitHub profile snapshot to a JSON file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extract(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func extract(_ *cobra.Command, args []string) {
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

	logger.Info("starting the extractor", zap.String("version", version))

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
}

// runExtract fetches the snapshot and persists it. Nothing is written
// unless every fetch succeeded.
func runExtract(ctx context.Context, config *Config, logger *zap.Logger, username string) (*github.Snapshot, error) {
	creds, err := resolveGitHubCredentials(config)
	if err != nil {
		return nil, err
	}

	api := github.New(ctx, logger, creds)

	snapshot, err := extractor.New(api, logger).Run(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := snapshot.ToFile(config.Snapshot); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}

	return snapshot, nil
}

// resolveUsername takes the positional argument, falls back to the config,
// and finally asks interactively.
func resolveUsername(config *Config, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}

	if config.Username != "" {
		return config.Username, nil
	}

	prompt := promptui.Prompt{
		Label: "GitHub username",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("username cannot be empty")
			}
			return nil
		},
	}

	username, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(username), nil
}

func resolveGitHubCredentials(config *Config) (github.Credentials, error) {
	token, err := secrets.LoadOptional(secrets.Source{
		Name:  "github token",
		Value: config.GitHub.Token,
		Env:   "GITHUB_TOKEN",
		File:  config.GitHub.TokenFile,
	})
	if err != nil {
		return github.Credentials{}, err
	}

	clientID := strings.TrimSpace(config.GitHub.ClientID)
	if clientID == "" {
		clientID = strings.TrimSpace(viper.GetString("github.client-id"))
	}

	clientSecret := strings.TrimSpace(config.GitHub.ClientSecret)
	if clientSecret == "" {
		clientSecret = strings.TrimSpace(viper.GetString("github.client-secret"))
	}

	return github.Credentials{
		Token:        token,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, nil
}
