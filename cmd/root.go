package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "repofit"
)

type Config struct {
	Username string `mapstructure:"username"`
	Snapshot string `mapstructure:"snapshot"`
	Report   string `mapstructure:"report"`
	GitHub   *GitHubConfig
	Analyze  *AnalyzeConfig
}

type GitHubConfig struct {
	Token        string `mapstructure:"token"`
	TokenFile    string `mapstructure:"token-file"`
	ClientID     string `mapstructure:"client-id"`
	ClientSecret string `mapstructure:"client-secret"`
}

type AnalyzeConfig struct {
	JobDescription     string `mapstructure:"job-description"`
	JobDescriptionFile string `mapstructure:"job-description-file"`
	Limit              int    `mapstructure:"limit"`
	Provider           string `mapstructure:"provider"`
	Model              string `mapstructure:"model"`
	MaxLogLength       int    `mapstructure:"max-log-length"`
	Groq               *ProviderKeyConfig
	Gemini             *ProviderKeyConfig
}

type ProviderKeyConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

const (
	defaultSnapshotFile = "github_data.json"
	defaultReportFile   = "repo_analysis.json"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "repofit extracts a GitHub profile snapshot and scores repositories against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"github.token":           "GITHUB_TOKEN",
		"github.client-id":       "GITHUB_CLIENT_ID",
		"github.client-secret":   "GITHUB_CLIENT_SECRET",
		"analyze.groq.api-key":   "GROQ_API_KEY",
		"analyze.gemini.api-key": "GEMINI_API_KEY",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is repofit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("snapshot", defaultSnapshotFile, "path to the snapshot file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("snapshot", rootCmd.PersistentFlags().Lookup("snapshot"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A config file is optional: flags and environment variables cover
	// everything. A present but broken one is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.GitHub == nil {
		config.GitHub = &GitHubConfig{}
	}
	if config.Analyze == nil {
		config.Analyze = &AnalyzeConfig{}
	}
	if config.Analyze.Groq == nil {
		config.Analyze.Groq = &ProviderKeyConfig{}
	}
	if config.Analyze.Gemini == nil {
		config.Analyze.Gemini = &ProviderKeyConfig{}
	}
	if config.Snapshot == "" {
		config.Snapshot = viper.GetString("snapshot")
	}
	if config.Report == "" {
		config.Report = defaultReportFile
	}

	return config, nil
}
