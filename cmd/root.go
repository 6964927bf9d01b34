package cmd

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/team-matcher/internal/server"
)

const (
	app = "team-matcher"
)

type Config struct {
	Database *DatabaseConfig `mapstructure:"database"`
	Server   server.Config   `mapstructure:"server"`
	AI       *AIConfig       `mapstructure:"ai"`
	Builder  *BuilderConfig  `mapstructure:"builder"`
}

type DatabaseConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
	Migrate bool   `mapstructure:"migrate"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Fallback bool          `mapstructure:"fallback"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
	CacheSize    int    `mapstructure:"cache-size"`
}

// BuilderConfig tunes the interactive team builder.
type BuilderConfig struct {
	MaxMembers   int    `mapstructure:"max-members"`
	MinimumFit   int    `mapstructure:"minimum-fit"`
	MinimumAIFit int    `mapstructure:"minimum-ai-fit"`
	Archetype    string `mapstructure:"archetype"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "team-matcher scores employees against team archetypes and helps staff teams",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	bindings := map[string]string{
		"database.url":           "TEAM_MATCHER_DATABASE_URL",
		"database.url-file":      "TEAM_MATCHER_DATABASE_URL_FILE",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"server.addr":            "TEAM_MATCHER_ADDR",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.fallback", true)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read-timeout", 15*time.Second)
	viper.SetDefault("server.write-timeout", 120*time.Second)
	viper.SetDefault("builder.max-members", 5)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is team-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Only an explicitly requested file has to exist.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Database == nil {
		config.Database = &DatabaseConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Builder == nil {
		config.Builder = &BuilderConfig{}
	}

	return config, nil
}
