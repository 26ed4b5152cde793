package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/barefootnomad/backend/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "barefoot-nomad",
	Short: "Barefoot Nomad",
	Long:  `Travel request and accommodation booking backend for company nomads.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == internal.EnvProduction || os.Getenv("DOCKER_ENV") == "true" {
		return finalizeConfig(internal.LoadConfigFromEnv(), "environment")
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// conventional variable names win over ENV_* ones
	_ = v.BindEnv("environment", "NODE_ENV", "APP_ENV")
	_ = v.BindEnv("http_server.port", "PORT")
	_ = v.BindEnv("database.source", "DATABASE_URL")
	_ = v.BindEnv("security.jwt_secret", "JWT_SECRET")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return finalizeConfig(internal.LoadConfigFromEnv(), "environment")
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return finalizeConfig(&cfg, v.ConfigFileUsed())
}

func finalizeConfig(cfg *internal.Config, source string) (*internal.Config, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config from %s: %w", source, err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-dir", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
