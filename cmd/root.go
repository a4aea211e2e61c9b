package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdeck/internal/client"
	"github.com/abhisek/quizdeck/internal/config"
	"github.com/abhisek/quizdeck/internal/service"
	"github.com/abhisek/quizdeck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizdeck",
	Short: "Timed course quizzes in the terminal",
	Long:  "quizdeck runs timed, scored course quizzes in the terminal, against a local database or a quizdeck server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZDECK_DB env var)")
	rootCmd.PersistentFlags().String("api", "", "Base URL of a quizdeck server (overrides QUIZDECK_API env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner ID (overrides QUIZDECK_USER env var)")
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvFile, "Optional dotenv file with QUIZDECK_* settings")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings: flags first, then the environment, then the
// env file, then defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
	}
	cfg.DBPath = dbPath

	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.APIURL = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.UserID = v
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, and makes sure its directory exists.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return configured, store.EnsureDir(configured)
}

// openStore opens the configured SQLite store.
func openStore(cfg config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openService returns the learner service for cfg: the HTTP client when a
// server is configured, otherwise the local store. Both retry transient
// failures. The returned func releases resources.
func openService(cfg config.Config) (service.Service, func(), error) {
	if cfg.Remote() {
		c := client.New(cfg.APIURL, cfg.UserID, cfg.APITimeout)
		return service.WithRetry(c, service.DefaultRetryConfig()), func() {}, nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	local := service.NewLocal(st, cfg.UserID)
	return service.WithRetry(local, service.DefaultRetryConfig()), func() { st.Close() }, nil
}

// backend describes where quizzes come from, for status lines.
func backend(cfg config.Config) string {
	if cfg.Remote() {
		return cfg.APIURL
	}
	return "local"
}
