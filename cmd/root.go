package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberquestjr/cyberquest/internal/config"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "cyberquest",
	Short: "Cybersecurity learning game for kids",
	Long:  "CyberQuest Jr: a skill assessment, personalized courses and mini-games that teach kids to stay safe online.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides CYBERQUEST_DB)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env and the environment, then applies --db.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return config.Config{}, fmt.Errorf("create database dir: %w", err)
		}
		cfg.DB = p
	}
	return cfg, nil
}

// openStore loads the config and opens the database it names.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	st, err := store.Open(cfg.DB)
	if err != nil {
		return nil, cfg, fmt.Errorf("open database: %w", err)
	}
	return st, cfg, nil
}
