package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rolotools/rolo/internal/ai"
	"github.com/rolotools/rolo/internal/config"
	"github.com/rolotools/rolo/internal/merge"
	"github.com/rolotools/rolo/internal/storage"
)

// Shared state for all commands, set up in rootCmd's PersistentPreRunE
var (
	cfg   *config.Config
	store storage.Storage
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rolo",
	Short: "Contact manager with duplicate detection and merging",
	Long: `rolo is a contact manager built around a deduplication engine.

Contacts from CSV exports (Google, LinkedIn) are imported into a local
database. Incoming records are matched against existing contacts by
name, email, phone, and LinkedIn URL, then merged without losing data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		store, err = storage.NewStorage(cmd.Context(), &storage.Config{
			Backend:     storage.Backend(cfg.Backend),
			Path:        cfg.DBPath,
			PostgresDSN: cfg.PostgresDSN,
		})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// newAIClient builds a client from config. Returns nil when no API key
// is available.
func newAIClient() *ai.Client {
	if cfg.APIKey == "" && !ai.Available() {
		return nil
	}
	client, err := ai.NewClient(&ai.Config{APIKey: cfg.APIKey, Model: cfg.Model})
	if err != nil {
		return nil
	}
	return client
}

// mergeStrategy picks the merge strategy for this run. AI merging needs
// both the config flag (or command flag) and a usable client.
func mergeStrategy(useAI bool) merge.Strategy {
	if useAI {
		if client := newAIClient(); client != nil {
			return &ai.MergeStrategy{Client: client}
		}
		fmt.Fprintf(os.Stderr, "Warning: AI merge requested but no API key available, using deterministic merge\n")
	}
	return &merge.DeterministicStrategy{}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to config file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
