package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"motionarcade/internal/config"
	"motionarcade/internal/store"

	"github.com/spf13/cobra"
)

// Version is the CLI version.
const Version = "0.1.0"

// Command annotations read by the root pre-run hook.
const (
	needsConfig = "needs-config" // load --config into gameConfig
	needsStore  = "needs-store"  // open the run-history store into DB unless --no-save
)

var (
	// DB is the run-history store shared by subcommands
	DB store.DB

	gameConfig config.GameConfig
	dbURL      string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:               "arcadectl",
	Short:             "Offline tooling for the motion arcade: simulate, replay and inspect runs",
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

// prepare loads the config before opening the store so a bad config never leaves a store open.
func prepare(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[needsConfig] == "true" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load game config: %w", err)
		}
		gameConfig = cfg
	}
	if cmd.Annotations[needsStore] != "true" {
		return nil
	}
	if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
		return nil
	}
	if dbURL == "" {
		dbURL = os.Getenv("ARCADE_DB")
	}
	if dbURL == "" {
		dbURL = "arcade.db"
	}
	db, err := store.Open(cmd.Context(), dbURL)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	DB = db
	return nil
}

// closeStore closes the store if a command opened it.
func closeStore() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	err := rootCmd.ExecuteContext(ctx)
	closeStore()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arcadectl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Run history: SQLite path or postgres:// URL (default $ARCADE_DB or arcade.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "data/game_config.yaml", "Game config file (YAML or JSON); missing file means defaults")
}
