package main

import (
	"fmt"

	"motionarcade/internal/store"

	"github.com/spf13/cobra"
)

var historyQuery store.RunsQuery

var historyCmd = &cobra.Command{
	Use:         "history",
	Short:       "List stored runs, newest first",
	Annotations: map[string]string{needsStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, err := DB.ListRuns(cmd.Context(), historyQuery)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs found.")
			return nil
		}
		printRuns(runs)
		return nil
	},
}

var historyEventsCmd = &cobra.Command{
	Use:         "events <run-id>",
	Short:       "Print the event log of a stored run",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := DB.GetRun(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		events, err := DB.GetEvents(cmd.Context(), run.ID)
		if err != nil {
			return fmt.Errorf("failed to load events: %w", err)
		}
		printRuns([]store.Run{*run})
		fmt.Println()
		printEvents(events)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyQuery.Game, "game", "g", "", "Only runs of this game")
	historyCmd.Flags().StringVar(&historyQuery.Source, "source", "", "Only runs from simulate or replay")
	historyCmd.Flags().IntVar(&historyQuery.Limit, "limit", 20, "Maximum runs to list")
	historyCmd.AddCommand(historyEventsCmd)
	rootCmd.AddCommand(historyCmd)
}
