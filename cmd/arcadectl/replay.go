package main

import (
	"fmt"
	"os"

	"motionarcade/internal/app"
	"motionarcade/internal/sim"
	"motionarcade/internal/store"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	replayGame   string
	replaySeed   int64
	replayQuiet  bool
	replayNoSave bool
)

var replayCmd = &cobra.Command{
	Use:         "replay <log.jsonl>",
	Short:       "Feed a recorded landmark log through a game and print the event stream",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsConfig: "true", needsStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runReplay(cmd, args[0]); err != nil {
			return fmt.Errorf("replay failed: %w", err)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayGame, "game", "g", string(app.GameSimon), "Game the log was recorded for")
	replayCmd.Flags().Int64Var(&replaySeed, "seed", 0, "Seed the log was recorded with")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "Only print the result")
	replayCmd.Flags().BoolVar(&replayNoSave, "no-save", false, "Do not store the run in the history")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lines, err := sim.ReadLog(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	bar := progressbar.NewOptions(len(lines),
		progressbar.OptionSetDescription("Replaying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)
	opts := sim.Options{Game: app.GameKind(replayGame), Config: gameConfig, Seed: replaySeed}
	run, events, err := sim.Replay(ctx, opts, lines, func() { bar.Add(1) })
	if err != nil {
		return err
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	if !replayNoSave {
		if err := DB.SaveRun(ctx, &run); err != nil {
			return err
		}
		if err := DB.SaveEvents(ctx, run.ID, events); err != nil {
			return err
		}
	}
	if !replayQuiet {
		printEvents(events)
		fmt.Println()
	}
	printRuns([]store.Run{run})
	return nil
}

func printEvents(events []store.EventRecord) {
	for _, ev := range events {
		fmt.Printf("%8dms  %-18s %s\n", ev.AtMs, ev.Kind, ev.Payload)
	}
}
