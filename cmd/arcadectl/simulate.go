package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"motionarcade/internal/app"
	"motionarcade/internal/bot"
	"motionarcade/internal/sim"
	"motionarcade/internal/store"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// SimulateOptions holds the simulate command flags.
type SimulateOptions struct {
	Game      string
	Level     string
	Runs      int
	Seed      int64
	FrameRate int
	CueLength time.Duration
	Duration  time.Duration
	Record    string
	NoSave    bool
}

var simulateOpts SimulateOptions

var simulateCmd = &cobra.Command{
	Use:         "simulate",
	Short:       "Let a ghost player play games offline and report the results",
	Annotations: map[string]string{needsConfig: "true", needsStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSimulate(cmd, simulateOpts); err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}
		return nil
	},
}

func init() {
	f := simulateCmd.Flags()
	f.StringVarP(&simulateOpts.Game, "game", "g", string(app.GameSimon), "Game to play: simon, balls or punch")
	f.StringVarP(&simulateOpts.Level, "level", "l", "good", "Ghost skill: clumsy, good or perfect")
	f.IntVarP(&simulateOpts.Runs, "runs", "n", 1, "Number of games to play")
	f.Int64Var(&simulateOpts.Seed, "seed", 0, "Seed for the first run, incremented per run (0 picks one from the clock)")
	f.IntVar(&simulateOpts.FrameRate, "frame-rate", 30, "Camera frames per second")
	f.DurationVar(&simulateOpts.CueLength, "cue", 800*time.Millisecond, "Length of the spoken challenge announcement")
	f.DurationVar(&simulateOpts.Duration, "duration", 30*time.Second, "How long a ball run lasts before it is stopped")
	f.StringVar(&simulateOpts.Record, "record", "", "Write the landmark log of the run to this JSONL file (single run only)")
	f.BoolVar(&simulateOpts.NoSave, "no-save", false, "Do not store the runs in the history")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, opts SimulateOptions) error {
	ctx := cmd.Context()
	game := app.GameKind(opts.Game)
	if !app.ValidGame(game) {
		return fmt.Errorf("%w: %q", sim.ErrUnknownGame, opts.Game)
	}
	level, err := bot.ParseLevel(opts.Level)
	if err != nil {
		return err
	}
	if opts.Runs < 1 {
		return errors.New("--runs must be at least 1")
	}
	if opts.Record != "" && opts.Runs != 1 {
		return errors.New("--record needs --runs 1")
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	cfg := gameConfig

	var log *sim.LogWriter
	if opts.Record != "" {
		f, err := os.Create(opts.Record)
		if err != nil {
			return err
		}
		defer f.Close()
		log = sim.NewLogWriter(f)
	}

	bar := progressbar.NewOptions(opts.Runs,
		progressbar.OptionSetDescription("Simulating "+opts.Game),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	play := sim.PlayOptions{FrameRate: opts.FrameRate, CueLength: opts.CueLength, Duration: opts.Duration}
	runs := make([]store.Run, 0, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		seed := opts.Seed + int64(i)
		agent, err := bot.NewAgent(fmt.Sprintf("ghost-%d", i), "Ghost", level, rand.New(rand.NewSource(seed)))
		if err != nil {
			return err
		}

		run, events, err := sim.Simulate(ctx, sim.Options{Game: game, Config: cfg, Seed: seed}, play, agent, log, nil)
		if err != nil {
			return err
		}
		run.Level = level.String()
		if !opts.NoSave {
			if err := DB.SaveRun(ctx, &run); err != nil {
				return err
			}
			if err := DB.SaveEvents(ctx, run.ID, events); err != nil {
				return err
			}
		}
		runs = append(runs, run)
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	printRuns(runs)
	printSummary(runs)
	if opts.Record != "" {
		fmt.Fprintf(os.Stderr, "Landmark log written to %s (replay with --seed %d)\n", opts.Record, opts.Seed)
	}
	return nil
}

func printRuns(runs []store.Run) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tGAME\tSOURCE\tLEVEL\tSCORE\tROUNDS\tWON\tDURATION")
	fmt.Fprintln(w, "--\t----\t------\t-----\t-----\t------\t---\t--------")
	for _, run := range runs {
		id := run.ID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%t\t%s\n", id, run.Game, run.Source, run.Level,
			run.FinalScore, run.Rounds, run.Won, time.Duration(run.DurationMs)*time.Millisecond)
	}
	w.Flush()
}

func printSummary(runs []store.Run) {
	if len(runs) < 2 {
		return
	}
	wins, total := 0, 0
	for _, run := range runs {
		if run.Won {
			wins++
		}
		total += run.FinalScore
	}
	fmt.Printf("\n%d runs, %d won (%.0f%%), average score %.1f\n",
		len(runs), wins, 100*float64(wins)/float64(len(runs)), float64(total)/float64(len(runs)))
}
