package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"motionarcade/internal/config"

	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config [path]",
	Short: "Validate a game config file and print the effective settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if len(args) == 1 {
			path = args[0]
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		printConfig(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func printConfig(cfg config.GameConfig) {
	session, _ := cfg.Simon.Session()
	names := make([]string, 0, len(session.Catalog))
	for _, pose := range session.Catalog {
		names = append(names, pose.Name)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "tick rate\t%d/s\n", cfg.TickRate)
	fmt.Fprintf(w, "min visibility\t%.2f\n", cfg.MinVisibility)
	fmt.Fprintf(w, "demo enabled\t%t\n", cfg.DemoEnabled)
	fmt.Fprintf(w, "simon catalog\t%v\n", names)
	fmt.Fprintf(w, "simon target\t%d\n", cfg.Simon.TargetScore)
	fmt.Fprintf(w, "simon deadlines\tgenuine %s, decoy %s\n", session.DeadlineGenuine, session.DeadlineDecoy)
	fmt.Fprintf(w, "simon decoys\t%.0f%%\n", cfg.Simon.DecoyProbability*100)
	fmt.Fprintf(w, "balls\t%d bpm, radius %.0fpx, %.0fpx/s\n", cfg.Balls.BPM, cfg.Balls.RadiusPx, cfg.Balls.SpeedPxPerS)
	fmt.Fprintf(w, "punch\t%d hits, box %.0fpx, hands %v\n", cfg.Punch.TargetHits, cfg.Punch.BoxSizePx, cfg.Punch.HandIndices)
	w.Flush()
	fmt.Println("OK")
}
