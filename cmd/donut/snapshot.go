package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-donut/internal/torus"
)

var (
	flagAngleA float64
	flagAngleB float64
	flagOut    string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a single frame and exit",
	Long: `Render one frame at the given rotation angles (radians) and print it.

Examples:
  donut snapshot                   # Resting pose
  donut snapshot --a 1.2 --b 0.6
  donut snapshot --out frame.txt`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().Float64Var(&flagAngleA, "a", 0, "Rotation about the X axis (radians)")
	snapshotCmd.Flags().Float64Var(&flagAngleB, "b", 0, "Rotation about the Z axis (radians)")
	snapshotCmd.Flags().StringVar(&flagOut, "out", "", "Write the frame to this file instead of stdout")
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	frame := torus.Render(flagAngleA, flagAngleB)
	text := frame.String() + "\n"

	if flagOut == "" {
		fmt.Print(text)
		return nil
	}
	if err := os.WriteFile(flagOut, []byte(text), 0o644); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}
