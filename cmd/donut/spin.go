package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-donut/internal/core"
	"github.com/vovakirdan/tui-donut/internal/platform/tui"
	"github.com/vovakirdan/tui-donut/internal/storage"
)

var (
	flagFrameMS  int
	flagNoStatus bool
	flagColor    bool
)

var spinCmd = &cobra.Command{
	Use:   "spin",
	Short: "Spin the donut in this terminal",
	Long: `Spin the donut until you press q, Esc or Ctrl+C.

The frame is 80x22 characters plus one status line; smaller terminals
wrap the output.

Examples:
  donut spin
  donut spin --frame-ms 16     # ~60 FPS
  donut spin --no-status       # Frame only
  donut spin --color           # Tint glyphs by brightness`,
	RunE: runSpin,
}

func init() {
	addSpinFlags(spinCmd)
}

// addSpinFlags registers the spin flags on cmd. The root command gets them
// too since it spins by default.
func addSpinFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagFrameMS, "frame-ms", 0, "Target frame duration in milliseconds (overrides config)")
	cmd.Flags().BoolVar(&flagNoStatus, "no-status", false, "Hide the status line")
	cmd.Flags().BoolVar(&flagColor, "color", false, "Tint glyphs by brightness")
}

func runSpin(cmd *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if flagFrameMS > 0 {
		e.cfg.Render.FrameMS = flagFrameMS
	}
	if flagNoStatus {
		e.cfg.Render.ShowStatus = false
	}
	if cmd.Flags().Changed("color") {
		e.cfg.Render.Color = flagColor
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	rt := e.cfg.Runtime()

	stdinFD := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFD) {
		e.logger.Warn("stdin is not a terminal; keys need Enter to arrive")
	}
	if w, h, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil {
		if w < core.ScreenW || h < core.ScreenH+1 {
			e.logger.Warn("terminal smaller than the frame", "width", w, "height", h)
		}
	}

	store := e.openStore()

	presenter := tui.NewTerminalPresenter(os.Stdout, tui.PresenterConfig{
		RawFD: stdinFD,
		Color: rt.Color,
	})
	keys := tui.NewReaderKeySource(os.Stdin)
	defer keys.Close()

	res, runErr := tui.Run(context.Background(), rt, keys, presenter, e.logger)
	tui.RecordSession(store, storage.OriginLocal, res, e.logger)

	e.logger.Info("session ended",
		"frames", res.Render.Presented,
		"avg_fps", res.Render.AvgFPS(),
		"duration", res.Render.Duration,
	)
	return runErr
}
