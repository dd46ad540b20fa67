package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-donut/internal/platform/tui"
	"github.com/vovakirdan/tui-donut/internal/storage"
)

var (
	flagPlain bool
	flagLimit int
)

var errNoHistory = errors.New("session history is disabled or unavailable")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded sessions",
	Long: `Show past donut sessions: local runs and SSH viewers.

By default an interactive table opens; --plain prints a text table,
which is also used when stdout is not a terminal.

Examples:
  donut history
  donut history --plain --limit 5
  donut history clear`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print a plain text table")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions in the plain table")
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(_ *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	store := e.openStore()
	if store == nil {
		return errNoHistory
	}

	width, height, sizeErr := term.GetSize(int(os.Stdout.Fd()))
	if flagPlain || sizeErr != nil {
		return printHistory(store, flagLimit)
	}
	return tui.RunHistory(store, width, height)
}

func printHistory(store *storage.Store, limit int) error {
	sessions, err := store.RecentSessions(limit)
	if err != nil {
		return err
	}

	fmt.Println("Donut Sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'donut' to start spinning!")
		return nil
	}

	// Print header
	fmt.Printf("  %-16s  %-16s  %-9s  %-7s  %s\n", "Date", "Origin", "Duration", "Frames", "Avg FPS")
	fmt.Printf("  %-16s  %-16s  %-9s  %-7s  %s\n", "----", "------", "--------", "------", "-------")

	for _, s := range sessions {
		fmt.Printf("  %-16s  %-16s  %-9s  %-7d  %.1f\n",
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Origin,
			s.Duration.Round(time.Second),
			s.Presented,
			s.AvgFPS,
		)
	}

	totals, err := store.Totals()
	if err == nil {
		fmt.Println()
		fmt.Printf("Total: %d sessions, %s spinning, best %.1f FPS\n",
			totals.Sessions, totals.TotalDuration.Round(time.Second), totals.BestAvgFPS)
	}
	return nil
}

func runHistoryClear(_ *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	store := e.openStore()
	if store == nil {
		return errNoHistory
	}

	n, err := store.ClearSessions()
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d sessions.\n", n)
	return nil
}
