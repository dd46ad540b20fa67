// donut spins an ASCII-shaded torus in the terminal.
//
// Usage:
//
//	donut                   - Spin the donut (same as donut spin)
//	donut spin              - Spin the donut in this terminal
//	donut snapshot          - Print a single frame and exit
//	donut serve             - Start SSH server for remote viewing
//	donut history           - Browse recorded sessions
//	donut config            - Print the default configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.donut/config.yaml)
//	--db <path>         - Session database (default: ~/.donut/sessions.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "donut",
	Short: "Spin an ASCII donut in your terminal",
	Long: `donut renders a rotating torus with ASCII shading, about 30 frames
per second, until you quit.

Controls:
  space      - Pause / resume
  r          - Reset the rotation
  q, Esc     - Quit (Ctrl+C works too)

Available commands:
  spin       - Spin the donut (default)
  snapshot   - Print one frame and exit
  serve      - Start SSH server for remote viewing
  history    - Browse recorded sessions
  config     - Print the default configuration

Examples:
  donut
  donut spin --color --frame-ms 16
  donut snapshot --a 1.2 --b 0.6
  donut serve --ssh :2222
  donut history --plain`,
	SilenceUsage: true,
	RunE:         runSpin,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to session database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (overrides config)")

	addSpinFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(spinCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
