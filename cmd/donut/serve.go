package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-donut/internal/config"
	"github.com/vovakirdan/tui-donut/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the donut SSH server",
	Long: `Start an SSH server that spins a donut for every connection.

Each SSH session gets its own render loop and controls. Sessions are
recorded in the server's history database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.donut/host_key

Examples:
  donut serve                           # Listen on :23235 with auto-generated key
  donut serve --ssh :2222               # Listen on port 2222
  donut serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh -t localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, overrides config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (overrides config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	if flagSSHAddr != "" {
		e.cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		e.cfg.SSH.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		e.cfg.SSH.IdleTimeoutMin = flagIdleTimeout
	}

	cfg := sshServerConfig(e.cfg)

	server, err := tui.NewSSHServer(cfg, e.openStore(), e.logger.WithPrefix("donut-ssh"))
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting donut SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh -t localhost -p <port>")
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// sshServerConfig fills the server defaults from the loaded config. Unset
// address or idle timeout keep the defaults.
func sshServerConfig(c config.Config) tui.SSHServerConfig {
	cfg := tui.DefaultSSHServerConfig()
	cfg.Runtime = c.Runtime()
	cfg.HostKeyPath = c.SSH.HostKey
	if c.SSH.Address != "" {
		cfg.Address = c.SSH.Address
	}
	if idle := c.SSH.IdleTimeout(); idle > 0 {
		cfg.IdleTimeout = idle
	}
	return cfg
}
