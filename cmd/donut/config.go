package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-donut/internal/config"
)

var flagEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the default configuration",
	Long: `Print the built-in configuration file. Save it as ~/.donut/config.yaml
or ./configs/donut.yaml and edit to override.

With --effective, prints the merged configuration after loading files and
applying global flags.

Examples:
  donut config > ~/.donut/config.yaml
  donut config --effective --config ./my.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the merged configuration instead")
}

func runConfig(_ *cobra.Command, _ []string) error {
	if !flagEffective {
		_, err := os.Stdout.Write(config.DefaultYAML())
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	out, err := yaml.Marshal(e.cfg)
	if err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
