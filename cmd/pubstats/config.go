package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scrim-network/pubstats/internal/config"
)

var configForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pubstats configuration",
	Long: `Manage pubstats configuration.

Settings are read from a YAML file (--config or $PUBSTATS_CONFIG), then
overridden by PUBSTATS_<KEY> environment variables, for example
PUBSTATS_OUTPUT_DIR=reports or PUBSTATS_TAGS=SCRiM,PSU.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultFile
	if len(args) == 1 {
		path = config.ExpandPath(args[0])
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		exitWithError(ExitConfigError, "%s already exists (use --force to overwrite)", path)
	}

	if err := config.New().Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote default config to %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "created", Path: path})
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if humanOutput {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		outputHuman("%s", data)
		return nil
	}
	return outputJSON(cfg)
}
