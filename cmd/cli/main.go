package cli

import (
	"fmt"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/config"
	"github.com/hikconnect-io/hikconnect/internal/output"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Global configuration instance
var cfg *config.Config
var printer *output.Printer

// loadConfig loads the configuration based on the --config flag or default locations
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, err := cmd.Flags().GetString("config")

	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	return config.Load(configFile)
}

func preRunConfigE(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = loadConfig(cmd)

	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// check if verbose flag is set
	verbose, err := cmd.Flags().GetBool("verbose")
	if err == nil && verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}

	expression, _ := cmd.Flags().GetString("jq")

	printer, err = output.NewPrinter(cmd.OutOrStdout(), format, expression)
	if err != nil {
		return err
	}

	return nil
}

var rootCmd = &cobra.Command{
	Use:   "hikconnect",
	Short: "Hik-Connect cloud client for door stations, NVRs and cameras",
	Long: `Hik-Connect cloud client.

Logs in to the Hik-Connect cloud, lists devices and cameras, controls intercom
calls and door locks, and sends ISAPI commands to devices either tunnelled
through the Hik-Connect API or through the open cloud gateway.

If no config file is specified, the following locations are searched:
  - ./config.yaml
  - ./config/config.yaml
  - /etc/hikconnect/config.yaml
  - ~/.config/hikconnect/config.yaml

Every setting can also be provided as an environment variable prefixed with
HIKCONNECT_, for example HIKCONNECT_ACCOUNT_USERNAME.`,
	PersistentPreRunE: preRunConfigE,
	SilenceUsage:      true,
}

func init() {

	rootCmd.Version = common.GetVersion()

	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default is $HOME/.config/hikconnect/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().String("jq", "", "jq expression applied to the output")

}

func GetCommandOptions() *cobra.Command {
	return rootCmd
}
