package cli

import (
	"errors"
	"fmt"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file with every default spelled out and a freshly
generated feature code identifying this installation to Hik-Connect.`,
	// The file may not exist yet, so no config is loaded.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {

		path, _ := cmd.Flags().GetString("config")
		if len(path) == 0 {
			var err error
			path, err = config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to find home directory: %w", err)
			}
		}

		force, _ := cmd.Flags().GetBool("force")

		err := config.WriteStarter(path, common.NewFeatureCode(), force)
		if errors.Is(err, config.ErrConfigExists) {
			fmt.Println(warningStyle.Render("Configuration already exists, use --force to replace it"))
		}
		if err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Wrote " + path))
		fmt.Println(infoStyle.Render("Fill in account.username and account.password, or set HIKCONNECT_ACCOUNT_USERNAME and HIKCONNECT_ACCOUNT_PASSWORD"))
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Replace an existing configuration file")
	rootCmd.AddCommand(initCmd)
}
