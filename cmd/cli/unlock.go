package cli

import (
	"fmt"
	"strconv"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock SERIAL CHANNEL",
	Short: "Open a lock wired to a door station",
	Long: `Open a lock wired to a door station channel.

The number of locks per channel is shown by the devices command. Locks are
numbered from 0.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {

		serial := args[0]

		if !common.IsAllDigits(args[1]) {
			return fmt.Errorf("invalid channel: %s", args[1])
		}

		channel, err := strconv.Atoi(args[1])
		if err != nil || channel < 1 {
			return fmt.Errorf("invalid channel: %s", args[1])
		}

		lockIndex, _ := cmd.Flags().GetInt("lock")
		if lockIndex < 0 {
			return fmt.Errorf("invalid lock index: %d", lockIndex)
		}

		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		client, err := newLoggedInClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Unlock(ctx, serial, channel, lockIndex); err != nil {
			return err
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("Unlocked lock %d on channel %d of %s", lockIndex, channel, serial)))
		return nil
	},
}

func init() {
	unlockCmd.Flags().Int("lock", 0, "Lock index on the channel")
	rootCmd.AddCommand(unlockCmd)
}
