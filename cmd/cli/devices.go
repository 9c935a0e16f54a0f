package cli

import (
	"errors"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices bound to the account",
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		client, err := newLoggedInClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		devices, err := client.ListDevices(ctx)

		// Show what was fetched before the page limit was hit.
		if err != nil && !errors.Is(err, models.ErrTooManyResults) {
			return err
		}

		if printErr := printer.Print(devices); printErr != nil {
			return printErr
		}

		return err
	},
}

var camerasCmd = &cobra.Command{
	Use:   "cameras [SERIAL]",
	Short: "List the cameras of a device",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		serial, err := resolveSerial(args)
		if err != nil {
			return err
		}

		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		client, err := newLoggedInClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		cameras, err := client.ListCameras(ctx, serial)
		if err != nil {
			return err
		}

		return printer.Print(cameras)
	},
}

// resolveSerial takes the device serial from the first argument, falling
// back to device.serial from the configuration.
func resolveSerial(args []string) (string, error) {
	if len(args) > 0 && len(args[0]) > 0 {
		return args[0], nil
	}
	if len(cfg.Device.Serial) > 0 {
		return cfg.Device.Serial, nil
	}
	return "", errors.New("no device serial given and device.serial is not configured")
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(camerasCmd)
}
