package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/isapi"
	"github.com/spf13/cobra"
)

var isapiCmd = &cobra.Command{
	Use:   "isapi",
	Short: "Send ISAPI commands to a device",
	Long: `Send ISAPI commands to a device and print the raw response.

The tunnel transport wraps the command in a Hik-Connect API call and needs
the account credentials. The cloud transport talks to the open cloud gateway
and needs cloud.access_token.`,
}

var isapiRequestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an arbitrary ISAPI command",
	Long: `Send an arbitrary ISAPI command. PATH is relative to /ISAPI, for example
/System/deviceInfo. A body is read from --data, use - for stdin.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {

		var opts []isapi.CommandOption

		dataFile, _ := cmd.Flags().GetString("data")
		if len(dataFile) > 0 {
			body, err := readData(cmd, dataFile)
			if err != nil {
				return err
			}

			contentTypeFlag, _ := cmd.Flags().GetString("content-type")
			contentType, err := parseContentType(contentTypeFlag)
			if err != nil {
				return err
			}

			opts = append(opts, isapi.WithBody(contentType, body))
		}

		return executeISAPI(cmd, isapi.NewCommand(args[0], args[1], opts...))
	},
}

func systemCommand(name string, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			factory, ok := isapi.SystemCommands[name]
			if !ok {
				return fmt.Errorf("unknown command: %s", name)
			}

			if name == "reboot" {
				if confirmed, err := confirmReboot(cmd); err != nil || !confirmed {
					return err
				}
			}

			return executeISAPI(cmd, factory())
		},
	}
}

func confirmReboot(cmd *cobra.Command) (bool, error) {
	yes, _ := cmd.Flags().GetBool("yes")
	if yes {
		return true, nil
	}

	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reboot the device?").
				Description("The device is unreachable until it has restarted").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("reboot prompt cancelled: %w", err)
	}

	if !confirmed {
		fmt.Println(warningStyle.Render("Reboot cancelled"))
	}

	return confirmed, nil
}

func executeISAPI(cmd *cobra.Command, command isapi.Command) error {

	ctx, cleanup := common.WithInterrupt(cmd.Context())
	defer cleanup()

	transport, closeTransport, err := newTransport(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeTransport()

	body, err := transport.Execute(ctx, command)
	if err != nil {
		return err
	}

	return printer.PrintRaw(body)
}

// newTransport builds the transport selected by --transport. The returned
// function releases whatever the transport holds.
func newTransport(ctx context.Context, cmd *cobra.Command) (isapi.Transport, func(), error) {

	serial, _ := cmd.Flags().GetString("serial")
	if len(serial) == 0 {
		serial = cfg.Device.Serial
	}
	if len(serial) == 0 {
		return nil, nil, errors.New("no device serial given and device.serial is not configured")
	}

	name, _ := cmd.Flags().GetString("transport")

	switch strings.ToLower(name) {

	case isapi.TransportTunnel:
		client, err := newLoggedInClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		return isapi.NewTunnelTransport(client, serial), func() { client.Close() }, nil

	case isapi.TransportCloud:
		if len(cfg.Cloud.AccessToken) == 0 {
			return nil, nil, errors.New("the cloud transport needs cloud.access_token")
		}
		transport := isapi.NewCloudTransport(cfg.CloudOptions(serial))
		return transport, func() { transport.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown transport: %s. Expect %s or %s",
			name, isapi.TransportTunnel, isapi.TransportCloud)
	}
}

func parseContentType(name string) (isapi.ContentType, error) {
	switch strings.ToLower(name) {
	case "xml":
		return isapi.ContentTypeXML, nil
	case "json":
		return isapi.ContentTypeJSON, nil
	case "opaque", "binary":
		return isapi.ContentTypeOpaque, nil
	default:
		return isapi.ContentTypeNone, fmt.Errorf("unknown content type: %s", name)
	}
}

func readData(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func init() {
	isapiCmd.PersistentFlags().String("transport", isapi.TransportTunnel, "Transport: tunnel or cloud")
	isapiCmd.PersistentFlags().String("serial", "", "Device serial (default device.serial)")

	descriptions := map[string]string{
		"deviceinfo":   "Show device information",
		"capabilities": "Show device capabilities",
		"time":         "Show the device clock",
		"reboot":       "Reboot the device",
	}

	names := make([]string, 0, len(isapi.SystemCommands))
	for name := range isapi.SystemCommands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		command := systemCommand(name, descriptions[name])
		if name == "reboot" {
			command.Flags().BoolP("yes", "y", false, "Reboot without asking")
		}
		isapiCmd.AddCommand(command)
	}

	isapiRequestCmd.Flags().String("data", "", "File with the request body, - for stdin")
	isapiRequestCmd.Flags().String("content-type", "xml", "Body content type: xml, json or opaque")
	isapiCmd.AddCommand(isapiRequestCmd)

	rootCmd.AddCommand(isapiCmd)
}
