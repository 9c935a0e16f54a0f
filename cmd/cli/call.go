package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/hikconnect-io/hikconnect/internal/sessions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Inspect and control intercom calls",
}

var callStatusCmd = &cobra.Command{
	Use:   "status [SERIAL]",
	Short: "Show the call state of a door station",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDeviceClient(cmd, args, func(ctx context.Context, client *hikconnect.Client, serial string) error {
			status, err := client.CallStatus(ctx, serial)
			if err != nil {
				return err
			}
			return printer.Print(status)
		})
	},
}

// callOperationCmd builds the answer, cancel and hangup commands, which
// only differ in the client method they call.
func callOperationCmd(use string, short string, done string, operation func(*hikconnect.Client, context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [SERIAL]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeviceClient(cmd, args, func(ctx context.Context, client *hikconnect.Client, serial string) error {
				if err := operation(client, ctx, serial); err != nil {
					return err
				}
				fmt.Println(successStyle.Render(fmt.Sprintf("%s on %s", done, serial)))
				return nil
			})
		},
	}
}

var callWatchCmd = &cobra.Command{
	Use:   "watch [SERIAL]",
	Short: "Poll the call state until interrupted",
	Long: `Poll the call state of a door station and print every change until
interrupted. The session is refreshed in the background while watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		every, _ := cmd.Flags().GetDuration("every")
		if every < time.Second {
			return fmt.Errorf("poll interval must be at least 1s")
		}

		return withDeviceClient(cmd, args, func(ctx context.Context, client *hikconnect.Client, serial string) error {

			interval, err := cfg.GetRefreshInterval()
			if err != nil {
				return err
			}

			keeper := sessions.NewKeeper(client, interval)
			if err := keeper.Start(ctx); err != nil {
				return err
			}
			defer keeper.Stop()

			fmt.Println(headerStyle.Render(fmt.Sprintf("Watching calls on %s", serial)))

			return watchCalls(ctx, client, serial, every)
		})
	},
}

func watchCalls(ctx context.Context, client *hikconnect.Client, serial string, every time.Duration) error {

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var last models.CallState

	for {
		status, err := client.CallStatus(ctx, serial)

		switch {
		case err == nil:
			if status.Status != last {
				printCallState(status)
				last = status.Status
			}
		case errors.Is(err, models.ErrDeviceOffline):
			if last != "" {
				fmt.Println(warningStyle.Render(fmt.Sprintf("%s is offline", serial)))
				last = ""
			}
		case ctx.Err() != nil:
			return nil
		default:
			logrus.WithError(err).Warnln("Failed to get call status")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printCallState(status *models.CallStatus) {
	timestamp := time.Now().Format(time.TimeOnly)

	switch status.Status {
	case models.CallStateRinging:
		fmt.Println(timestamp, ringingStyle.Render(string(status.Status)))
	case models.CallStateIdle:
		fmt.Println(timestamp, idleStyle.Render(string(status.Status)))
	default:
		fmt.Println(timestamp, infoStyle.Render(string(status.Status)))
	}
}

// withDeviceClient resolves the device serial, logs in and runs fn with a
// context cancelled on interrupt.
func withDeviceClient(cmd *cobra.Command, args []string, fn func(context.Context, *hikconnect.Client, string) error) error {

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

	return fn(ctx, client, serial)
}

func init() {
	callWatchCmd.Flags().Duration("every", 2*time.Second, "Poll interval")

	callCmd.AddCommand(callStatusCmd)
	callCmd.AddCommand(callOperationCmd("answer", "Answer a ringing call", "Answered call", (*hikconnect.Client).AnswerCall))
	callCmd.AddCommand(callOperationCmd("cancel", "Cancel a ringing call", "Cancelled call", (*hikconnect.Client).CancelCall))
	callCmd.AddCommand(callOperationCmd("hangup", "Hang up a call in progress", "Hung up call", (*hikconnect.Client).HangupCall))
	callCmd.AddCommand(callWatchCmd)

	rootCmd.AddCommand(callCmd)
}
