package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type loginResult struct {
	Endpoint   string    `json:"endpoint" yaml:"endpoint"`
	ValidUntil time.Time `json:"valid_until" yaml:"valid_until"`
	ExpiresIn  string    `json:"expires_in" yaml:"expires_in"`
}

func (l loginResult) Headers() []string {
	return []string{"Endpoint", "Valid until", "Expires in"}
}

func (l loginResult) Rows() [][]string {
	return [][]string{{l.Endpoint, l.ValidUntil.Local().Format(time.RFC1123), l.ExpiresIn}}
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to Hik-Connect",
	Long: `Log in to Hik-Connect and show which regional endpoint owns the account.

Missing credentials are prompted for. When Hik-Connect asks for a CAPTCHA,
complete it in the Hik-Connect app or website and enter the code shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {

		ctx, cleanup := common.WithInterrupt(cmd.Context())
		defer cleanup()

		client, err := newLoggedInClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		validUntil, _ := client.Session().ValidUntil()

		return printer.Print(loginResult{
			Endpoint:   client.Session().Endpoint(),
			ValidUntil: validUntil,
			ExpiresIn:  common.FormatDurationRemaining(time.Until(validUntil).Round(time.Second)),
		})
	},
}

// newLoggedInClient builds a client from the configuration and logs it in,
// prompting for anything the configuration does not provide.
func newLoggedInClient(ctx context.Context) (*hikconnect.Client, error) {

	username := cfg.Account.Username
	password := cfg.Account.Password

	if len(username) == 0 || len(password) == 0 {
		if err := promptCredentials(&username, &password); err != nil {
			return nil, err
		}
	}

	client := hikconnect.NewClient(cfg.ClientOptions())

	err := client.Login(ctx, username, password)

	if errors.Is(err, models.ErrCaptchaRequired) {

		fmt.Println(warningStyle.Render("Hik-Connect requires a CAPTCHA for this login"))

		imageCode, promptErr := promptImageCode()
		if promptErr != nil {
			return nil, promptErr
		}

		err = client.Login(ctx, username, password, hikconnect.WithImageCode(imageCode))
	}

	if err != nil {
		logrus.WithError(err).Debugln("Login failed")
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return client, nil
}

func promptCredentials(username *string, password *string) error {
	fmt.Println(titleStyle.Render("Hik-Connect Login"))

	var fields []huh.Field

	if len(*username) == 0 {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Description("Hik-Connect account e-mail or user name").
			Value(username).
			Validate(func(s string) error {
				if len(s) == 0 {
					return errors.New("username is required")
				}
				return nil
			}))
	}

	if len(*password) == 0 {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("login prompt cancelled: %w", err)
	}

	return nil
}

func promptImageCode() (string, error) {
	var imageCode string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CAPTCHA code").
				Description("Complete the CAPTCHA in the Hik-Connect app or website, then enter the code").
				Value(&imageCode).
				Validate(func(s string) error {
					if len(s) == 0 {
						return errors.New("code is required")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("CAPTCHA prompt cancelled: %w", err)
	}

	return imageCode, nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
