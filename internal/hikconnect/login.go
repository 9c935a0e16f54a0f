package hikconnect

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strings"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
)

type loginOptions struct {
	imageCode string
}

type LoginOption func(*loginOptions)

// WithImageCode submits the plaintext answer to a CAPTCHA presented after
// a previous CaptchaRequiredError.
func WithImageCode(code string) LoginOption {
	return func(o *loginOptions) {
		o.imageCode = code
	}
}

// HashPassword returns the hex MD5 digest of the UTF-8 password. This is
// the vendor's wire format, not a protection of the password.
func HashPassword(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login authenticates against the session's endpoint. A region redirect
// restarts the handshake against the host named by the cloud, at most
// MaxRedirects times. The session is only touched once a login succeeds.
func (c *Client) Login(ctx context.Context, username string, password string, opts ...LoginOption) error {

	options := loginOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	form := map[string]string{
		"account":  username,
		"password": HashPassword(password),
	}
	if len(options.imageCode) > 0 {
		form["imageCode"] = options.imageCode
	}

	endpoint := c.session.Endpoint()
	redirects := 0

	for {

		envelope, err := c.submitLogin(ctx, endpoint, form)
		if err != nil {
			return err
		}

		code, ok := envelope.Code()
		if !ok {
			return &models.MalformedResponseError{Field: "meta.code"}
		}

		switch code {

		case CodeSuccess:
			return c.completeLogin(endpoint, username, envelope)

		case CodeInvalidPassword, CodeUnknownAccount:
			return &models.AuthenticationError{
				Code:    code,
				Message: "Login failed, probably wrong username/password combination",
			}

		case CodeCaptchaRequired:
			return &models.CaptchaRequiredError{Code: code}

		case CodeRegionRedirect:
			next, err := redirectEndpoint(endpoint, envelope)
			if err != nil {
				return err
			}

			if strings.EqualFold(next, endpoint) || redirects >= c.maxRedirects {
				return &models.TooManyRedirectsError{
					Redirects: redirects,
					Endpoint:  next,
				}
			}

			redirects++

			logrus.WithFields(logrus.Fields{
				"from":      endpoint,
				"to":        next,
				"redirects": redirects,
			}).Infoln("Switching API domain")

			endpoint = next

		default:
			return &models.AuthenticationError{
				Code:    code,
				Message: envelope.Message(),
			}
		}
	}
}

func (c *Client) submitLogin(ctx context.Context, endpoint string, form map[string]string) (Envelope, error) {

	loginURL := common.JoinURL(endpoint, loginPath)

	logrus.WithFields(logrus.Fields{
		"url":     loginURL,
		"account": form["account"],
	}).Debugln("Sending login request")

	// A login never carries a session id, even when one is held.
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(loginURL)

	if err != nil {
		return Envelope{}, &models.TransportError{Err: err}
	}

	envelope, err := parseEnvelope(resp)
	if err != nil {
		return Envelope{}, err
	}

	code, _ := envelope.Code()
	logrus.WithFields(logrus.Fields{
		"url":  loginURL,
		"code": code,
	}).Debugln("Got login response")

	return envelope, nil
}

func (c *Client) completeLogin(endpoint string, username string, envelope Envelope) error {

	access, err := envelope.RequireString("loginSession.sessionId")
	if err != nil {
		return err
	}

	refresh, err := envelope.RequireString("loginSession.rfSessionId")
	if err != nil {
		return err
	}

	if err := c.session.ApplyLogin(endpoint, access, refresh); err != nil {
		return err
	}

	validUntil, _ := c.session.ValidUntil()

	logrus.WithFields(logrus.Fields{
		"endpoint":   endpoint,
		"sessionId":  models.TruncateToken(access),
		"validUntil": validUntil,
	}).Infof("Login successful as username '%s'", username)

	return nil
}

// redirectEndpoint builds the endpoint named by loginArea.apiDomain, keeping
// the scheme of the endpoint that issued the redirect.
func redirectEndpoint(current string, envelope Envelope) (string, error) {

	domain, err := envelope.RequireString("loginArea.apiDomain")
	if err != nil {
		return "", err
	}

	scheme := "https"
	if parsed, err := url.Parse(current); err == nil && len(parsed.Scheme) > 0 {
		scheme = parsed.Scheme
	}

	return scheme + "://" + strings.TrimRight(domain, "/"), nil
}

// Refresh exchanges the refresh credential for a new credential pair. The
// request is sent without a session id header.
func (c *Client) Refresh(ctx context.Context) error {

	c.refreshLock.Lock()
	defer c.refreshLock.Unlock()

	endpoint, creds, ok := c.session.Snapshot()
	if !ok || len(creds.RefreshToken) == 0 {
		return models.ErrNotLoggedIn
	}

	refreshURL := common.JoinURL(endpoint, refreshPath)

	logrus.WithFields(logrus.Fields{
		"url":        refreshURL,
		"validUntil": creds.ValidUntil,
	}).Debugln("Sending refresh login request")

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"refreshSessionId": creds.RefreshToken,
			"featureCode":      c.featureCode,
		}).
		Put(refreshURL)

	if err != nil {
		return &models.TransportError{Err: err}
	}

	envelope, err := parseEnvelope(resp)
	if err != nil {
		return err
	}

	if code, ok := envelope.Code(); ok && code != CodeSuccess {
		return &models.AuthenticationError{
			Code:    code,
			Message: envelope.Message(),
		}
	}

	access, err := envelope.RequireString("sessionInfo.sessionId")
	if err != nil {
		return err
	}

	refresh, err := envelope.RequireString("sessionInfo.refreshSessionId")
	if err != nil {
		return err
	}

	if err := c.session.ApplyCredentials(access, refresh); err != nil {
		return err
	}

	validUntil, _ := c.session.ValidUntil()

	logrus.WithFields(logrus.Fields{
		"sessionId":  models.TruncateToken(access),
		"validUntil": validUntil,
	}).Infoln("Login refreshed successfully")

	return nil
}
