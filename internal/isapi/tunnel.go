package isapi

import (
	"bytes"
	"context"
	"net/http"

	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	tunnelPath      = "/v3/userdevices/v1/isapi"
	tunnelAPIKey    = "100044"
	tunnelChannelNo = "1"
)

// Caller issues an authenticated Hik-Connect API call. hikconnect.Client
// implements it.
type Caller interface {
	Call(ctx context.Context, method string, path string, query map[string]string, form map[string]string) (hikconnect.Envelope, error)
}

// TunnelTransport wraps commands inside Hik-Connect API calls. The session
// credential is read when each call is issued, so a refresh between two
// executions is picked up by the second one.
type TunnelTransport struct {
	api          Caller
	deviceSerial string
}

func NewTunnelTransport(api Caller, deviceSerial string) *TunnelTransport {
	return &TunnelTransport{
		api:          api,
		deviceSerial: deviceSerial,
	}
}

// FrameCommand encodes a command the way the device expects it once
// unwrapped: "<METHOD> /ISAPI<path>", then CRLF and the body if any.
func FrameCommand(cmd Command) []byte {
	var buf bytes.Buffer
	buf.WriteString(cmd.Method())
	buf.WriteString(" /ISAPI")
	buf.WriteString(cmd.Path())
	if cmd.Method() != http.MethodGet && cmd.HasBody() {
		buf.WriteString("\r\n")
		buf.Write(cmd.Body())
	}
	return buf.Bytes()
}

// Execute returns the tunnelled response unchanged. A failed cloud envelope
// is reported as an error, the device's own ISAPI status inside the
// response is left to the caller.
func (t *TunnelTransport) Execute(ctx context.Context, cmd Command) ([]byte, error) {

	logrus.WithFields(logrus.Fields{
		"command": cmd.String(),
		"serial":  t.deviceSerial,
	}).Debugln("Sending tunnelled ISAPI request")

	envelope, err := t.api.Call(ctx, http.MethodPost, tunnelPath, nil, map[string]string{
		"apiKey":       tunnelAPIKey,
		"channelNo":    tunnelChannelNo,
		"deviceSerial": t.deviceSerial,
		"apiData":      string(FrameCommand(cmd)),
	})
	if err != nil {
		return nil, err
	}

	if err := hikconnect.CheckEnvelope(envelope, t.deviceSerial); err != nil {
		return nil, err
	}

	data := envelope.Get("data")
	if !data.Exists() || data.Type != gjson.String {
		return nil, &models.MalformedResponseError{Field: "data"}
	}

	logrus.WithFields(logrus.Fields{
		"command": cmd.String(),
		"bytes":   len(data.Str),
	}).Debugln("Got tunnelled ISAPI response")

	return []byte(data.Str), nil
}
