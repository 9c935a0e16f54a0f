package hikconnect

import (
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/tidwall/gjson"
)

// Envelope is a decoded cloud API response. Only the fields a caller asks
// for are extracted.
type Envelope struct {
	body gjson.Result
}

func parseEnvelope(resp *resty.Response) (Envelope, error) {

	if resp.IsError() {
		return Envelope{}, &models.TransportError{
			Code:    strconv.Itoa(resp.StatusCode()),
			Message: http.StatusText(resp.StatusCode()),
		}
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return Envelope{}, &models.MalformedResponseError{Field: "body"}
	}

	return Envelope{body: gjson.ParseBytes(body)}, nil
}

func (e Envelope) Get(path string) gjson.Result {
	return e.body.Get(path)
}

// Code returns meta.code, false when the response carries no meta block.
func (e Envelope) Code() (int, bool) {
	code := e.body.Get("meta.code")
	if !code.Exists() {
		return 0, false
	}
	return int(code.Int()), true
}

func (e Envelope) Message() string {
	return e.body.Get("meta.message").String()
}

// RequireString returns a non-empty string field or a MalformedResponseError
// naming it.
func (e Envelope) RequireString(path string) (string, error) {
	value := e.body.Get(path)
	if !value.Exists() || value.Type != gjson.String || len(value.Str) == 0 {
		return "", &models.MalformedResponseError{Field: path}
	}
	return value.Str, nil
}

// CheckEnvelope maps a non-success meta code to a typed error. A response
// without a meta block is accepted as is.
func CheckEnvelope(e Envelope, deviceSerial string) error {
	code, ok := e.Code()
	if !ok {
		return nil
	}

	switch code {
	case CodeSuccess:
		return nil
	case CodeDeviceOffline:
		return &models.DeviceOfflineError{DeviceSerial: deviceSerial}
	default:
		return &models.TransportError{
			Code:    strconv.Itoa(code),
			Message: e.Message(),
		}
	}
}
