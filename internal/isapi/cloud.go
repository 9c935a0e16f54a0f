package isapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCloudEndpoint = "https://ieuopen.ezvizlife.com/api/hikvision"
	DefaultCloudTimeout  = 30 * time.Second

	headerDate         = "EZO-Date"
	headerAccessToken  = "EZO-AccessToken"
	headerDeviceSerial = "EZO-DeviceSerial"
	headerCode         = "EZO-Code"
	headerMessage      = "EZO-Message"

	cloudDateFormat  = "2006-01-02 15:04:05"
	cloudCodeSuccess = "200"
)

type CloudOptions struct {
	// Endpoint is the gateway base, /ISAPI and the command path are appended.
	Endpoint     string
	AccessToken  string
	DeviceSerial string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// CloudTransport sends commands straight to the open cloud gateway. The
// gateway reports its own status in the EZO-Code header, which is checked
// on every response regardless of the HTTP status.
type CloudTransport struct {
	http         *resty.Client
	endpoint     string
	accessToken  string
	deviceSerial string
	now          func() time.Time
}

func NewCloudTransport(opts CloudOptions) *CloudTransport {

	if len(opts.Endpoint) == 0 {
		opts.Endpoint = DefaultCloudEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCloudTimeout
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}

	client.
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "hikconnect/"+common.GetBuildIdentifier())

	return &CloudTransport{
		http:         client,
		endpoint:     opts.Endpoint,
		accessToken:  opts.AccessToken,
		deviceSerial: opts.DeviceSerial,
		now:          time.Now,
	}
}

func (t *CloudTransport) Execute(ctx context.Context, cmd Command) ([]byte, error) {

	req := t.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			headerDate:         t.now().Format(cloudDateFormat),
			headerAccessToken:  t.accessToken,
			headerDeviceSerial: t.deviceSerial,
		})

	if cmd.HasBody() {
		req.SetHeader("Content-Type", cmd.RequestContentType().MIME()).
			SetBody(cmd.Body())
	}

	requestURL := common.JoinURL(t.endpoint, "/ISAPI"+cmd.Path())

	logrus.WithFields(logrus.Fields{
		"command": cmd.String(),
		"url":     requestURL,
		"serial":  t.deviceSerial,
	}).Debugln("Sending ISAPI request to cloud gateway")

	resp, err := common.MakeRequestFromBuilder(req, cmd.Method(), requestURL)
	if err != nil {
		return nil, &models.TransportError{Err: err}
	}

	code := resp.Header().Get(headerCode)

	logrus.WithFields(logrus.Fields{
		"command": cmd.String(),
		"status":  resp.StatusCode(),
		"code":    code,
	}).Debugln("Got ISAPI response from cloud gateway")

	if code != cloudCodeSuccess {
		return nil, &models.TransportError{
			Code:    code,
			Message: resp.Header().Get(headerMessage),
		}
	}

	if resp.IsError() {
		return nil, &models.TransportError{
			Code:    strconv.Itoa(resp.StatusCode()),
			Message: http.StatusText(resp.StatusCode()),
		}
	}

	return resp.Body(), nil
}

func (t *CloudTransport) Close() error {
	t.http.GetClient().CloseIdleConnections()
	return nil
}
