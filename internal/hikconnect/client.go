package hikconnect

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint     = "https://api.hik-connect.com"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 2
	DefaultMaxPages     = 20

	clientType = "55"
	language   = "en-US"

	headerSessionID   = "sessionId"
	headerClientType  = "clientType"
	headerLanguage    = "lang"
	headerFeatureCode = "featureCode"
)

// Vendor result codes reported in meta.code.
const (
	CodeSuccess         = 200
	CodeInvalidPassword = 1013
	CodeUnknownAccount  = 1014
	CodeCaptchaRequired = 1015
	CodeRegionRedirect  = 1100
	CodeDeviceOffline   = 2003
)

const (
	loginPath            = "/v3/users/login/v2"
	refreshPath          = "/v3/apigateway/login"
	devicesPath          = "/v3/userdevices/v1/devices/pagelist"
	camerasPath          = "/v3/userdevices/v1/cameras/info"
	callOperationFormat  = "/v3/devconfig/v1/call/%s/operation"
	callStatusPathFormat = "/v3/devconfig/v1/call/%s/status"
	unlockPathFormat     = "/v3/devconfig/v1/call/%s/%d/remote/unlock"
)

type Options struct {
	// Endpoint is the regional API host the first login is sent to.
	Endpoint    string
	FeatureCode string
	Timeout     time.Duration
	// MaxRedirects bounds how many region redirects one login follows.
	MaxRedirects int
	// MaxPages bounds paged listings.
	MaxPages   int
	HTTPClient *http.Client
}

type Client struct {
	http         *resty.Client
	session      *models.Session
	featureCode  string
	maxRedirects int
	maxPages     int

	// refreshLock serialises refreshes, the refresh credential is single use.
	refreshLock sync.Mutex
}

func NewClient(opts Options) *Client {

	if len(opts.Endpoint) == 0 {
		opts.Endpoint = DefaultEndpoint
	}
	if len(opts.FeatureCode) == 0 {
		opts.FeatureCode = common.DefaultFeatureCode
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}

	client.
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", "hikconnect/"+common.GetBuildIdentifier()).
		SetHeaders(map[string]string{
			headerClientType:  clientType,
			headerLanguage:    language,
			headerFeatureCode: opts.FeatureCode,
		})

	logrus.WithFields(logrus.Fields{
		"endpoint": opts.Endpoint,
		"timeout":  opts.Timeout,
	}).Debugln("Creating new Hik-Connect client")

	return &Client{
		http:         client,
		session:      models.NewSession(opts.Endpoint),
		featureCode:  opts.FeatureCode,
		maxRedirects: opts.MaxRedirects,
		maxPages:     opts.MaxPages,
	}
}

func (c *Client) Session() *models.Session {
	return c.session
}

func (c *Client) NeedsRefresh(now time.Time) bool {
	return c.session.NeedsRefresh(now)
}

// EnsureFresh refreshes the session when it is due. It fails with
// models.ErrNotLoggedIn when there is nothing to refresh.
func (c *Client) EnsureFresh(ctx context.Context) error {
	if !c.session.NeedsRefresh(time.Now()) {
		return nil
	}
	if !c.session.IsAuthenticated() {
		return models.ErrNotLoggedIn
	}
	return c.Refresh(ctx)
}

// Close tears the session down. The client must not be used afterwards.
func (c *Client) Close() error {
	c.session.Clear()
	c.http.GetClient().CloseIdleConnections()
	return nil
}

// authorizedRequest builds a request bound to one session snapshot and
// returns the endpoint the snapshot was taken against.
func (c *Client) authorizedRequest(ctx context.Context) (*resty.Request, string, error) {
	endpoint, creds, ok := c.session.Snapshot()
	if !ok {
		return nil, "", models.ErrNotLoggedIn
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader(headerSessionID, creds.AccessToken)

	return req, endpoint, nil
}

// Call issues an authenticated request against the current endpoint and
// returns the parsed response envelope. The envelope's meta code is not
// inspected, see CheckEnvelope.
func (c *Client) Call(ctx context.Context, method string, path string, query map[string]string, form map[string]string) (Envelope, error) {

	req, endpoint, err := c.authorizedRequest(ctx)
	if err != nil {
		return Envelope{}, err
	}

	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if len(form) > 0 {
		req.SetFormData(form)
	}

	requestURL := common.JoinURL(endpoint, path)

	logrus.WithFields(logrus.Fields{
		"method": method,
		"url":    requestURL,
	}).Debugln("Sending Hik-Connect request")

	resp, err := common.MakeRequestFromBuilder(req, method, requestURL)
	if err != nil {
		return Envelope{}, &models.TransportError{Err: err}
	}

	return parseEnvelope(resp)
}
