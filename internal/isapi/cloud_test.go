package isapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceInfoXML = `<?xml version="1.0" encoding="UTF-8" ?>
<DeviceInfo version="2.0" xmlns="http://www.isapi.org/ver20/XMLSchema">
<deviceName>Embedded Net VIS</deviceName>
<model>DS-KH6320-WTE1</model>
</DeviceInfo>
`

func TestCloudTransport_Execute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/hikvision/ISAPI/System/deviceInfo", r.URL.Path)
		assert.Equal(t, "token", r.Header.Get(headerAccessToken))
		assert.Equal(t, "D1", r.Header.Get(headerDeviceSerial))
		assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`), r.Header.Get(headerDate))
		assert.Empty(t, r.Header.Get("Content-Type"))

		w.Header().Set(headerCode, "200")
		w.Header().Set(headerMessage, "Operation succeeded")
		_, _ = w.Write([]byte(deviceInfoXML))
	}))
	defer server.Close()

	transport := NewCloudTransport(CloudOptions{
		Endpoint:     server.URL + "/api/hikvision",
		AccessToken:  "token",
		DeviceSerial: "D1",
	})
	defer transport.Close()

	body, err := transport.Execute(context.Background(), DeviceInfo())
	require.NoError(t, err)
	assert.Equal(t, []byte(deviceInfoXML), body)
}

func TestCloudTransport_DateRecomputedPerCall(t *testing.T) {
	var mu sync.Mutex
	var dates []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		dates = append(dates, r.Header.Get(headerDate))
		mu.Unlock()
		w.Header().Set(headerCode, "200")
	}))
	defer server.Close()

	transport := NewCloudTransport(CloudOptions{Endpoint: server.URL})
	clock := time.Date(2021, 11, 18, 10, 0, 0, 0, time.UTC)
	transport.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, err := transport.Execute(context.Background(), Time())
	require.NoError(t, err)
	_, err = transport.Execute(context.Background(), Time())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"2021-11-18 10:00:01", "2021-11-18 10:00:02"}, dates)
}

func TestCloudTransport_SendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "<Time/>", string(body))
		w.Header().Set(headerCode, "200")
	}))
	defer server.Close()

	transport := NewCloudTransport(CloudOptions{Endpoint: server.URL})

	cmd := NewCommand(http.MethodPut, "/System/time", WithBody(ContentTypeXML, []byte("<Time/>")))
	_, err := transport.Execute(context.Background(), cmd)
	require.NoError(t, err)
}

func TestCloudTransport_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		code    string
		message string
		errCode string
	}{
		{name: "missing code with http 200", status: http.StatusOK, errCode: ""},
		{name: "vendor failure with http 200", status: http.StatusOK, code: "20007", message: "device offline", errCode: "20007"},
		{name: "vendor failure with http 500", status: http.StatusInternalServerError, code: "500", message: "internal", errCode: "500"},
		{name: "http failure with vendor success", status: http.StatusBadGateway, code: "200", errCode: "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if len(tt.code) > 0 {
					w.Header().Set(headerCode, tt.code)
				}
				if len(tt.message) > 0 {
					w.Header().Set(headerMessage, tt.message)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("partial"))
			}))
			defer server.Close()

			transport := NewCloudTransport(CloudOptions{Endpoint: server.URL})
			body, err := transport.Execute(context.Background(), Reboot())

			assert.Nil(t, body)
			assert.ErrorIs(t, err, models.ErrTransport)

			var transportErr *models.TransportError
			require.ErrorAs(t, err, &transportErr)
			assert.Equal(t, tt.errCode, transportErr.Code)
			if len(tt.message) > 0 {
				assert.Equal(t, tt.message, transportErr.Message)
			}
		})
	}
}

func TestCloudTransport_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	transport := NewCloudTransport(CloudOptions{Endpoint: endpoint, Timeout: time.Second})
	body, err := transport.Execute(context.Background(), DeviceInfo())

	assert.Nil(t, body)
	assert.ErrorIs(t, err, models.ErrTransport)
}
