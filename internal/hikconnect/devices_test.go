package hikconnect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loggedInClient logs a client in against server, which must answer the
// login path with validLoginResponse.
func loggedInClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client := newTestClient(server.URL)
	require.NoError(t, client.Login(context.Background(), "username", "password"))
	return client
}

func devicePage(hasNext bool, devices ...map[string]any) map[string]any {
	return map[string]any{
		"meta":        map[string]any{"code": 200},
		"page":        map[string]any{"offset": 0, "limit": 50, "hasNext": hasNext},
		"deviceInfos": devices,
		"statusInfos": map[string]any{
			"D12345678": map[string]any{
				"optionals": map[string]any{
					"lockNum":      `{"1":1,"2":1,"3":2,"4":0,"5":1,"6":1,"7":1,"8":1}`,
					"OnlineStatus": "1",
				},
			},
			"D66666666": map[string]any{
				"optionals": map[string]any{
					"OnlineStatus": "1",
				},
			},
		},
	}
}

func deviceInfo(serial string, name string) map[string]any {
	return map[string]any{
		"name":         name,
		"deviceSerial": serial,
		"fullSerial":   "DS-KH6210-L123456781234567812345678",
		"deviceType":   "DS-KH6210-L",
		"version":      "V1.5.1 build 190613",
		"status":       1,
	}
}

func TestListDevices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			writeJSON(w, validLoginResponse())
		case devicesPath:
			assert.Equal(t, capturedSessionID, r.Header.Get(headerSessionID))
			query := r.URL.Query()
			assert.Equal(t, "-1", query.Get("groupId"))
			assert.Equal(t, "50", query.Get("limit"))
			assert.Equal(t, "0", query.Get("offset"))
			assert.Equal(t, devicesFilter, query.Get("filter"))
			writeJSON(w, devicePage(false,
				deviceInfo("D12345678", "device with locks"),
				deviceInfo("D66666666", "device without locks"),
			))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := loggedInClient(t, server)

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "D12345678", devices[0].Serial)
	assert.Equal(t, "device with locks", devices[0].Name)
	assert.Equal(t, "DS-KH6210-L", devices[0].Type)
	assert.Equal(t, "DS-KH6210-L123456781234567812345678", devices[0].ID)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 2, 4: 0, 5: 1, 6: 1, 7: 1, 8: 1}, devices[0].Locks)

	assert.Equal(t, "D66666666", devices[1].Serial)
	assert.Empty(t, devices[1].Locks)
}

func TestListDevices_PagesUntilExhausted(t *testing.T) {
	var pages atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			writeJSON(w, validLoginResponse())
			return
		}
		page := int(pages.Add(1)) - 1
		assert.Equal(t, strconv.Itoa(page*devicesPageSize), r.URL.Query().Get("offset"))
		writeJSON(w, devicePage(page < 2, deviceInfo("D"+strconv.Itoa(page), "device")))
	}))
	defer server.Close()

	client := loggedInClient(t, server)

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 3)
	assert.Equal(t, int32(3), pages.Load())
}

func TestListDevices_TooManyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			writeJSON(w, validLoginResponse())
			return
		}
		writeJSON(w, devicePage(true, deviceInfo("D1", "device")))
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL, MaxPages: 3})
	require.NoError(t, client.Login(context.Background(), "username", "password"))

	devices, err := client.ListDevices(context.Background())

	var tooMany *models.TooManyResultsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 3, tooMany.Pages)
	assert.Equal(t, 3, tooMany.Fetched)
	assert.Len(t, devices, 3)
}

func TestListDevices_NotLoggedIn(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")
	_, err := client.ListDevices(context.Background())
	assert.ErrorIs(t, err, models.ErrNotLoggedIn)
}

func TestListCameras(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			writeJSON(w, validLoginResponse())
		case camerasPath:
			assert.Equal(t, "D12345678", r.URL.Query().Get("deviceSerial"))
			writeJSON(w, map[string]any{
				"meta": map[string]any{"code": 200},
				"cameraInfos": []map[string]any{
					{
						"cameraId":          "cam-1",
						"cameraName":        "Front door",
						"channelNo":         1,
						"deviceChannelInfo": map[string]any{"signalStatus": 1},
						"isShow":            1,
					},
				},
			})
		}
	}))
	defer server.Close()

	client := loggedInClient(t, server)

	cameras, err := client.ListCameras(context.Background(), "D12345678")
	require.NoError(t, err)
	require.Len(t, cameras, 1)
	assert.Equal(t, models.Camera{
		ID:            "cam-1",
		Name:          "Front door",
		ChannelNumber: 1,
		SignalStatus:  1,
		IsShown:       1,
	}, cameras[0])
}
