package isapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommand(t *testing.T) {
	body := []byte("<Time><timeMode>NTP</timeMode></Time>")
	cmd := NewCommand("put", "System/time", WithBody(ContentTypeXML, body), WithResponseType(ContentTypeXML))

	assert.Equal(t, http.MethodPut, cmd.Method())
	assert.Equal(t, "/System/time", cmd.Path())
	assert.Equal(t, ContentTypeXML, cmd.RequestContentType())
	assert.Equal(t, ContentTypeXML, cmd.ResponseContentType())
	assert.True(t, cmd.HasBody())
	assert.Equal(t, body, cmd.Body())
	assert.Equal(t, "PUT /System/time", cmd.String())
}

func TestNewCommand_Immutable(t *testing.T) {
	body := []byte("<a/>")
	cmd := NewCommand(http.MethodPut, "/System/time", WithBody(ContentTypeXML, body))

	body[0] = 'x'
	assert.Equal(t, []byte("<a/>"), cmd.Body())

	returned := cmd.Body()
	returned[0] = 'y'
	assert.Equal(t, []byte("<a/>"), cmd.Body())
}

func TestNewCommand_GetDropsBody(t *testing.T) {
	cmd := NewCommand(http.MethodGet, "/System/deviceInfo", WithBody(ContentTypeJSON, []byte("{}")))

	assert.False(t, cmd.HasBody())
	assert.Nil(t, cmd.Body())
	assert.Equal(t, ContentTypeNone, cmd.RequestContentType())
}

func TestContentType_MIME(t *testing.T) {
	assert.Equal(t, "", ContentTypeNone.MIME())
	assert.Equal(t, "application/xml", ContentTypeXML.MIME())
	assert.Equal(t, "application/json", ContentTypeJSON.MIME())
	assert.Equal(t, "application/octet-stream", ContentTypeOpaque.MIME())
}

func TestSystemCommands(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		path     string
		response ContentType
	}{
		{"deviceinfo", http.MethodGet, "/System/deviceInfo", ContentTypeXML},
		{"capabilities", http.MethodGet, "/System/capabilities", ContentTypeXML},
		{"time", http.MethodGet, "/System/time", ContentTypeXML},
		{"reboot", http.MethodPut, "/System/reboot", ContentTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, ok := SystemCommands[tt.name]
			if !assert.True(t, ok) {
				return
			}
			cmd := factory()
			assert.Equal(t, tt.method, cmd.Method())
			assert.Equal(t, tt.path, cmd.Path())
			assert.Equal(t, tt.response, cmd.ResponseContentType())
			assert.False(t, cmd.HasBody())
		})
	}
}

func TestFrameCommand(t *testing.T) {
	tests := []struct {
		name     string
		cmd      Command
		expected string
	}{
		{
			name:     "reboot without body",
			cmd:      Reboot(),
			expected: "PUT /ISAPI/System/reboot",
		},
		{
			name:     "get",
			cmd:      DeviceInfo(),
			expected: "GET /ISAPI/System/deviceInfo",
		},
		{
			name:     "put with body",
			cmd:      NewCommand(http.MethodPut, "/System/time", WithBody(ContentTypeXML, []byte("<Time/>"))),
			expected: "PUT /ISAPI/System/time\r\n<Time/>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []byte(tt.expected), FrameCommand(tt.cmd))
		})
	}
}
