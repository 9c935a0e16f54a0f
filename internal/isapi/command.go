package isapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
)

type ContentType int

const (
	ContentTypeNone ContentType = iota
	ContentTypeXML
	ContentTypeJSON
	ContentTypeOpaque
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeXML:
		return "xml"
	case ContentTypeJSON:
		return "json"
	case ContentTypeOpaque:
		return "opaque"
	default:
		return "none"
	}
}

// MIME returns the media type sent as Content-Type, empty for none.
func (c ContentType) MIME() string {
	switch c {
	case ContentTypeXML:
		return "application/xml"
	case ContentTypeJSON:
		return "application/json"
	case ContentTypeOpaque:
		return "application/octet-stream"
	default:
		return ""
	}
}

// Command is an immutable ISAPI request. The path is relative to /ISAPI,
// for example /System/deviceInfo.
type Command struct {
	method       string
	path         string
	requestType  ContentType
	responseType ContentType
	body         []byte
}

type CommandOption func(*Command)

// WithBody attaches a payload. It is ignored for GET commands.
func WithBody(contentType ContentType, body []byte) CommandOption {
	return func(c *Command) {
		c.requestType = contentType
		c.body = bytes.Clone(body)
	}
}

// WithResponseType declares what the device is expected to answer with.
func WithResponseType(contentType ContentType) CommandOption {
	return func(c *Command) {
		c.responseType = contentType
	}
}

func NewCommand(method string, path string, opts ...CommandOption) Command {

	cmd := Command{
		method: strings.ToUpper(method),
		path:   "/" + strings.TrimLeft(path, "/"),
	}

	for _, opt := range opts {
		opt(&cmd)
	}

	if cmd.method == http.MethodGet || len(cmd.body) == 0 {
		cmd.body = nil
		cmd.requestType = ContentTypeNone
	}

	return cmd
}

func (c Command) Method() string {
	return c.method
}

func (c Command) Path() string {
	return c.path
}

func (c Command) RequestContentType() ContentType {
	return c.requestType
}

func (c Command) ResponseContentType() ContentType {
	return c.responseType
}

func (c Command) HasBody() bool {
	return len(c.body) > 0
}

// Body returns a copy of the payload, nil when there is none.
func (c Command) Body() []byte {
	return bytes.Clone(c.body)
}

func (c Command) String() string {
	return fmt.Sprintf("%s %s", c.method, c.path)
}
