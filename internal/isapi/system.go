package isapi

import "net/http"

func DeviceInfo() Command {
	return NewCommand(http.MethodGet, "/System/deviceInfo", WithResponseType(ContentTypeXML))
}

func Capabilities() Command {
	return NewCommand(http.MethodGet, "/System/capabilities", WithResponseType(ContentTypeXML))
}

func Time() Command {
	return NewCommand(http.MethodGet, "/System/time", WithResponseType(ContentTypeXML))
}

func Reboot() Command {
	return NewCommand(http.MethodPut, "/System/reboot")
}

// SystemCommands maps the names accepted on the command line to the
// built-in commands.
var SystemCommands = map[string]func() Command{
	"deviceinfo":   DeviceInfo,
	"capabilities": Capabilities,
	"time":         Time,
	"reboot":       Reboot,
}
