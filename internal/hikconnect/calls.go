package hikconnect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

type callCommand int

const (
	callCommandAnswer callCommand = 2
	callCommandCancel callCommand = 3
	callCommandHangup callCommand = 5
)

func (c callCommand) String() string {
	switch c {
	case callCommandAnswer:
		return "answer"
	case callCommandCancel:
		return "cancel"
	case callCommandHangup:
		return "hangup"
	default:
		return "unknown"
	}
}

// callerInfoFields maps callerInfo keys to the names reported in CallStatus.
var callerInfoFields = map[string]string{
	"buildingNo": "building_number",
	"floorNo":    "floor_number",
	"zoneNo":     "zone_number",
	"unitNo":     "unit_number",
	"devNo":      "device_number",
	"devType":    "device_type",
	"lockNum":    "lock_number",
}

// Unlock opens a lock wired to a door station channel. lockIndex starts at
// zero; the lock counts per channel are reported by ListDevices.
func (c *Client) Unlock(ctx context.Context, deviceSerial string, channel int, lockIndex int) error {

	path := fmt.Sprintf(unlockPathFormat, url.PathEscape(deviceSerial), channel)

	envelope, err := c.Call(ctx, http.MethodPut, path, map[string]string{
		"srcId":    "1",
		"lockId":   strconv.Itoa(lockIndex),
		"userType": "0",
	}, nil)
	if err != nil {
		return err
	}

	if err := CheckEnvelope(envelope, deviceSerial); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"serial":    deviceSerial,
		"channel":   channel,
		"lockIndex": lockIndex,
	}).Infoln("Unlocked device")

	return nil
}

func (c *Client) CallStatus(ctx context.Context, deviceSerial string) (*models.CallStatus, error) {

	path := fmt.Sprintf(callStatusPathFormat, url.PathEscape(deviceSerial))

	envelope, err := c.Call(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	if err := CheckEnvelope(envelope, deviceSerial); err != nil {
		return nil, err
	}

	// data is usually a JSON document encoded as a string.
	raw := envelope.Get("data")
	var data gjson.Result
	switch {
	case raw.Type == gjson.String && gjson.Valid(raw.Str):
		data = gjson.Parse(raw.Str)
	case raw.IsObject():
		data = raw
	default:
		return nil, &models.MalformedResponseError{Field: "data"}
	}

	state := models.CallStateFromCode(int(data.Get("callStatus").Int()))
	if state == models.CallStateUnknown {
		logrus.WithField("callStatus", data.Get("callStatus").Raw).Warnln("Unknown call status")
	}

	info := map[string]any{}
	for in, out := range callerInfoFields {
		value := data.Get("callerInfo." + in)
		if !value.Exists() {
			// Commonly absent, depends on the device model.
			logrus.WithField("key", in).Debugln("Missing caller info key")
			continue
		}
		info[out] = value.Value()
	}

	logrus.WithField("serial", deviceSerial).Infoln("Got call status for device")

	return &models.CallStatus{
		Status: state,
		Info:   info,
	}, nil
}

func (c *Client) AnswerCall(ctx context.Context, deviceSerial string) error {
	return c.callOperation(ctx, deviceSerial, callCommandAnswer)
}

func (c *Client) CancelCall(ctx context.Context, deviceSerial string) error {
	return c.callOperation(ctx, deviceSerial, callCommandCancel)
}

func (c *Client) HangupCall(ctx context.Context, deviceSerial string) error {
	return c.callOperation(ctx, deviceSerial, callCommandHangup)
}

func (c *Client) callOperation(ctx context.Context, deviceSerial string, command callCommand) error {

	path := fmt.Sprintf(callOperationFormat, url.PathEscape(deviceSerial))

	envelope, err := c.Call(ctx, http.MethodPut, path, map[string]string{
		"cmdId": strconv.Itoa(int(command)),
	}, nil)
	if err != nil {
		return err
	}

	if err := CheckEnvelope(envelope, deviceSerial); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"serial":    deviceSerial,
		"operation": command.String(),
	}).Infoln("Sent call operation to device")

	return nil
}
