package hikconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hikconnect-io/hikconnect/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	devicesPageSize = 50
	devicesFilter   = "TIME_PLAN,CONNECTION,SWITCH,STATUS,STATUS_EXT,WIFI,NODISTURB,P2P,KMS,HIDDNS"
)

// ListDevices pages through every device bound to the account. When the
// cloud still reports more pages after MaxPages, the devices fetched so far
// are returned with a TooManyResultsError.
func (c *Client) ListDevices(ctx context.Context) (models.Devices, error) {

	devices := models.Devices{}

	for page := 0; ; page++ {

		envelope, err := c.Call(ctx, http.MethodGet, devicesPath, map[string]string{
			"groupId": "-1",
			"limit":   strconv.Itoa(devicesPageSize),
			"offset":  strconv.Itoa(page * devicesPageSize),
			"filter":  devicesFilter,
		}, nil)
		if err != nil {
			return devices, err
		}

		if err := CheckEnvelope(envelope, ""); err != nil {
			return devices, err
		}

		envelope.Get("deviceInfos").ForEach(func(_, device gjson.Result) bool {
			devices = append(devices, parseDevice(envelope, device))
			return true
		})

		logrus.WithFields(logrus.Fields{
			"page":    page,
			"devices": len(devices),
		}).Debugln("Received device list page")

		if !envelope.Get("page.hasNext").Bool() {
			break
		}

		if page+1 >= c.maxPages {
			return devices, &models.TooManyResultsError{
				Fetched: len(devices),
				Pages:   page + 1,
			}
		}
	}

	logrus.WithField("devices", len(devices)).Infoln("Received device list")

	return devices, nil
}

func parseDevice(envelope Envelope, device gjson.Result) models.Device {
	serial := device.Get("deviceSerial").String()

	return models.Device{
		ID:      device.Get("fullSerial").String(),
		Name:    device.Get("name").String(),
		Serial:  serial,
		Type:    device.Get("deviceType").String(),
		Version: device.Get("version").String(),
		Locks:   parseLocks(serial, envelope.Get("statusInfos."+serial+".optionals.lockNum")),
	}
}

// parseLocks decodes the lockNum optional, a JSON object encoded as a
// string such as {"1":1,"2":1}. Devices without locks omit it.
func parseLocks(serial string, lockNum gjson.Result) map[int]int {
	locks := map[int]int{}

	if !lockNum.Exists() || len(lockNum.String()) == 0 {
		return locks
	}

	var raw map[string]int
	if err := json.Unmarshal([]byte(lockNum.String()), &raw); err != nil {
		logrus.WithFields(logrus.Fields{
			"serial":  serial,
			"lockNum": lockNum.String(),
		}).WithError(err).Warnln("Unable to parse lock count")
		return locks
	}

	for channel, count := range raw {
		number, err := strconv.Atoi(channel)
		if err != nil {
			continue
		}
		locks[number] = count
	}

	return locks
}

// ListCameras returns the cameras (channels) of one device.
func (c *Client) ListCameras(ctx context.Context, deviceSerial string) (models.Cameras, error) {

	envelope, err := c.Call(ctx, http.MethodGet, camerasPath, map[string]string{
		"deviceSerial": deviceSerial,
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := CheckEnvelope(envelope, deviceSerial); err != nil {
		return nil, err
	}

	cameras := models.Cameras{}
	envelope.Get("cameraInfos").ForEach(func(_, camera gjson.Result) bool {
		cameras = append(cameras, models.Camera{
			ID:            camera.Get("cameraId").String(),
			Name:          camera.Get("cameraName").String(),
			ChannelNumber: int(camera.Get("channelNo").Int()),
			SignalStatus:  int(camera.Get("deviceChannelInfo.signalStatus").Int()),
			IsShown:       int(camera.Get("isShow").Int()),
		})
		return true
	})

	logrus.WithFields(logrus.Fields{
		"serial":  deviceSerial,
		"cameras": len(cameras),
	}).Infoln("Received camera info for device")

	return cameras, nil
}
