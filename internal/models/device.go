package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Device is a device bound to the account, such as a door station or NVR.
type Device struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Serial  string `json:"serial" yaml:"serial"`
	Type    string `json:"type" yaml:"type"`
	Version string `json:"version" yaml:"version"`
	// Locks maps a channel number to the number of locks wired to it.
	Locks map[int]int `json:"locks" yaml:"locks"`
}

type Devices []Device

func (d Devices) Headers() []string {
	return []string{"Serial", "Name", "Type", "Version", "Locks"}
}

func (d Devices) Rows() [][]string {
	rows := make([][]string, 0, len(d))
	for _, device := range d {
		rows = append(rows, []string{
			device.Serial,
			device.Name,
			device.Type,
			device.Version,
			formatLocks(device.Locks),
		})
	}
	return rows
}

func formatLocks(locks map[int]int) string {
	if len(locks) == 0 {
		return "-"
	}
	channels := make([]int, 0, len(locks))
	for channel := range locks {
		channels = append(channels, channel)
	}
	sort.Ints(channels)

	parts := make([]string, 0, len(channels))
	for _, channel := range channels {
		parts = append(parts, fmt.Sprintf("%d:%d", channel, locks[channel]))
	}
	return strings.Join(parts, " ")
}

// Camera is a channel of a device.
type Camera struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	ChannelNumber int    `json:"channel_number" yaml:"channel_number"`
	SignalStatus  int    `json:"signal_status" yaml:"signal_status"`
	IsShown       int    `json:"is_shown" yaml:"is_shown"`
}

type Cameras []Camera

func (c Cameras) Headers() []string {
	return []string{"ID", "Name", "Channel", "Signal", "Shown"}
}

func (c Cameras) Rows() [][]string {
	rows := make([][]string, 0, len(c))
	for _, camera := range c {
		rows = append(rows, []string{
			camera.ID,
			camera.Name,
			strconv.Itoa(camera.ChannelNumber),
			strconv.Itoa(camera.SignalStatus),
			strconv.Itoa(camera.IsShown),
		})
	}
	return rows
}

type CallState string

const (
	CallStateIdle       CallState = "idle"
	CallStateRinging    CallState = "ringing"
	CallStateInProgress CallState = "call in progress"
	CallStateUnknown    CallState = "unknown"
)

// CallStateFromCode maps the numeric call status reported by a door station.
func CallStateFromCode(code int) CallState {
	switch code {
	case 1:
		return CallStateIdle
	case 2:
		return CallStateRinging
	case 3:
		return CallStateInProgress
	default:
		return CallStateUnknown
	}
}

// CallStatus is the state of the intercom call on a device. Info only
// holds the caller fields the device reported.
type CallStatus struct {
	Status CallState      `json:"status" yaml:"status"`
	Info   map[string]any `json:"info" yaml:"info"`
}

func (c CallStatus) Headers() []string {
	return []string{"Field", "Value"}
}

func (c CallStatus) Rows() [][]string {
	rows := [][]string{{"status", string(c.Status)}}

	keys := make([]string, 0, len(c.Info))
	for key := range c.Info {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rows = append(rows, []string{key, fmt.Sprint(c.Info[key])})
	}
	return rows
}
