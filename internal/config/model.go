package config

import (
	"time"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/isapi"
)

// Config represents the application configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Account AccountConfig `mapstructure:"account"`
	Cloud   CloudConfig   `mapstructure:"cloud"`
	Device  DeviceConfig  `mapstructure:"device"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type APIConfig struct {
	Endpoint     string        `mapstructure:"endpoint" default:"https://api.hik-connect.com"`
	FeatureCode  string        `mapstructure:"feature_code"`
	Timeout      time.Duration `mapstructure:"timeout" default:"30s"`
	MaxRedirects int           `mapstructure:"max_redirects" default:"2"`
	MaxPages     int           `mapstructure:"max_pages" default:"20"`
}

type AccountConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CloudConfig configures the open cloud gateway used by the cloud ISAPI
// transport. It is independent of the account login.
type CloudConfig struct {
	Endpoint    string `mapstructure:"endpoint" default:"https://ieuopen.ezvizlife.com/api/hikvision"`
	AccessToken string `mapstructure:"access_token"`
}

type DeviceConfig struct {
	Serial string `mapstructure:"serial"`
}

type RefreshConfig struct {
	// Interval accepts Go durations (5m) and ISO 8601 (PT5M).
	Interval string `mapstructure:"interval" default:"5m"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"text"`
}

func (c *Config) HasCredentials() bool {
	return len(c.Account.Username) > 0 && len(c.Account.Password) > 0
}

func (c *Config) GetRefreshInterval() (time.Duration, error) {
	return common.ValidateDuration(c.Refresh.Interval)
}

func (c *Config) ClientOptions() hikconnect.Options {
	return hikconnect.Options{
		Endpoint:     c.API.Endpoint,
		FeatureCode:  c.API.FeatureCode,
		Timeout:      c.API.Timeout,
		MaxRedirects: c.API.MaxRedirects,
		MaxPages:     c.API.MaxPages,
	}
}

func (c *Config) CloudOptions(deviceSerial string) isapi.CloudOptions {
	if len(deviceSerial) == 0 {
		deviceSerial = c.Device.Serial
	}
	return isapi.CloudOptions{
		Endpoint:     c.Cloud.Endpoint,
		AccessToken:  c.Cloud.AccessToken,
		DeviceSerial: deviceSerial,
		Timeout:      c.API.Timeout,
	}
}
