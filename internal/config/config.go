package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hikconnect-io/hikconnect/internal/common"
	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/isapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const EnvPrefix = "HIKCONNECT"

func DefaultConfig() *Config {

	v := viper.New()

	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("error unmarshaling default config: %v", err)
	}

	return &config
}

// Load loads the configuration from various sources
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	setupViperConfig(v, configFile)
	bindEnvironmentVariables(v)

	config, err := readAndUnmarshalConfig(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := setupLogging(config, v); err != nil {
		return nil, err
	}

	return config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() error {
	if err := gotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}
	return nil
}

func setupViperConfig(v *viper.Viper, configFile string) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/hikconnect")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "hikconnect"))
	}

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
}

// bindEnvironmentVariables binds keys that have no default, AutomaticEnv
// only sees keys viper already knows about when unmarshalling.
func bindEnvironmentVariables(v *viper.Viper) {
	v.BindEnv("api.feature_code", "HIKCONNECT_API_FEATURE_CODE")

	v.BindEnv("account.username", "HIKCONNECT_ACCOUNT_USERNAME", "HIKCONNECT_USERNAME")
	v.BindEnv("account.password", "HIKCONNECT_ACCOUNT_PASSWORD", "HIKCONNECT_PASSWORD")

	v.BindEnv("cloud.access_token", "HIKCONNECT_CLOUD_ACCESS_TOKEN", "CLOUD_ACCESS_TOKEN")
	v.BindEnv("device.serial", "HIKCONNECT_DEVICE_SERIAL", "DEVICE_SERIAL")
}

// readAndUnmarshalConfig reads the configuration file and unmarshals it
func readAndUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and environment variables
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {

	if !common.IsValidEndpoint(c.API.Endpoint) {
		return fmt.Errorf("invalid api endpoint: %s", c.API.Endpoint)
	}

	if !common.IsValidEndpoint(c.Cloud.Endpoint) {
		return fmt.Errorf("invalid cloud endpoint: %s", c.Cloud.Endpoint)
	}

	if len(c.API.FeatureCode) > 0 && !common.IsValidFeatureCode(c.API.FeatureCode) {
		return fmt.Errorf("feature code must be hex: %s", c.API.FeatureCode)
	}

	if c.API.MaxRedirects < 0 {
		return fmt.Errorf("api.max_redirects must not be negative")
	}

	if _, err := c.GetRefreshInterval(); err != nil {
		return fmt.Errorf("invalid refresh interval: %w", err)
	}

	return nil
}

// setupLogging configures the logging system based on the config
func setupLogging(config *Config, v *viper.Viper) error {
	logrusLevel, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}

	logrus.SetLevel(logrusLevel)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	// Dump out the config settings if in debug mode, secrets excluded
	if logrusLevel >= logrus.DebugLevel {
		for _, key := range v.AllKeys() {
			if isSecretKey(key) {
				continue
			}
			logrus.Debugf("Config '%s': %v\n", key, v.Get(key))
		}
	}

	return nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "password") || strings.HasSuffix(key, "access_token")
}

func setDefaults(v *viper.Viper) {

	// Hik-Connect API defaults
	v.SetDefault("api.endpoint", hikconnect.DefaultEndpoint)
	v.SetDefault("api.timeout", hikconnect.DefaultTimeout)
	v.SetDefault("api.max_redirects", hikconnect.DefaultMaxRedirects)
	v.SetDefault("api.max_pages", hikconnect.DefaultMaxPages)

	// Open cloud gateway defaults
	v.SetDefault("cloud.endpoint", isapi.DefaultCloudEndpoint)

	v.SetDefault("refresh.interval", "5m")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}
