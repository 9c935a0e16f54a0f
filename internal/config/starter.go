package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hikconnect-io/hikconnect/internal/hikconnect"
	"github.com/hikconnect-io/hikconnect/internal/isapi"
	"gopkg.in/yaml.v3"
)

var ErrConfigExists = errors.New("configuration file already exists")

// DefaultConfigPath is where init writes the configuration, one of the
// locations Load searches.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hikconnect", "config.yaml"), nil
}

// Starter returns a configuration with every default spelled out and the
// given feature code. Credentials are left for the user to fill in.
func Starter(featureCode string) map[string]any {
	return map[string]any{
		"api": map[string]any{
			"endpoint":      hikconnect.DefaultEndpoint,
			"feature_code":  featureCode,
			"timeout":       hikconnect.DefaultTimeout.String(),
			"max_redirects": hikconnect.DefaultMaxRedirects,
			"max_pages":     hikconnect.DefaultMaxPages,
		},
		"account": map[string]any{
			"username": "",
			"password": "",
		},
		"cloud": map[string]any{
			"endpoint":     isapi.DefaultCloudEndpoint,
			"access_token": "",
		},
		"device": map[string]any{
			"serial": "",
		},
		"refresh": map[string]any{
			"interval": "5m",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// WriteStarter writes Starter to path, readable by the owner only since the
// file is meant to hold the account password.
func WriteStarter(path string, featureCode string, force bool) error {

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(Starter(featureCode)); err != nil {
		return err
	}

	return encoder.Close()
}
