package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jdollar/boxview/pkg/boxview"
)

const (
	configName = "config"
	configType = "yaml"
)

type Configuration struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	UploadURL      string `mapstructure:"upload_url" yaml:"upload_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
}

func defaultConfiguration() Configuration {
	return Configuration{
		BaseURL:        boxview.DefaultBaseURL,
		UploadURL:      boxview.DefaultUploadURL,
		TimeoutSeconds: int(boxview.DefaultTimeout / time.Second),
		MaxRetries:     boxview.DefaultMaxRetries,
	}
}

// DefaultDir is where the config file lives unless overridden.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".boxview"), nil
}

func initializeConfig(v *viper.Viper, configDir string) error {
	log.Println("Creating new config file in " + configDir)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	// Load the defaults into viper so SafeWriteConfigAs has something to
	// write. api_key is written empty.
	defaultBytes, err := yaml.Marshal(defaultConfiguration())
	if err != nil {
		return err
	}
	if err := v.ReadConfig(bytes.NewBuffer(defaultBytes)); err != nil {
		return err
	}

	return v.SafeWriteConfigAs(filepath.Join(configDir, configName+"."+configType))
}

// NewConfiguration reads config.yaml from configDir, writing a default one
// on first use. BOX_VIEW_API_KEY overrides api_key.
func NewConfiguration(configDir string) (Configuration, error) {
	var config Configuration

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configDir)

	defaults := defaultConfiguration()
	v.SetDefault("base_url", defaults.BaseURL)
	v.SetDefault("upload_url", defaults.UploadURL)
	v.SetDefault("timeout_seconds", defaults.TimeoutSeconds)
	v.SetDefault("max_retries", defaults.MaxRetries)
	if err := v.BindEnv("api_key", boxview.EnvAPIKey); err != nil {
		return config, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("error reading config: %w", err)
		}
		if err := initializeConfig(v, configDir); err != nil {
			return config, fmt.Errorf("error creating config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("error decoding config: %w", err)
	}
	return config, config.Validate()
}

// Validate reports every invalid setting at once.
func (c Configuration) Validate() error {
	var result *multierror.Error

	urls := []struct{ key, raw string }{
		{"base_url", c.BaseURL},
		{"upload_url", c.UploadURL},
	}
	for _, entry := range urls {
		key, raw := entry.key, entry.raw
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("invalid %s: %w", key, err))
			continue
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			result = multierror.Append(result, fmt.Errorf("%s must use http or https scheme, got: %q", key, u.Scheme))
		}
	}
	if c.TimeoutSeconds < 0 {
		result = multierror.Append(result, fmt.Errorf("timeout_seconds must be non-negative, got: %d", c.TimeoutSeconds))
	}
	if c.MaxRetries < 0 {
		result = multierror.Append(result, fmt.Errorf("max_retries must be non-negative, got: %d", c.MaxRetries))
	}

	return result.ErrorOrNil()
}

// ClientConfig maps the file settings onto the SDK config. A zero
// max_retries disables retries rather than selecting the SDK default.
func (c Configuration) ClientConfig() boxview.Config {
	maxRetries := c.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}
	return boxview.Config{
		APIKey:     c.APIKey,
		BaseURL:    c.BaseURL,
		UploadURL:  c.UploadURL,
		Timeout:    time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRetries: maxRetries,
	}
}
