package config

import (
	"fmt"
	"time"

	"github.com/kbukum/fex/httpclient"
	"github.com/kbukum/fex/logger"
	"github.com/kbukum/fex/validation"
)

// AppName is the name used to locate config and env files.
const AppName = "fex"

// ClientConfig is the file and environment driven configuration of a Client.
//
//	FEX_BASE_URL / API_URL  base URL of relative requests
//	AUTH                    Authorization header value
//	FEX_TIMEOUT             request timeout ("10s")
//	FEX_INSECURE            skip certificate verification
//
// Apart from API_URL and AUTH, variables are read only with the FEX_ prefix.
type ClientConfig struct {
	BaseURL          string            `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,httpurl"`
	APIURL           string            `yaml:"api_url" mapstructure:"api_url"`
	Auth             string            `yaml:"auth" mapstructure:"auth"`
	Timeout          time.Duration     `yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
	Insecure         bool              `yaml:"insecure" mapstructure:"insecure"`
	Headers          map[string]string `yaml:"headers" mapstructure:"headers"`
	MaxContentLength int64             `yaml:"max_content_length" mapstructure:"max_content_length" validate:"min=0"`
	Logging          logger.Config     `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in zero-value fields.
func (c *ClientConfig) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = c.APIURL
	}
	c.Logging.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *ClientConfig) Validate() error {
	return validation.Validate(c)
}

// HTTPConfig returns the client defaults described by c.
func (c *ClientConfig) HTTPConfig() httpclient.Config {
	cfg := httpclient.Config{
		BaseURL:          c.BaseURL,
		Timeout:          c.Timeout,
		MaxContentLength: c.MaxContentLength,
	}
	for k, v := range c.Headers {
		cfg.SetHeader(k, v)
	}
	if c.Auth != "" {
		cfg.SetHeader("Authorization", c.Auth)
	}
	if c.Insecure {
		cfg.TLS = &httpclient.TLSConfig{SkipVerify: true}
	}
	return cfg
}

// LoadClientConfig loads, defaults and validates a ClientConfig.
func LoadClientConfig(opts ...LoaderOption) (*ClientConfig, error) {
	var cc ClientConfig
	opts = append([]LoaderOption{WithEnvPrefix("FEX_"), WithEnvKeys("API_URL", "AUTH")}, opts...)
	if err := Load(AppName, &cc, opts...); err != nil {
		return nil, err
	}
	cc.ApplyDefaults()
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cc, nil
}
