package httpclient

import (
	"net"
	"strconv"
	"time"

	"github.com/kbukum/plughttp/codec"
	"github.com/kbukum/plughttp/logger"
	"github.com/kbukum/plughttp/validation"
)

const (
	// DefaultTimeout bounds every request unless Config.Timeout is set.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "plughttp/1.0"
	defaultName      = "http"
)

// Config configures a Client. The client keeps its own copy, so changes
// after New have no effect.
type Config struct {
	// Name identifies the client in logs, metrics and component registries.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`

	// BaseURL is prefixed verbatim to relative request URIs.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Username and Password enable preemptive Basic auth when either is set.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// ProxyHost and ProxyPort route requests through an HTTP proxy. Both or
	// neither must be set.
	ProxyHost string `yaml:"proxy_host" mapstructure:"proxy_host" validate:"omitempty,hostname|ip"`
	ProxyPort int    `yaml:"proxy_port" mapstructure:"proxy_port" validate:"omitempty,min=1,max=65535"`

	// NoProxy lists hosts that bypass the proxy, in NO_PROXY syntax.
	NoProxy string `yaml:"no_proxy" mapstructure:"no_proxy"`

	// StrictTLS verifies server certificates. When false any certificate
	// is accepted.
	StrictTLS bool `yaml:"strict_tls" mapstructure:"strict_tls"`

	// TLS holds CA and client certificate material.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is sent on every request. Defaults to DefaultUserAgent.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent" validate:"required"`

	// Logger receives debug request lines. Defaults to the global logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`

	// Engine overrides the transport engine.
	Engine Engine `yaml:"-" mapstructure:"-"`

	// Codec overrides the payload codec. Defaults to codec.JSON().
	Codec codec.Codec `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

// Validate checks field constraints and the proxy host/port pairing.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return newError(KindInvalidConfig, "invalid configuration", err)
	}
	if (c.ProxyHost == "") != (c.ProxyPort == 0) {
		return newError(KindInvalidConfig, "proxy_host and proxy_port must be set together", nil)
	}
	if err := c.TLS.Validate(); err != nil {
		return newError(KindInvalidConfig, "invalid tls configuration", err)
	}
	return nil
}

// hasProxy reports whether a proxy is configured.
func (c *Config) hasProxy() bool {
	return c.ProxyHost != "" && c.ProxyPort > 0
}

func (c *Config) proxyAddr() string {
	return net.JoinHostPort(c.ProxyHost, strconv.Itoa(c.ProxyPort))
}

func (c *Config) hasCredentials() bool {
	return c.Username != "" || c.Password != ""
}
