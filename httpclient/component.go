package httpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/plughttp/component"
)

// Component wraps a Client with lifecycle management. The client is
// created in Start and closed in Stop.
type Component struct {
	mu     sync.RWMutex
	client *Client
	config Config
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a component for cfg.
func NewComponent(cfg Config) *Component {
	return &Component{config: cfg}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return defaultName
	}
	return c.config.Name
}

// Start creates the client.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil && !c.client.Closed() {
		return nil
	}
	client, err := New(c.config)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop closes the client.
func (c *Component) Stop(_ context.Context) error {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return nil
	}
	return client.Close()
}

// Health reports healthy while the client is open.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()

	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case client == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case client.Closed():
		h.Status, h.Message = component.StatusUnhealthy, "closed"
	}
	return h
}

// Describe returns a one-line summary of the configuration.
func (c *Component) Describe() component.Description {
	cfg := c.config
	cfg.ApplyDefaults()
	details := fmt.Sprintf("%s timeout=%s", cfg.BaseURL, cfg.Timeout)
	if cfg.hasProxy() {
		details += " proxy=" + cfg.proxyAddr()
	}
	if !cfg.StrictTLS {
		details += " tls=permissive"
	}
	return component.Description{Name: c.Name(), Type: "http-client", Details: details}
}

// Client returns the running client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}
