package httpclient

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/plughttp/component"
	"github.com/kbukum/plughttp/logger"
)

func TestComponent_Lifecycle(t *testing.T) {
	c := NewComponent(Config{Name: "ledger", BaseURL: "http://ledger.invalid", Logger: logger.Nop()})
	ctx := context.Background()

	if c.Name() != "ledger" {
		t.Errorf("Name() = %q", c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "not started" {
		t.Errorf("health before start = %+v", h)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Client() == nil {
		t.Fatal("expected client after Start")
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %+v", h)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy || h.Message != "closed" {
		t.Errorf("health after stop = %+v", h)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestComponent_StartFailsOnInvalidConfig(t *testing.T) {
	c := NewComponent(Config{ProxyPort: 8080})
	if err := c.Start(context.Background()); KindOf(err) != KindInvalidConfig {
		t.Errorf("expected invalid_config, got %v", err)
	}
	if c.Name() != "http" {
		t.Errorf("default name = %q", c.Name())
	}
}

func TestComponent_Describe(t *testing.T) {
	d := NewComponent(Config{BaseURL: "http://ledger.invalid", ProxyHost: "proxy", ProxyPort: 3128}).Describe()
	if d.Type != "http-client" {
		t.Errorf("Type = %q", d.Type)
	}
	for _, want := range []string{"http://ledger.invalid", "timeout=10s", "proxy=proxy:3128", "tls=permissive"} {
		if !strings.Contains(d.Details, want) {
			t.Errorf("Details %q missing %q", d.Details, want)
		}
	}
}

func TestComponent_InRegistry(t *testing.T) {
	reg := component.NewRegistry(logger.Nop())
	hc := NewComponent(Config{Name: "gateway", BaseURL: "http://gw.invalid", Logger: logger.Nop()})
	if err := reg.Register(hc); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ctx := context.Background()
	if err := reg.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := reg.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if !hc.Client().Closed() {
		t.Error("registry stop should close the client")
	}
}
