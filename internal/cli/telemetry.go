package cli

import (
	"context"
	"time"

	"github.com/kbukum/plughttp/observability"
	"github.com/kbukum/plughttp/version"
)

const telemetryShutdownTimeout = 5 * time.Second

// telemetryConfig enables OTLP export when an endpoint is set:
//
//	telemetry:
//	  tracing:
//	    endpoint: localhost:4318
//	    insecure: true
type telemetryConfig struct {
	Tracing observability.TracerConfig `mapstructure:"tracing"`
	Metrics observability.MeterConfig  `mapstructure:"metrics"`
}

// startTelemetry installs the configured exporters as the global providers
// and returns a func that flushes and stops them.
func (c *fileConfig) startTelemetry(ctx context.Context) (func(), error) {
	var shutdowns []func(context.Context) error

	if t := c.Telemetry.Tracing; t.Endpoint != "" {
		t.ServiceName, t.ServiceVersion, t.Environment = c.resourceDefaults(t.ServiceName, t.ServiceVersion, t.Environment)
		if t.SampleRate == 0 {
			t.SampleRate = 1.0
		}
		tp, err := observability.InitTracer(ctx, t)
		if err != nil {
			return nil, &configError{err}
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if m := c.Telemetry.Metrics; m.Endpoint != "" {
		m.ServiceName, m.ServiceVersion, m.Environment = c.resourceDefaults(m.ServiceName, m.ServiceVersion, m.Environment)
		mp, err := observability.InitMeter(ctx, &m)
		if err != nil {
			return nil, &configError{err}
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		for _, fn := range shutdowns {
			_ = fn(ctx)
		}
	}, nil
}

func (c *fileConfig) resourceDefaults(name, ver, env string) (string, string, string) {
	if name == "" {
		name = c.Name
	}
	if ver == "" {
		ver = version.Get().Version
	}
	if env == "" {
		env = c.Environment
	}
	return name, ver, env
}
