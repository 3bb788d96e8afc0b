package cli

import (
	"fmt"
	"io"

	"github.com/kbukum/plughttp/config"
	"github.com/kbukum/plughttp/httpclient"
	"github.com/kbukum/plughttp/logger"
)

const appName = "plughttp"

// fileConfig is the shape of config.yml:
//
//	name: plughttp
//	logging:
//	  level: debug
//	http:
//	  base_url: https://api.example.com/v1
//	  username: svc
//	  timeout: 5s
type fileConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	HTTP                 httpclient.Config `mapstructure:"http"`
	Telemetry            telemetryConfig   `mapstructure:"telemetry"`
}

var configDefaults = map[string]any{
	"name":           appName,
	"environment":    "production",
	"logging.level":  "warn",
	"logging.format": logger.FormatConsole,
}

// loadConfig reads config.yml, .env and PLUGHTTP_* variables. Explicit
// paths that do not exist are an error; discovered ones are optional.
func loadConfig(opts *rootOptions) (*fileConfig, error) {
	fs := config.RealFileSystem{}
	loaderOpts := []config.LoaderOption{config.WithDefaults(configDefaults)}
	if opts.configFile != "" {
		if !fs.Exists(opts.configFile) {
			return nil, &configError{fmt.Errorf("config file not found: %s", opts.configFile)}
		}
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		if !fs.Exists(opts.envFile) {
			return nil, &configError{fmt.Errorf("env file not found: %s", opts.envFile)}
		}
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &fileConfig{}
	if err := config.LoadConfig(appName, cfg, loaderOpts...); err != nil {
		return nil, &configError{err}
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.noColor {
		cfg.Logging.NoColor = true
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &configError{err}
	}
	if cfg.HTTP.Name == "" {
		cfg.HTTP.Name = cfg.Name
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs always go to w so that stdout
// carries only the response.
func (c *fileConfig) newLogger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(&c.Logging, c.Name, w)
}
