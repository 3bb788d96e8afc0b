// Package config loads plugin configuration with Viper.
//
// A config.yml is searched in the standard locations (or passed explicitly),
// a .env file is loaded into the process environment, and every variable
// carrying the PLUGHTTP_ prefix is bound over the file values:
//
//	var cfg PluginConfig
//	err := config.LoadConfig("billing-plugin", &cfg,
//	    config.WithDefaults(map[string]any{"http.timeout": "10s"}))
package config
