// Package logger provides structured logging on top of zerolog.
//
// Loggers carry a service name and can be scoped to a component:
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "billing-plugin")
//	log.WithComponent("httpclient").Debug("request completed", logger.Fields("status", 200))
//
// Library code that has no logger injected falls back to the global logger
// via logger.WithComponent.
package logger
