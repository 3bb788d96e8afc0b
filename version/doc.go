// Package version reports the build version of plughttp binaries.
//
// Values are set at link time and fall back to the module build info:
//
//	go build -ldflags "-X github.com/kbukum/plughttp/version.Version=1.2.0" ./cmd/plughttp
package version
