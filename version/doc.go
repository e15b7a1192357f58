// Package version reports the build version used in telemetry resources and
// outbound User-Agent headers.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/focusgroup/version.Version=1.0.0"
package version
