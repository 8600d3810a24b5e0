// Package version reports the build version of fex.
//
// The values are set at compile time via -ldflags and fall back to the
// VCS stamp embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/fex/version.Version=1.0.0" ./cmd/fex
package version
