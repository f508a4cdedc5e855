package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Provider bundles the platform backends for the current OS.
type Provider struct {
	Desktop  Desktop
	Inputter Inputter
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("kindle-fetch is not supported on %s/%s; supported: windows/amd64, windows/arm64", runtime.GOOS, runtime.GOARCH)

// ErrProcessNotFound is returned by Desktop.Attach when the target
// application is not running.
var ErrProcessNotFound = errors.New("target process not found")

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/uia for the Windows registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
