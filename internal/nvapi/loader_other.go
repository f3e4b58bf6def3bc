//go:build !((windows || linux) && (amd64 || arm64))

package nvapi

import (
	"fmt"
	"runtime"
)

// DefaultLibrary is empty on platforms without an NVAPI library.
const DefaultLibrary = ""

// Open always fails on this platform.
func Open(path string, opts ...Option) (*Driver, error) {
	return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
}
