//go:build windows && (amd64 || arm64)

package nvapi

import (
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/windows"
)

// DefaultLibrary is the NVAPI library shipped with 64-bit Windows drivers.
const DefaultLibrary = "nvapi64.dll"

// Open loads the NVAPI library at path (DefaultLibrary when empty) and
// returns a Driver bound to its query entry point. The library stays loaded
// for the life of the process.
func Open(path string, opts ...Option) (*Driver, error) {
	if path == "" {
		path = DefaultLibrary
	}

	h, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLibraryNotFound, path, err)
	}

	addr, err := windows.GetProcAddress(h, EntryPoint)
	if err != nil || addr == 0 {
		_ = windows.FreeLibrary(h)
		return nil, fmt.Errorf("%w: %s", ErrEntryPointMissing, path)
	}

	var query func(id uint32) uintptr
	purego.RegisterFunc(&query, addr)

	opts = append([]Option{WithSource(path)}, opts...)
	return NewDriver(func(id FunctionID) uintptr {
		return query(uint32(id))
	}, purego.RegisterFunc, opts...), nil
}
