//go:build linux && (amd64 || arm64)

package nvapi

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// DefaultLibrary is the NVAPI library shipped with Linux drivers (525+).
const DefaultLibrary = "libnvidia-api.so.1"

// Open loads the NVAPI library at path (DefaultLibrary when empty) and
// returns a Driver bound to its query entry point. The library stays loaded
// for the life of the process.
func Open(path string, opts ...Option) (*Driver, error) {
	if path == "" {
		path = DefaultLibrary
	}

	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil || lib == 0 {
		return nil, fmt.Errorf("%w: %s: %w", ErrLibraryNotFound, path, err)
	}

	addr, err := purego.Dlsym(lib, EntryPoint)
	if err != nil || addr == 0 {
		_ = purego.Dlclose(lib)
		return nil, fmt.Errorf("%w: %s", ErrEntryPointMissing, path)
	}

	var query func(id uint32) uintptr
	purego.RegisterFunc(&query, addr)

	opts = append([]Option{WithSource(path)}, opts...)
	return NewDriver(func(id FunctionID) uintptr {
		return query(uint32(id))
	}, purego.RegisterFunc, opts...), nil
}
