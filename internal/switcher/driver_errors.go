package switcher

import (
	"errors"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// DriverError converts an error from loading or initializing the driver
// into an *errors.Error with a suggestion. Errors that are already
// structured pass through.
func DriverError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := amerrors.As(err); ok {
		return err
	}

	switch {
	case errors.Is(err, nvapi.ErrUnsupportedPlatform):
		return amerrors.New(amerrors.ErrCodeUnsupported, err.Error(), err).
			WithSuggestion("rtxswitch runs on 64-bit Windows and Linux.")
	case errors.Is(err, nvapi.ErrLibraryNotFound):
		return amerrors.New(amerrors.ErrCodeLibraryNotFound, err.Error(), err).
			WithSuggestion("Install the NVIDIA display driver, or point library_path at the NVAPI library.")
	case errors.Is(err, nvapi.ErrEntryPointMissing):
		return amerrors.New(amerrors.ErrCodeEntryPointMissing, err.Error(), err).
			WithSuggestion("The loaded library is not NVAPI. Check library_path.")
	case errors.Is(err, nvapi.ErrFunctionUnavailable):
		return amerrors.New(amerrors.ErrCodeFunctionUnavailable, err.Error(), err).
			WithSuggestion("Update the NVIDIA driver.")
	case errors.Is(err, nvapi.ErrInitFailed):
		return amerrors.New(amerrors.ErrCodeInitFailed, err.Error(), err).
			WithSuggestion("Make sure an NVIDIA GPU is active and its driver is loaded.")
	default:
		return amerrors.InternalError(err.Error(), err)
	}
}
