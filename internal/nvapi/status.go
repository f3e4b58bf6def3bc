package nvapi

import (
	"errors"
	"fmt"
)

// Status is an NVAPI return code. Zero is success; every other value is an
// error family identified only by its number and the driver's message text.
type Status int32

// StatusOK is NVAPI_OK.
const StatusOK Status = 0

// StatusProfileNotFound is NVAPI_PROFILE_NOT_FOUND. It is only consulted when
// the driver cannot supply message text.
const StatusProfileNotFound Status = -163

// ProfileNotFoundText is the driver message for StatusProfileNotFound.
const ProfileNotFoundText = "NVAPI_PROFILE_NOT_FOUND"

// StatusSettingNotFound is NVAPI_SETTING_NOT_FOUND, returned by GetSetting for
// a profile that never had the setting written.
const StatusSettingNotFound Status = -160

// SettingNotFoundText is the driver message for StatusSettingNotFound.
const SettingNotFoundText = "NVAPI_SETTING_NOT_FOUND"

// Errors returned while loading and initializing the driver.
var (
	ErrUnsupportedPlatform = errors.New("nvapi: platform not supported")
	ErrLibraryNotFound     = errors.New("nvapi: driver library not found")
	ErrEntryPointMissing   = errors.New("nvapi: " + EntryPoint + " not exported")
	ErrFunctionUnavailable = errors.New("nvapi: function unavailable on this driver")
	ErrInitFailed          = errors.New("nvapi: initialization failed")
)

// StatusError is a nonzero Status returned by a driver function.
type StatusError struct {
	Func    FunctionID
	Status  Status
	Message string // driver text, empty when the lookup function is unavailable
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: NVAPI Error: %d Details: %s", e.Func, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: NVAPI Error: %d", e.Func, e.Status)
}

// ProfileNotFound reports whether the driver rejected a profile lookup because
// the profile does not exist. The message text is authoritative; the numeric
// code is used only when no text was obtained.
func (e *StatusError) ProfileNotFound() bool {
	if e.Message != "" {
		return e.Message == ProfileNotFoundText
	}
	return e.Status == StatusProfileNotFound
}

// SettingNotFound reports whether GetSetting failed because the profile has
// no value for the setting. Text and code are matched like ProfileNotFound.
func (e *StatusError) SettingNotFound() bool {
	if e.Message != "" {
		return e.Message == SettingNotFoundText
	}
	return e.Status == StatusSettingNotFound
}

// IsProfileNotFound reports whether err carries a profile-not-found StatusError.
func IsProfileNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.ProfileNotFound()
	}
	return false
}

// IsSettingNotFound reports whether err carries a setting-not-found
// StatusError from GetSetting.
func IsSettingNotFound(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Func == IDDRSGetSetting && se.SettingNotFound()
	}
	return false
}
