// Package errors provides structured error handling for rtxswitch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Driver errors (library, entry point, initialization)
//   - 2XX: Profile errors
//   - 3XX: Driver call errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryDriver indicates the driver could not be loaded or initialized.
	CategoryDriver Category = "DRIVER"
	// CategoryProfile indicates a problem with the driver profile store.
	CategoryProfile Category = "PROFILE"
	// CategoryCall indicates a driver function returned a failure status.
	CategoryCall Category = "CALL"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Driver errors (100-199)
	ErrCodeLibraryNotFound     = "ERR_101_LIBRARY_NOT_FOUND"
	ErrCodeEntryPointMissing   = "ERR_102_ENTRY_POINT_MISSING"
	ErrCodeFunctionUnavailable = "ERR_103_FUNCTION_UNAVAILABLE"
	ErrCodeInitFailed          = "ERR_104_INIT_FAILED"
	ErrCodeUnsupported         = "ERR_105_UNSUPPORTED_PLATFORM"

	// Profile errors (200-299)
	ErrCodeProfileNotFound = "ERR_201_PROFILE_NOT_FOUND"

	// Driver call errors (300-399)
	ErrCodeDriverCall = "ERR_301_DRIVER_CALL_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput  = "ERR_401_INVALID_INPUT"
	ErrCodeStringTooLong = "ERR_402_STRING_TOO_LONG"

	// Internal errors (500-599)
	ErrCodeInternal    = "ERR_501_INTERNAL"
	ErrCodeBusy        = "ERR_502_BUSY"
	ErrCodeCheckFailed = "ERR_503_CHECK_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_LIBRARY_NOT_FOUND")
	numStr := code[4:7]

	switch numStr[0] {
	case '1':
		return CategoryDriver
	case '2':
		return CategoryProfile
	case '3':
		return CategoryCall
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeLibraryNotFound, ErrCodeEntryPointMissing, ErrCodeFunctionUnavailable,
		ErrCodeInitFailed, ErrCodeUnsupported:
		return SeverityFatal
	case ErrCodeBusy:
		return SeverityWarning
	default:
		return SeverityError
	}
}
