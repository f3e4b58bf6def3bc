// Package preflight diagnoses why rtxswitch cannot change the driver
// profile. It backs the `rtxswitch doctor` command.
//
// The checks run in dependency order:
//   - Configuration validity
//   - Platform support
//   - NVAPI library load and nvapi_QueryInterface export
//   - Function availability (mandatory and optional IDs)
//   - Driver initialization
//   - A GPU whose name contains the marker
//   - The driver profile and the current setting value
//   - Whether another rtxswitch process holds the lock
//
// A check whose prerequisite failed is reported as skipped.
//
//	checker := preflight.New(preflight.WithOpener(nvapi.Open))
//	results := checker.RunAll(ctx, cfg)
//	if checker.HasCriticalFailures(results) {
//	    // Handle failures
//	}
package preflight
