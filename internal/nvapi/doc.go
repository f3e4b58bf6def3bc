// Package nvapi is a minimal binding to NVIDIA's NVAPI driver interface.
//
// NVAPI exports a single symbol, nvapi_QueryInterface, which maps a 32-bit
// function ID to the address of a driver function. Every other call made by
// this package is reached through an address obtained that way and bound to a
// typed Go func with purego.
//
// Only the subset needed to edit one setting of one driver profile is covered:
// initialization, DRS session and profile management, physical GPU
// enumeration and naming, and status message lookup.
//
//	drv, err := nvapi.Open("")
//	if err != nil {
//	    return err
//	}
//	if err := drv.Init(); err != nil {
//	    return err
//	}
//	t := drv.Table()
//
// The structs in this package mirror the driver ABI byte for byte. Field order
// and sizes are load-bearing; see setting.go.
package nvapi
