// Package switcher runs the driver-profile protocol that toggles a DWORD
// setting (RTX_DXR_Enabled by default) on a named profile ("Minecraft").
//
// A Switcher initializes the driver once, gates on a GPU whose name contains
// the marker ("RTX"), then opens a DRS session, loads settings, finds the
// profile, reads the setting and writes and saves it only when it differs
// from the request. The session is destroyed on every exit path. Progress
// and results are emitted as lines on a notify.Stream; failures are returned
// as *errors.Error values.
//
// A Switcher is not safe for concurrent ChangeSetting calls. Callers
// serialize them.
package switcher
