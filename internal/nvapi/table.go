package nvapi

import (
	"reflect"
)

// MaxPhysicalGPUs is NVAPI_MAX_PHYSICAL_GPUS, the size of the handle array
// NvAPI_EnumPhysicalGPUs fills.
const MaxPhysicalGPUs = 64

// Opaque driver handles. Their bit patterns are never interpreted.
type (
	SessionHandle uintptr
	ProfileHandle uintptr
	GPUHandle     uintptr
)

// GPUHandles is the output array of NvAPI_EnumPhysicalGPUs.
type GPUHandles [MaxPhysicalGPUs]GPUHandle

// Table holds the resolved driver functions. A nil field is a function the
// running driver does not provide; it must not be called.
type Table struct {
	Initialize        func() Status
	CreateSession     func(session *SessionHandle) Status
	LoadSettings      func(session SessionHandle) Status
	FindProfileByName func(session SessionHandle, name *UnicodeString, profile *ProfileHandle) Status
	GetSetting        func(session SessionHandle, profile ProfileHandle, id SettingID, setting *Setting) Status
	SetSetting        func(session SessionHandle, profile ProfileHandle, setting *Setting) Status
	SaveSettings      func(session SessionHandle) Status
	DestroySession    func(session SessionHandle) Status
	EnumPhysicalGPUs  func(handles *GPUHandles, count *uint32) Status
	GetFullName       func(gpu GPUHandle, name *ShortString) Status
	GetErrorMessage   func(status Status, message *ShortString) Status
}

// slot returns a pointer to the func field for id, or nil for unknown IDs.
func (t *Table) slot(id FunctionID) any {
	switch id {
	case IDInitialize:
		return &t.Initialize
	case IDDRSCreateSession:
		return &t.CreateSession
	case IDDRSLoadSettings:
		return &t.LoadSettings
	case IDDRSFindProfileByName:
		return &t.FindProfileByName
	case IDDRSGetSetting:
		return &t.GetSetting
	case IDDRSSetSetting:
		return &t.SetSetting
	case IDDRSSaveSettings:
		return &t.SaveSettings
	case IDDRSDestroySession:
		return &t.DestroySession
	case IDEnumPhysicalGPUs:
		return &t.EnumPhysicalGPUs
	case IDGPUGetFullName:
		return &t.GetFullName
	case IDGetErrorMessage:
		return &t.GetErrorMessage
	default:
		return nil
	}
}

// Has reports whether the function for id is bound.
func (t *Table) Has(id FunctionID) bool {
	fptr := t.slot(id)
	if fptr == nil {
		return false
	}
	return !reflect.ValueOf(fptr).Elem().IsNil()
}

// Missing returns the mandatory functions that are not bound.
func (t *Table) Missing() []FunctionID {
	var missing []FunctionID
	for _, id := range FunctionIDs() {
		if id.Mandatory() && !t.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// ErrorMessage returns the driver's text for status, or "" when the lookup
// function is unavailable or fails.
func (t *Table) ErrorMessage(status Status) string {
	if t.GetErrorMessage == nil {
		return ""
	}
	var msg ShortString
	if t.GetErrorMessage(status, &msg) != StatusOK {
		return ""
	}
	return msg.String()
}

// Check converts a driver return code into an error. A nonzero status yields
// a *StatusError carrying the driver's message when one is available.
func (t *Table) Check(id FunctionID, status Status) error {
	if status == StatusOK {
		return nil
	}
	return &StatusError{
		Func:    id,
		Status:  status,
		Message: t.ErrorMessage(status),
	}
}
