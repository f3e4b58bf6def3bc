// Package nvapitest provides an in-memory NVAPI driver for tests.
//
// Fake hands out addresses through Query and binds them through Bind, so a
// Driver built with nvapi.NewDriver(f.Query, f.Bind) runs the same resolution
// path as a real library.
package nvapitest

import (
	"sync"

	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// Status codes the fake returns for its own failures.
const (
	StatusError                 nvapi.Status = -1
	StatusInvalidArgument       nvapi.Status = -5
	StatusNvidiaDeviceNotFound  nvapi.Status = -6
	StatusInvalidHandle         nvapi.Status = -8
	StatusIncompatibleStructVer nvapi.Status = -9
	StatusSettingNotFound                    = nvapi.StatusSettingNotFound
	StatusProfileNotFound                    = nvapi.StatusProfileNotFound
)

const (
	defaultProfileName = "Minecraft"

	sessionHandleBase uintptr = 0x1000
	profileHandleBase uintptr = 0x2000
	gpuHandleBase     uintptr = 0x3000
)

// Messages maps the fake's status codes to driver text.
var Messages = map[nvapi.Status]string{
	StatusError:                 "NVAPI_ERROR",
	StatusInvalidArgument:       "NVAPI_INVALID_ARGUMENT",
	StatusIncompatibleStructVer: "NVAPI_INCOMPATIBLE_STRUCT_VERSION",
	StatusInvalidHandle:         "NVAPI_INVALID_HANDLE",
	StatusSettingNotFound:       nvapi.SettingNotFoundText,
	StatusProfileNotFound:       nvapi.ProfileNotFoundText,
	StatusNvidiaDeviceNotFound:  "NVAPI_NVIDIA_DEVICE_NOT_FOUND",
}

// Fake is an in-memory driver. Configure its exported fields before the
// Driver is initialized; read counters after.
type Fake struct {
	mu sync.Mutex

	// GPUs are the names reported by EnumPhysicalGPUs/GetFullName.
	GPUs []string
	// Profiles maps profile name to its saved setting values.
	Profiles map[string]map[nvapi.SettingID]uint32
	// Fail makes the function return the given status instead of running.
	Fail map[nvapi.FunctionID]nvapi.Status
	// FailName makes GetFullName fail for the GPU at that index.
	FailName map[int]nvapi.Status
	// Unavailable functions resolve to address 0.
	Unavailable map[nvapi.FunctionID]bool

	calls     map[nvapi.FunctionID]int
	sessions  map[nvapi.SessionHandle]map[string]map[nvapi.SettingID]uint32
	profiles  map[nvapi.ProfileHandle]string
	nextSess  uintptr
	nextProf  uintptr
	created   int
	destroyed int
	written   []nvapi.Setting
}

// New returns a fake with one RTX GPU and an empty "Minecraft" profile.
func New() *Fake {
	return &Fake{
		GPUs: []string{"NVIDIA GeForce RTX 4090"},
		Profiles: map[string]map[nvapi.SettingID]uint32{
			defaultProfileName: {},
		},
		Fail:        map[nvapi.FunctionID]nvapi.Status{},
		FailName:    map[int]nvapi.Status{},
		Unavailable: map[nvapi.FunctionID]bool{},
		calls:       map[nvapi.FunctionID]int{},
		sessions:    map[nvapi.SessionHandle]map[string]map[nvapi.SettingID]uint32{},
		profiles:    map[nvapi.ProfileHandle]string{},
	}
}

// WithSetting stores value for id in the named profile, creating it.
func (f *Fake) WithSetting(profile string, id nvapi.SettingID, value uint32) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Profiles[profile] == nil {
		f.Profiles[profile] = map[nvapi.SettingID]uint32{}
	}
	f.Profiles[profile][id] = value
	return f
}

// Driver returns an nvapi.Driver backed by f.
func (f *Fake) Driver(opts ...nvapi.Option) *nvapi.Driver {
	return nvapi.NewDriver(f.Query, f.Bind, opts...)
}

// Query implements nvapi.QueryFunc. The address of a function is its ID.
func (f *Fake) Query(id nvapi.FunctionID) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unavailable[id] {
		return 0
	}
	return uintptr(id)
}

// Bind implements nvapi.Binder.
func (f *Fake) Bind(fptr any, addr uintptr) {
	switch nvapi.FunctionID(addr) {
	case nvapi.IDInitialize:
		*fptr.(*func() nvapi.Status) = f.initialize
	case nvapi.IDDRSCreateSession:
		*fptr.(*func(*nvapi.SessionHandle) nvapi.Status) = f.createSession
	case nvapi.IDDRSLoadSettings:
		*fptr.(*func(nvapi.SessionHandle) nvapi.Status) = f.loadSettings
	case nvapi.IDDRSFindProfileByName:
		*fptr.(*func(nvapi.SessionHandle, *nvapi.UnicodeString, *nvapi.ProfileHandle) nvapi.Status) = f.findProfileByName
	case nvapi.IDDRSGetSetting:
		*fptr.(*func(nvapi.SessionHandle, nvapi.ProfileHandle, nvapi.SettingID, *nvapi.Setting) nvapi.Status) = f.getSetting
	case nvapi.IDDRSSetSetting:
		*fptr.(*func(nvapi.SessionHandle, nvapi.ProfileHandle, *nvapi.Setting) nvapi.Status) = f.setSetting
	case nvapi.IDDRSSaveSettings:
		*fptr.(*func(nvapi.SessionHandle) nvapi.Status) = f.saveSettings
	case nvapi.IDDRSDestroySession:
		*fptr.(*func(nvapi.SessionHandle) nvapi.Status) = f.destroySession
	case nvapi.IDEnumPhysicalGPUs:
		*fptr.(*func(*nvapi.GPUHandles, *uint32) nvapi.Status) = f.enumPhysicalGPUs
	case nvapi.IDGPUGetFullName:
		*fptr.(*func(nvapi.GPUHandle, *nvapi.ShortString) nvapi.Status) = f.getFullName
	case nvapi.IDGetErrorMessage:
		*fptr.(*func(nvapi.Status, *nvapi.ShortString) nvapi.Status) = f.getErrorMessage
	}
}

// Calls returns how many times the function was invoked.
func (f *Fake) Calls(id nvapi.FunctionID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// SessionsCreated returns the number of successfully created sessions.
func (f *Fake) SessionsCreated() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// SessionsDestroyed returns the number of destroyed sessions.
func (f *Fake) SessionsDestroyed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// OpenSessions returns the number of sessions not yet destroyed.
func (f *Fake) OpenSessions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

// Written returns copies of the records passed to SetSetting.
func (f *Fake) Written() []nvapi.Setting {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]nvapi.Setting(nil), f.written...)
}

// Saved returns the saved value of id in the named profile.
func (f *Fake) Saved(profile string, id nvapi.SettingID) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Profiles[profile][id]
	return v, ok
}

// enter records a call and returns the injected failure, if any.
func (f *Fake) enter(id nvapi.FunctionID) (nvapi.Status, bool) {
	f.calls[id]++
	st, ok := f.Fail[id]
	return st, ok
}

func (f *Fake) initialize() nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDInitialize); ok {
		return st
	}
	return nvapi.StatusOK
}

func (f *Fake) createSession(session *nvapi.SessionHandle) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSCreateSession); ok {
		return st
	}
	f.nextSess++
	h := nvapi.SessionHandle(sessionHandleBase + f.nextSess)
	f.sessions[h] = nil
	f.created++
	*session = h
	return nvapi.StatusOK
}

func (f *Fake) loadSettings(session nvapi.SessionHandle) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSLoadSettings); ok {
		return st
	}
	if _, ok := f.sessions[session]; !ok {
		return StatusInvalidHandle
	}
	snapshot := make(map[string]map[nvapi.SettingID]uint32, len(f.Profiles))
	for name, settings := range f.Profiles {
		copied := make(map[nvapi.SettingID]uint32, len(settings))
		for id, v := range settings {
			copied[id] = v
		}
		snapshot[name] = copied
	}
	f.sessions[session] = snapshot
	return nvapi.StatusOK
}

func (f *Fake) findProfileByName(session nvapi.SessionHandle, name *nvapi.UnicodeString, profile *nvapi.ProfileHandle) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSFindProfileByName); ok {
		return st
	}
	loaded, ok := f.sessions[session]
	if !ok {
		return StatusInvalidHandle
	}
	profileName := name.String()
	if _, ok := loaded[profileName]; !ok {
		return StatusProfileNotFound
	}
	f.nextProf++
	h := nvapi.ProfileHandle(profileHandleBase + f.nextProf)
	f.profiles[h] = profileName
	*profile = h
	return nvapi.StatusOK
}

func (f *Fake) getSetting(session nvapi.SessionHandle, profile nvapi.ProfileHandle, id nvapi.SettingID, setting *nvapi.Setting) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSGetSetting); ok {
		return st
	}
	if setting.Version != nvapi.SettingVersion1 {
		return StatusIncompatibleStructVer
	}
	settings, st := f.lookup(session, profile)
	if st != nvapi.StatusOK {
		return st
	}
	v, ok := settings[id]
	if !ok {
		return StatusSettingNotFound
	}
	setting.SettingID = id
	setting.SettingType = nvapi.SettingTypeDWORD
	setting.CurrentValue = v
	setting.PredefinedValue = v
	return nvapi.StatusOK
}

func (f *Fake) setSetting(session nvapi.SessionHandle, profile nvapi.ProfileHandle, setting *nvapi.Setting) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSSetSetting); ok {
		return st
	}
	if setting.Version != nvapi.SettingVersion1 {
		return StatusIncompatibleStructVer
	}
	settings, st := f.lookup(session, profile)
	if st != nvapi.StatusOK {
		return st
	}
	settings[setting.SettingID] = setting.CurrentValue
	f.written = append(f.written, *setting)
	return nvapi.StatusOK
}

func (f *Fake) saveSettings(session nvapi.SessionHandle) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSSaveSettings); ok {
		return st
	}
	loaded, ok := f.sessions[session]
	if !ok || loaded == nil {
		return StatusInvalidHandle
	}
	for name, settings := range loaded {
		f.Profiles[name] = settings
	}
	return nvapi.StatusOK
}

func (f *Fake) destroySession(session nvapi.SessionHandle) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDDRSDestroySession); ok {
		return st
	}
	if _, ok := f.sessions[session]; !ok {
		return StatusInvalidHandle
	}
	delete(f.sessions, session)
	f.destroyed++
	return nvapi.StatusOK
}

func (f *Fake) enumPhysicalGPUs(handles *nvapi.GPUHandles, count *uint32) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDEnumPhysicalGPUs); ok {
		return st
	}
	if len(f.GPUs) == 0 {
		return StatusNvidiaDeviceNotFound
	}
	n := min(len(f.GPUs), nvapi.MaxPhysicalGPUs)
	for i := 0; i < n; i++ {
		handles[i] = nvapi.GPUHandle(gpuHandleBase + uintptr(i))
	}
	*count = uint32(n)
	return nvapi.StatusOK
}

func (f *Fake) getFullName(gpu nvapi.GPUHandle, name *nvapi.ShortString) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDGPUGetFullName); ok {
		return st
	}
	i := int(uintptr(gpu) - gpuHandleBase)
	if i < 0 || i >= len(f.GPUs) {
		return StatusInvalidHandle
	}
	if st, ok := f.FailName[i]; ok {
		return st
	}
	copy(name[:len(name)-1], f.GPUs[i])
	return nvapi.StatusOK
}

func (f *Fake) getErrorMessage(status nvapi.Status, message *nvapi.ShortString) nvapi.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.enter(nvapi.IDGetErrorMessage); ok {
		return st
	}
	text, ok := Messages[status]
	if !ok {
		return StatusInvalidArgument
	}
	copy(message[:len(message)-1], text)
	return nvapi.StatusOK
}

func (f *Fake) lookup(session nvapi.SessionHandle, profile nvapi.ProfileHandle) (map[nvapi.SettingID]uint32, nvapi.Status) {
	loaded, ok := f.sessions[session]
	if !ok || loaded == nil {
		return nil, StatusInvalidHandle
	}
	name, ok := f.profiles[profile]
	if !ok {
		return nil, StatusInvalidHandle
	}
	settings, ok := loaded[name]
	if !ok {
		return nil, StatusProfileNotFound
	}
	return settings, nvapi.StatusOK
}
