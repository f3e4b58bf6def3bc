package nvapi

import "fmt"

// EntryPoint is the only symbol NVAPI exports by name.
const EntryPoint = "nvapi_QueryInterface"

// FunctionID identifies a driver function for nvapi_QueryInterface.
type FunctionID uint32

// Function IDs used by this package. They are stable across driver releases.
const (
	IDInitialize           FunctionID = 0x0150E828
	IDDRSCreateSession     FunctionID = 0x0694D52E
	IDDRSLoadSettings      FunctionID = 0x375DBD6B
	IDDRSFindProfileByName FunctionID = 0x7E4A9A0B
	IDDRSGetSetting        FunctionID = 0x73BF8338
	IDDRSSetSetting        FunctionID = 0x577DD202
	IDDRSSaveSettings      FunctionID = 0xFCBC7E14
	IDDRSDestroySession    FunctionID = 0xDAD9CFF8
	IDEnumPhysicalGPUs     FunctionID = 0xE5AC921F
	IDGPUGetFullName       FunctionID = 0xCEEE8E9F
	IDGetErrorMessage      FunctionID = 0x6C2D048C
)

var functionNames = map[FunctionID]string{
	IDInitialize:           "NvAPI_Initialize",
	IDDRSCreateSession:     "NvAPI_DRS_CreateSession",
	IDDRSLoadSettings:      "NvAPI_DRS_LoadSettings",
	IDDRSFindProfileByName: "NvAPI_DRS_FindProfileByName",
	IDDRSGetSetting:        "NvAPI_DRS_GetSetting",
	IDDRSSetSetting:        "NvAPI_DRS_SetSetting",
	IDDRSSaveSettings:      "NvAPI_DRS_SaveSettings",
	IDDRSDestroySession:    "NvAPI_DRS_DestroySession",
	IDEnumPhysicalGPUs:     "NvAPI_EnumPhysicalGPUs",
	IDGPUGetFullName:       "NvAPI_GPU_GetFullName",
	IDGetErrorMessage:      "NvAPI_GetErrorMessage",
}

// String returns the NVAPI function name, or the hex ID for unknown IDs.
func (id FunctionID) String() string {
	if name, ok := functionNames[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(id))
}

// Mandatory reports whether the function must resolve for the driver to be usable.
// Only the error message lookup is optional.
func (id FunctionID) Mandatory() bool {
	return id != IDGetErrorMessage
}

// FunctionIDs returns every function ID this package resolves, in call order.
func FunctionIDs() []FunctionID {
	return []FunctionID{
		IDInitialize,
		IDDRSCreateSession,
		IDDRSLoadSettings,
		IDDRSFindProfileByName,
		IDDRSGetSetting,
		IDDRSSetSetting,
		IDDRSSaveSettings,
		IDDRSDestroySession,
		IDEnumPhysicalGPUs,
		IDGPUGetFullName,
		IDGetErrorMessage,
	}
}
