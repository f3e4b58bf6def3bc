package nvapi

import "unsafe"

// SettingID identifies a DRS setting.
type SettingID uint32

// RTXDXREnabled toggles DirectX Raytracing for a profile (0 = off, 1 = on).
const RTXDXREnabled SettingID = 0x00DE429A

// Setting type and location tags.
const (
	SettingTypeDWORD        uint32 = 0
	SettingLocationCurrent  uint32 = 0
	settingRevision         uint32 = 1
	SettingSize                    = 12320
	settingNameOffset              = 4
	settingIDOffset                = settingNameOffset + UnicodeStringSize
	settingPredefinedOffset        = settingIDOffset + 5*4
)

// Setting mirrors NVDRS_SETTING_V1 with 1-byte packing.
//
// The driver declares the predefined and current values as unions of a DWORD,
// a binary blob and a UnicodeString. Flattening each union into a uint32
// followed by a UnicodeString keeps every offset and the total size identical,
// and every field already sits on a 4-byte boundary, so the Go layout has no
// padding.
type Setting struct {
	Version             uint32
	SettingName         UnicodeString
	SettingID           SettingID
	SettingType         uint32
	SettingLocation     uint32
	IsCurrentPredefined uint32
	IsPredefinedValid   uint32
	PredefinedValue     uint32
	PredefinedString    UnicodeString
	CurrentValue        uint32
	CurrentString       UnicodeString
}

// Compile-time layout checks.
var (
	_ [SettingSize - unsafe.Sizeof(Setting{})]byte
	_ [unsafe.Sizeof(Setting{}) - SettingSize]byte
	_ [settingPredefinedOffset - unsafe.Offsetof(Setting{}.PredefinedValue)]byte
	_ [unsafe.Offsetof(Setting{}.PredefinedValue) - settingPredefinedOffset]byte
)

// SettingVersion1 is NVDRS_SETTING_VER1.
var SettingVersion1 = MakeVersion(SettingSize, settingRevision)

// NewSettingQuery returns a record prepared for NvAPI_DRS_GetSetting. The
// driver requires the version tag and setting ID on input.
func NewSettingQuery(id SettingID) *Setting {
	return &Setting{
		Version:   SettingVersion1,
		SettingID: id,
	}
}

// NewDWORDSetting returns a record for NvAPI_DRS_SetSetting that sets both the
// current and predefined value of a DWORD setting.
func NewDWORDSetting(id SettingID, value uint32) *Setting {
	return &Setting{
		Version:         SettingVersion1,
		SettingID:       id,
		SettingType:     SettingTypeDWORD,
		SettingLocation: SettingLocationCurrent,
		PredefinedValue: value,
		CurrentValue:    value,
	}
}
