package switcher

import "fmt"

// Notification lines. Listeners match on "Successfully", "enabled",
// "disabled" and "already", so this wording must not change.
const (
	MsgEnabled         = "Successfully enabled RTX!"
	MsgDisabled        = "Successfully disabled RTX!"
	MsgAlreadyEnabled  = "RTX is already enabled!"
	MsgAlreadyDisabled = "RTX is already disabled!"
	MsgGPUFound        = "RTX GPU Found!"
	MsgNoQualifyingGPU = "This app only works with RTX GPUs!"
	MsgEnumFailed      = "Failed to get GPU handles."
	msgProfileFound    = "%s driver profile found!"
	msgProfileMissing  = "%s driver profile doesn't exist!"
	msgNameFailed      = "Failed to get GPU #%d full name."
	ErrorPrefix        = "Error: "
)

// ProfileFound returns the line emitted once the named profile is open.
func ProfileFound(profile string) string {
	return fmt.Sprintf(msgProfileFound, profile)
}

// ProfileMissing returns the guided message for an absent profile.
func ProfileMissing(profile string) string {
	return fmt.Sprintf(msgProfileMissing, profile)
}

// NameFailed returns the line emitted when GPU #index has no readable name.
func NameFailed(index int) string {
	return fmt.Sprintf(msgNameFailed, index)
}

func resultMessage(enable bool) string {
	if enable {
		return MsgEnabled
	}
	return MsgDisabled
}

func alreadyMessage(enable bool) string {
	if enable {
		return MsgAlreadyEnabled
	}
	return MsgAlreadyDisabled
}
