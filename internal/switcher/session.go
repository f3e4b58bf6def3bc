package switcher

import (
	"errors"
	"log/slog"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// session is one open DRS session. It exists only inside withSession.
type session struct {
	s      *Switcher
	t      *nvapi.Table
	handle nvapi.SessionHandle
}

// withSession creates a session, loads the settings into it, runs fn and
// destroys the session. Destruction happens exactly once whenever creation
// succeeded; a failed destroy is logged and does not change the result.
func (s *Switcher) withSession(fn func(*session) error) error {
	t := s.driver.Table()

	var handle nvapi.SessionHandle
	if err := s.check(nvapi.IDDRSCreateSession, t.CreateSession(&handle)); err != nil {
		return s.callError(err)
	}
	defer func() {
		status := t.DestroySession(handle)
		if err := s.check(nvapi.IDDRSDestroySession, status); err != nil {
			s.logger.Warn("failed to destroy driver session", slog.String("error", err.Error()))
		}
	}()

	sess := &session{s: s, t: t, handle: handle}
	if err := s.check(nvapi.IDDRSLoadSettings, t.LoadSettings(handle)); err != nil {
		return s.callError(err)
	}
	return fn(sess)
}

// openProfile finds the configured profile.
func (sess *session) openProfile(name *nvapi.UnicodeString) (nvapi.ProfileHandle, error) {
	var profile nvapi.ProfileHandle
	status := sess.t.FindProfileByName(sess.handle, name, &profile)
	if err := sess.s.check(nvapi.IDDRSFindProfileByName, status); err != nil {
		return 0, sess.s.callError(err)
	}
	return profile, nil
}

// read returns the current value of the configured setting.
func (sess *session) read(profile nvapi.ProfileHandle) (uint32, error) {
	setting := nvapi.NewSettingQuery(sess.s.setting)
	status := sess.t.GetSetting(sess.handle, profile, sess.s.setting, setting)
	if err := sess.s.check(nvapi.IDDRSGetSetting, status); err != nil {
		return 0, sess.s.callError(err)
	}
	return setting.CurrentValue, nil
}

// write stores value as both current and predefined value and saves the
// profile store.
func (sess *session) write(profile nvapi.ProfileHandle, value uint32) error {
	setting := nvapi.NewDWORDSetting(sess.s.setting, value)
	status := sess.t.SetSetting(sess.handle, profile, setting)
	if err := sess.s.check(nvapi.IDDRSSetSetting, status); err != nil {
		return sess.s.callError(err)
	}
	if err := sess.s.check(nvapi.IDDRSSaveSettings, sess.t.SaveSettings(sess.handle)); err != nil {
		return sess.s.callError(err)
	}
	return nil
}

// callError converts a failed driver call. A profile-not-found status from
// any call becomes the guided profile error.
func (s *Switcher) callError(err error) error {
	if nvapi.IsProfileNotFound(err) {
		return amerrors.New(amerrors.ErrCodeProfileNotFound, ProfileMissing(s.profile), err).
			WithDetail("profile", s.profile).
			WithSuggestion("The profile ships with the NVIDIA driver. Reinstall the driver to restore it.")
	}

	e := amerrors.CallError(err.Error(), err)
	var se *nvapi.StatusError
	if errors.As(err, &se) {
		e = e.WithDetail("function", se.Func.String())
		if se.Func == nvapi.IDDRSSaveSettings || se.Func == nvapi.IDDRSSetSetting {
			e = e.WithSuggestion("Writing driver profiles may need administrator rights.")
		}
	}
	return e
}
