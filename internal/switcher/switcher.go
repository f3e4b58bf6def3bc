package switcher

import (
	"fmt"
	"log/slog"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/logging"
	"github.com/Aman-CERP/rtxswitch/internal/notify"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// Defaults applied by New.
const (
	DefaultProfile   = "Minecraft"
	DefaultGPUMarker = "RTX"
	DefaultMaxGPUs   = 32
)

// Outcome is how a ChangeSetting call ended.
type Outcome int

const (
	// OutcomeChanged means the setting was written and saved.
	OutcomeChanged Outcome = iota
	// OutcomeAlreadySet means the setting already had the requested value.
	OutcomeAlreadySet
	// OutcomeNoQualifyingGPU means no GPU name contained the marker.
	OutcomeNoQualifyingGPU
)

func (o Outcome) String() string {
	switch o {
	case OutcomeChanged:
		return "changed"
	case OutcomeAlreadySet:
		return "already_set"
	case OutcomeNoQualifyingGPU:
		return "no_qualifying_gpu"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes a completed Apply call.
type Result struct {
	Outcome Outcome
	// Previous is the value read from the profile; zero for
	// OutcomeNoQualifyingGPU.
	Previous uint32
	// Value is the value the profile holds afterwards.
	Value uint32
}

// Switcher toggles one setting on one driver profile.
type Switcher struct {
	driver *nvapi.Driver
	stream *notify.Stream
	logger *slog.Logger

	profile string
	setting nvapi.SettingID
	marker  string
	maxGPUs int
}

// Option configures a Switcher.
type Option func(*Switcher)

// WithLogger sets the logger for driver call diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Switcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProfile sets the driver profile name.
func WithProfile(name string) Option {
	return func(s *Switcher) {
		if name != "" {
			s.profile = name
		}
	}
}

// WithSetting sets the DWORD setting to toggle.
func WithSetting(id nvapi.SettingID) Option {
	return func(s *Switcher) {
		if id != 0 {
			s.setting = id
		}
	}
}

// WithGPUMarker sets the substring a GPU name must contain.
func WithGPUMarker(marker string) Option {
	return func(s *Switcher) {
		if marker != "" {
			s.marker = marker
		}
	}
}

// WithMaxGPUs caps how many GPUs are inspected. Values outside
// 1..nvapi.MaxPhysicalGPUs are ignored.
func WithMaxGPUs(n int) Option {
	return func(s *Switcher) {
		if n >= 1 && n <= nvapi.MaxPhysicalGPUs {
			s.maxGPUs = n
		}
	}
}

// New returns a Switcher that drives d and reports on stream. A nil stream
// discards notifications.
func New(d *nvapi.Driver, stream *notify.Stream, opts ...Option) *Switcher {
	s := &Switcher{
		driver:  d,
		stream:  stream,
		logger:  logging.Discard(),
		profile: DefaultProfile,
		setting: nvapi.RTXDXREnabled,
		marker:  DefaultGPUMarker,
		maxGPUs: DefaultMaxGPUs,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the driver profile name.
func (s *Switcher) Profile() string {
	return s.profile
}

// ChangeSetting sets the setting to 1 (enable) or 0 (disable). A missing
// qualifying GPU and an already matching value are reported on the stream
// and are not errors.
func (s *Switcher) ChangeSetting(enable bool) error {
	_, err := s.Apply(enable)
	return err
}

// Apply is ChangeSetting with a description of what happened.
func (s *Switcher) Apply(enable bool) (res Result, err error) {
	defer func() {
		if err != nil {
			s.emit(ErrorPrefix + errorText(err))
		}
	}()

	if err := s.init(); err != nil {
		return Result{}, err
	}

	if !s.hasQualifyingGPU() {
		s.emit(MsgNoQualifyingGPU)
		return Result{Outcome: OutcomeNoQualifyingGPU}, nil
	}
	s.emit(MsgGPUFound)

	name, err := s.profileName()
	if err != nil {
		return Result{}, err
	}

	want := uint32(0)
	if enable {
		want = 1
	}

	err = s.withSession(func(sess *session) error {
		profile, err := sess.openProfile(&name)
		if err != nil {
			return err
		}
		s.emit(ProfileFound(s.profile))

		current, err := sess.read(profile)
		if err != nil {
			return err
		}
		res.Previous = current

		if current == want {
			s.emit(alreadyMessage(enable))
			res.Outcome = OutcomeAlreadySet
			res.Value = current
			return nil
		}

		if err := sess.write(profile, want); err != nil {
			return err
		}
		res.Outcome = OutcomeChanged
		res.Value = want
		s.logger.Info("setting changed",
			slog.String("profile", s.profile),
			slog.String("setting", fmt.Sprintf("0x%08X", uint32(s.setting))),
			slog.Uint64("previous", uint64(current)),
			slog.Uint64("value", uint64(want)))
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if res.Outcome == OutcomeChanged {
		s.emit(resultMessage(enable))
	}
	return res, nil
}

// Query reads the setting's current value without writing anything.
func (s *Switcher) Query() (uint32, error) {
	if err := s.init(); err != nil {
		return 0, err
	}
	name, err := s.profileName()
	if err != nil {
		return 0, err
	}

	var value uint32
	err = s.withSession(func(sess *session) error {
		profile, err := sess.openProfile(&name)
		if err != nil {
			return err
		}
		value, err = sess.read(profile)
		return err
	})
	return value, err
}

func (s *Switcher) init() error {
	if err := s.driver.Init(); err != nil {
		return DriverError(err)
	}
	return nil
}

func (s *Switcher) profileName() (nvapi.UnicodeString, error) {
	name, err := nvapi.NewUnicodeString(s.profile)
	if err != nil {
		return name, amerrors.New(amerrors.ErrCodeStringTooLong,
			fmt.Sprintf("profile name %q cannot be passed to the driver", s.profile), err).
			WithSuggestion("Set profile_name to a shorter name without NUL characters.")
	}
	return name, nil
}

func (s *Switcher) emit(msg string) {
	s.stream.Emit(msg)
}

// check logs a driver call and converts its status into an error.
func (s *Switcher) check(id nvapi.FunctionID, status nvapi.Status) error {
	err := s.driver.Table().Check(id, status)
	if err != nil {
		s.logger.Debug("nvapi call failed",
			slog.String("func", id.String()),
			slog.Int("status", int(status)),
			slog.String("error", err.Error()))
		return err
	}
	s.logger.Debug("nvapi call",
		slog.String("func", id.String()),
		slog.Int("status", int(status)))
	return nil
}

func errorText(err error) string {
	if e, ok := amerrors.As(err); ok {
		return e.Message
	}
	return err.Error()
}
