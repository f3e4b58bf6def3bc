package switcher

import (
	"log/slog"
	"strings"

	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
)

// GPU is one enumerated physical GPU.
type GPU struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
	// Qualifies reports whether Name contains the marker.
	Qualifies bool `json:"qualifies"`
	// Err is set when the name could not be read.
	Err error `json:"-"`
}

// HasQualifyingGPU reports whether a GPU name contains the marker
// (case-sensitive). Each name is emitted as it is read; enumeration and
// name failures are emitted and treated as "no contribution". It stops at
// the first match.
func (s *Switcher) HasQualifyingGPU() bool {
	if err := s.driver.Init(); err != nil {
		s.logger.Warn("driver unavailable for GPU check", slog.String("error", err.Error()))
		return false
	}
	return s.hasQualifyingGPU()
}

func (s *Switcher) hasQualifyingGPU() bool {
	handles, err := s.enumerate()
	if err != nil {
		s.emit(MsgEnumFailed)
		return false
	}

	for i, h := range handles {
		name, err := s.fullName(h)
		if err != nil {
			s.emit(NameFailed(i))
			continue
		}
		s.emit(name)
		if strings.Contains(name, s.marker) {
			return true
		}
	}
	return false
}

// ListGPUs returns every GPU up to the configured maximum without emitting
// anything. Per-GPU name failures are recorded on the GPU.
func (s *Switcher) ListGPUs() ([]GPU, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	handles, err := s.enumerate()
	if err != nil {
		return nil, s.callError(err)
	}

	gpus := make([]GPU, 0, len(handles))
	for i, h := range handles {
		gpu := GPU{Index: i}
		name, err := s.fullName(h)
		if err != nil {
			gpu.Err = err
		} else {
			gpu.Name = name
			gpu.Qualifies = strings.Contains(name, s.marker)
		}
		gpus = append(gpus, gpu)
	}
	return gpus, nil
}

// enumerate returns at most maxGPUs handles.
func (s *Switcher) enumerate() ([]nvapi.GPUHandle, error) {
	t := s.driver.Table()

	var (
		handles nvapi.GPUHandles
		count   uint32
	)
	if err := s.check(nvapi.IDEnumPhysicalGPUs, t.EnumPhysicalGPUs(&handles, &count)); err != nil {
		return nil, err
	}

	n := min(int(count), s.maxGPUs, len(handles))
	return handles[:n], nil
}

func (s *Switcher) fullName(h nvapi.GPUHandle) (string, error) {
	var name nvapi.ShortString
	if err := s.check(nvapi.IDGPUGetFullName, s.driver.Table().GetFullName(h, &name)); err != nil {
		return "", err
	}
	return name.String(), nil
}
