package switcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi/nvapitest"
	"github.com/Aman-CERP/rtxswitch/internal/switcher"
)

func TestHasQualifyingGPU(t *testing.T) {
	tests := []struct {
		name      string
		gpus      []string
		want      bool
		wantLines []string
	}{
		{
			name:      "single RTX",
			gpus:      []string{"NVIDIA GeForce RTX 3080"},
			want:      true,
			wantLines: []string{"NVIDIA GeForce RTX 3080"},
		},
		{
			name:      "RTX second",
			gpus:      []string{"NVIDIA GeForce GTX 1660", "NVIDIA RTX A6000"},
			want:      true,
			wantLines: []string{"NVIDIA GeForce GTX 1660", "NVIDIA RTX A6000"},
		},
		{
			name:      "stops at first match",
			gpus:      []string{"NVIDIA RTX 4090", "NVIDIA RTX 4080"},
			want:      true,
			wantLines: []string{"NVIDIA RTX 4090"},
		},
		{
			name:      "marker is case-sensitive",
			gpus:      []string{"nvidia rtx lowercase", "NVIDIA Rtx Mixed"},
			want:      false,
			wantLines: []string{"nvidia rtx lowercase", "NVIDIA Rtx Mixed"},
		},
		{
			name:      "substring match",
			gpus:      []string{"QuadroRTXish"},
			want:      true,
			wantLines: []string{"QuadroRTXish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := nvapitest.New()
			fake.GPUs = tt.gpus
			h := newHarness(t, fake)

			got := h.sw.HasQualifyingGPU()

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLines, h.rec.Lines())
			assert.Zero(t, fake.Calls(nvapi.IDDRSCreateSession))
		})
	}
}

func TestHasQualifyingGPU_EnumerationFailure(t *testing.T) {
	// Given: enumeration fails
	fake := nvapitest.New()
	fake.Fail[nvapi.IDEnumPhysicalGPUs] = nvapitest.StatusError
	h := newHarness(t, fake)

	// When: enabling
	err := h.sw.ChangeSetting(true)

	// Then: treated as no qualifying GPU
	require.NoError(t, err)
	assert.Equal(t, []string{switcher.MsgEnumFailed, switcher.MsgNoQualifyingGPU}, h.rec.Lines())
	assert.Zero(t, fake.Calls(nvapi.IDDRSCreateSession))
}

func TestHasQualifyingGPU_NoDevices(t *testing.T) {
	fake := nvapitest.New()
	fake.GPUs = nil
	h := newHarness(t, fake)

	assert.False(t, h.sw.HasQualifyingGPU())
	assert.Equal(t, []string{switcher.MsgEnumFailed}, h.rec.Lines())
}

func TestHasQualifyingGPU_NameFailureContinues(t *testing.T) {
	// Given: the first GPU's name cannot be read
	fake := nvapitest.New()
	fake.GPUs = []string{"NVIDIA RTX 4090", "NVIDIA GeForce RTX 3080"}
	fake.FailName[0] = nvapitest.StatusError
	h := newHarness(t, fake)

	// When: checking
	got := h.sw.HasQualifyingGPU()

	// Then: the failure is reported and the next GPU qualifies
	assert.True(t, got)
	assert.Equal(t, []string{"Failed to get GPU #0 full name.", "NVIDIA GeForce RTX 3080"}, h.rec.Lines())
}

func TestHasQualifyingGPU_AllNamesFail(t *testing.T) {
	fake := nvapitest.New()
	fake.GPUs = []string{"NVIDIA RTX 4090", "NVIDIA RTX 4080"}
	fake.Fail[nvapi.IDGPUGetFullName] = nvapitest.StatusError
	h := newHarness(t, fake)

	err := h.sw.ChangeSetting(true)

	require.NoError(t, err)
	assert.Equal(t, []string{
		switcher.NameFailed(0),
		switcher.NameFailed(1),
		switcher.MsgNoQualifyingGPU,
	}, h.rec.Lines())
}

func TestHasQualifyingGPU_MaxGPUs(t *testing.T) {
	// Given: the only RTX card sits past the inspection limit
	fake := nvapitest.New()
	fake.GPUs = []string{"GTX 0", "GTX 1", "GTX 2", "NVIDIA RTX 4090"}
	h := newHarness(t, fake, switcher.WithMaxGPUs(3))

	// When: checking
	got := h.sw.HasQualifyingGPU()

	// Then: it is never inspected
	assert.False(t, got)
	assert.Equal(t, 3, fake.Calls(nvapi.IDGPUGetFullName))
}

func TestHasQualifyingGPU_DefaultLimitIs32(t *testing.T) {
	fake := nvapitest.New()
	fake.GPUs = make([]string, 40)
	for i := range fake.GPUs {
		fake.GPUs[i] = "GTX"
	}
	fake.GPUs[35] = "RTX"
	h := newHarness(t, fake)

	assert.False(t, h.sw.HasQualifyingGPU())
	assert.Equal(t, switcher.DefaultMaxGPUs, fake.Calls(nvapi.IDGPUGetFullName))
}

func TestHasQualifyingGPU_CustomMarker(t *testing.T) {
	fake := nvapitest.New()
	fake.GPUs = []string{"NVIDIA GeForce RTX 4090", "NVIDIA Quadro P4000"}
	h := newHarness(t, fake, switcher.WithGPUMarker("Quadro"))

	assert.True(t, h.sw.HasQualifyingGPU())
	assert.Equal(t, 2, fake.Calls(nvapi.IDGPUGetFullName))
}

func TestHasQualifyingGPU_InitFailure(t *testing.T) {
	fake := nvapitest.New()
	fake.Fail[nvapi.IDInitialize] = nvapitest.StatusError
	h := newHarness(t, fake)

	assert.False(t, h.sw.HasQualifyingGPU())
	assert.Zero(t, fake.Calls(nvapi.IDEnumPhysicalGPUs))
}

func TestListGPUs(t *testing.T) {
	// Given: three GPUs, one unreadable
	fake := nvapitest.New()
	fake.GPUs = []string{"NVIDIA RTX 4090", "NVIDIA GTX 1080", "NVIDIA RTX 3060"}
	fake.FailName[2] = nvapitest.StatusError
	h := newHarness(t, fake)

	// When: listing
	gpus, err := h.sw.ListGPUs()

	// Then: every GPU is returned and nothing is emitted
	require.NoError(t, err)
	require.Len(t, gpus, 3)
	assert.Equal(t, switcher.GPU{Index: 0, Name: "NVIDIA RTX 4090", Qualifies: true}, gpus[0])
	assert.Equal(t, switcher.GPU{Index: 1, Name: "NVIDIA GTX 1080", Qualifies: false}, gpus[1])
	assert.Equal(t, 2, gpus[2].Index)
	assert.Error(t, gpus[2].Err)
	assert.Empty(t, h.rec.Lines())
}

func TestListGPUs_EnumerationFailure(t *testing.T) {
	fake := nvapitest.New()
	fake.Fail[nvapi.IDEnumPhysicalGPUs] = nvapitest.StatusError
	h := newHarness(t, fake)

	_, err := h.sw.ListGPUs()

	require.Error(t, err)
	assert.Equal(t, amerrors.ErrCodeDriverCall, amerrors.GetCode(err))
}

func TestListGPUs_InitFailure(t *testing.T) {
	fake := nvapitest.New()
	fake.Fail[nvapi.IDInitialize] = nvapitest.StatusError
	h := newHarness(t, fake)

	_, err := h.sw.ListGPUs()

	assert.Equal(t, amerrors.ErrCodeInitFailed, amerrors.GetCode(err))
}
