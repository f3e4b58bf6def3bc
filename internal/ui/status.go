package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Aman-CERP/rtxswitch/internal/switcher"
)

// GPUInfo is one enumerated GPU.
type GPUInfo struct {
	Index     int    `json:"index"`
	Name      string `json:"name,omitempty"`
	Qualifies bool   `json:"qualifies"`
	Error     string `json:"error,omitempty"`
}

// StatusInfo describes the current state of the profile setting.
type StatusInfo struct {
	Library   string    `json:"library,omitempty"`
	Profile   string    `json:"profile"`
	SettingID string    `json:"setting_id"`
	Value     uint32    `json:"value"`
	State     string    `json:"state"` // "enabled", "disabled", "other"
	GPUs      []GPUInfo `json:"gpus,omitempty"`
}

// StateOf names a setting value the way the switcher compares it.
func StateOf(value uint32) string {
	switch value {
	case 1:
		return "enabled"
	case 0:
		return "disabled"
	default:
		return "other"
	}
}

// GPUInfos converts enumerated GPUs for display.
func GPUInfos(gpus []switcher.GPU) []GPUInfo {
	infos := make([]GPUInfo, 0, len(gpus))
	for _, g := range gpus {
		info := GPUInfo{Index: g.Index, Name: g.Name, Qualifies: g.Qualifies}
		if g.Err != nil {
			info.Error = g.Err.Error()
		}
		infos = append(infos, info)
	}
	return infos
}

// StatusRenderer displays the setting state and GPU list.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:    out,
		styles: GetStyles(noColor),
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Driver profile: "+info.Profile))

	_, _ = fmt.Fprintf(r.out, "  Setting: %s\n", info.SettingID)
	_, _ = fmt.Fprintf(r.out, "  Value:   %d (%s)\n", info.Value, r.renderState(info.State))
	if info.Library != "" {
		_, _ = fmt.Fprintf(r.out, "  Library: %s\n", info.Library)
	}

	if len(info.GPUs) > 0 {
		_, _ = fmt.Fprintln(r.out)
		r.renderGPUs(info.GPUs)
	}
	return nil
}

// RenderGPUs displays the GPU list alone.
func (r *StatusRenderer) RenderGPUs(gpus []GPUInfo) error {
	if len(gpus) == 0 {
		_, _ = fmt.Fprintln(r.out, r.styles.Warning.Render("No GPUs reported by the driver"))
		return nil
	}
	r.renderGPUs(gpus)
	return nil
}

func (r *StatusRenderer) renderGPUs(gpus []GPUInfo) {
	_, _ = fmt.Fprintln(r.out, "  GPUs:")
	for _, g := range gpus {
		switch {
		case g.Error != "":
			_, _ = fmt.Fprintf(r.out, "    #%d  %s\n", g.Index, r.styles.Error.Render(g.Error))
		case g.Qualifies:
			_, _ = fmt.Fprintf(r.out, "    #%d  %s %s\n", g.Index, g.Name, r.styles.Enabled.Render("(RTX)"))
		default:
			_, _ = fmt.Fprintf(r.out, "    #%d  %s\n", g.Index, r.styles.Label.Render(g.Name))
		}
	}
}

// RenderJSON outputs v as indented JSON.
func (r *StatusRenderer) RenderJSON(v any) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// renderState formats a state with the matching result color.
func (r *StatusRenderer) renderState(state string) string {
	switch state {
	case "enabled":
		return r.styles.Enabled.Render(state)
	case "disabled":
		return r.styles.Disabled.Render(state)
	default:
		return r.styles.Already.Render(state)
	}
}
