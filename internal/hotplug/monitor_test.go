package hotplug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uevent(parts ...string) []byte {
	var buf []byte
	for _, p := range parts {
		buf = append(buf, p...)
		buf = append(buf, 0)
	}
	return buf
}

func TestParseUEvent(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		wantNil       bool
		wantAction    string
		wantSubsystem string
		wantDevName   string
	}{
		{
			name:          "add input event",
			data:          uevent("add@/devices/virtual/input/input5", "SUBSYSTEM=input", "DEVNAME=input/event5"),
			wantAction:    "add",
			wantSubsystem: "input",
			wantDevName:   "input/event5",
		},
		{
			name:    "empty",
			data:    nil,
			wantNil: true,
		},
		{
			name:    "no @ separator",
			data:    uevent("garbage"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseUEvent(tt.data)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantAction, got.Action)
			assert.Equal(t, tt.wantSubsystem, got.Subsystem)
			assert.Equal(t, tt.wantDevName, got.DevName)
		})
	}
}

func TestParseUEventSkipsLibudevHeader(t *testing.T) {
	header := []byte("libudev\x00")
	payload := uevent("change@/devices/virtual/input/input5", "SUBSYSTEM=input")
	data := append(header, payload...)

	got := ParseUEvent(data)
	require.NotNil(t, got)
	assert.Equal(t, "change", got.Action)
	assert.Equal(t, "input", got.Subsystem)
}

func TestMonitorSubsystemFilter(t *testing.T) {
	m := &Monitor{filters: make(map[string]struct{})}
	m.AddSubsystemFilter(SubsystemInput)
	assert.Contains(t, m.filters, SubsystemInput)
}
