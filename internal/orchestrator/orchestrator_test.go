package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makima-go/makima/internal/hotplug"
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

func testProfileStore(t *testing.T, deviceNames ...string) *profile.ProfileStore {
	t.Helper()
	s, err := profile.ParseSettings(nil, func(string) {})
	require.NoError(t, err)

	data := make(map[string]profile.ProfileSet, len(deviceNames))
	for _, name := range deviceNames {
		data[name] = profile.ProfileSet{
			DeviceName: name,
			Profiles: []profile.Profile{{
				Name:         name,
				DeviceName:   name,
				Associations: profile.Association{Client: ids.DefaultClient, Layout: 0},
				Settings:     s,
				Modifiers: profile.ModifierSets{
					Default: ids.NewModSet(ids.DefaultModifierKeys...),
					All:     ids.NewModSet(ids.DefaultModifierKeys...),
				},
			}},
		}
	}
	return profile.NewStore(data)
}

func TestMatchProfilePrefix(t *testing.T) {
	store := testProfileStore(t, "Xbox Wireless Controller")

	tests := []struct {
		name         string
		reportedName string
		wantMatch    bool
	}{
		{"exact match", "Xbox Wireless Controller", true},
		{"reported name extends configured prefix", "Xbox Wireless Controller (usb)", true},
		{"unrelated device", "Logitech Mouse", false},
		{"configured name as suffix does not match", "My Xbox Wireless Controller", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ok := matchProfile(tt.reportedName, store)
			assert.Equal(t, tt.wantMatch, ok)
		})
	}
}

func TestTopologyAffectsMapped(t *testing.T) {
	store := testProfileStore(t, "Xbox Wireless Controller")

	tests := []struct {
		name string
		ev   hotplug.Event
	}{
		{"devname contains mapped device", hotplug.Event{DevName: "Xbox Wireless Controller Event"}},
		{"kobj contains mapped device", hotplug.Event{KObj: "/devices/.../Xbox Wireless Controller/input/event3"}},
		{"no readable name still re-enumerates", hotplug.Event{DevName: "", KObj: "/devices/.../input/event3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, topologyAffectsMapped(tt.ev, store))
		})
	}
}
