package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseWMClassInstance(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  string
	}{
		{"instance and class with trailing nul", []byte("firefox\x00Firefox\x00"), "Firefox"},
		{"no nul separator", []byte("firefox"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWMClassInstance(tt.value))
		})
	}
}

func TestSwayNodeFindFocused(t *testing.T) {
	appID := "firefox"
	tree := swayNode{
		Nodes: []swayNode{
			{Nodes: []swayNode{
				{Focused: true, AppID: &appID},
			}},
		},
	}
	found, ok := tree.findFocused()
	assert.True(t, ok)
	assert.Equal(t, &appID, found.AppID)
}

func TestSwayNodeFindFocusedNone(t *testing.T) {
	tree := swayNode{Nodes: []swayNode{{}, {}}}
	_, ok := tree.findFocused()
	assert.False(t, ok)
}

func TestDetectSessionKind(t *testing.T) {
	tests := []struct {
		name        string
		session     string
		desktop     string
		waylandDisp string
		want        sessionKind
	}{
		{"hyprland", "wayland", "Hyprland", "", sessionHyprland},
		{"sway", "wayland", "sway", "", sessionSway},
		{"kde wayland", "wayland", "KDE", "", sessionKDEWayland},
		{"x11", "x11", "", "", sessionX11},
		{"unsupported wayland compositor", "wayland", "GNOME", "", sessionUnsupported},
		{"nothing set", "", "", "", sessionUnsupported},
		{"wayland display set but no session type, sway desktop", "", "sway", "wayland-1", sessionSway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.session)
			t.Setenv("XDG_CURRENT_DESKTOP", tt.desktop)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisp)
			assert.Equal(t, tt.want, detectSessionKind())
		})
	}
}
