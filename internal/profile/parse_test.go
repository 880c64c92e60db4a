package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makima-go/makima/internal/ids"
)

func TestParseProfileName(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		wantDevice string
		wantClient ids.Client
		wantLayout uint16
	}{
		{"device only", "Xbox Controller", "Xbox Controller", ids.DefaultClient, 0},
		{"device and class", "Xbox Controller::firefox", "Xbox Controller", "firefox", 0},
		{"device and layout", "Xbox Controller::2", "Xbox Controller", ids.DefaultClient, 2},
		{"device, class, layout", "Xbox Controller::firefox::1", "Xbox Controller", "firefox", 1},
		{"device, layout, class (order free)", "Xbox Controller::1::firefox", "Xbox Controller", "firefox", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, assoc := ParseProfileName(tt.base, func(string) {})
			assert.Equal(t, tt.wantDevice, device)
			assert.Equal(t, tt.wantClient, assoc.Client)
			assert.Equal(t, tt.wantLayout, assoc.Layout)
		})
	}
}

func TestParseProfileNameAmbiguousFallsBackToDefault(t *testing.T) {
	var warned []string
	_, assoc := ParseProfileName("Pad::firefox::chrome", func(m string) { warned = append(warned, m) })
	assert.Equal(t, ids.DefaultClient, assoc.Client)
	assert.Equal(t, uint16(0), assoc.Layout)
	assert.NotEmpty(t, warned)
}

func TestParseBindingKeyPlain(t *testing.T) {
	input, modKey, mods, err := parseBindingKey("KEY_A")
	require.NoError(t, err)
	assert.Equal(t, emptyModsKey, modKey)
	assert.Empty(t, mods)
	a, _ := ids.KeyCodeByName("KEY_A")
	assert.Equal(t, ids.KeyInput(a), input)
}

func TestParseBindingKeyChord(t *testing.T) {
	input, modKey, mods, err := parseBindingKey("KEY_LEFTCTRL-KEY_C")
	require.NoError(t, err)
	assert.NotEqual(t, emptyModsKey, modKey)
	assert.Len(t, mods, 1)
	c, _ := ids.KeyCodeByName("KEY_C")
	assert.Equal(t, ids.KeyInput(c), input)
}

func TestParseBindingKeyHoldOnly(t *testing.T) {
	input, modKey, mods, err := parseBindingKey("-KEY_C")
	require.NoError(t, err)
	assert.Equal(t, holdKey, modKey)
	assert.Empty(t, mods)
	c, _ := ids.KeyCodeByName("KEY_C")
	assert.Equal(t, ids.KeyInput(c), input)
}

func TestParseFileChordAndCommands(t *testing.T) {
	doc := []byte(`
[remap]
"KEY_LEFTCTRL-KEY_C" = ["KEY_C"]

[commands]
BTN_START = ["notify-send hello"]

[settings]
GRAB_DEVICE = "false"
CHAIN_ONLY = "false"
`)
	p, err := ParseFile("Xbox Controller", doc, func(string) {})
	require.NoError(t, err)

	assert.False(t, p.Settings.GrabDevice)
	assert.False(t, p.Settings.ChainOnly)

	c, _ := ids.KeyCodeByName("KEY_C")
	action, ok := p.RemapBindings.UnderMods(ids.KeyInput(c), ids.NewModSet(mustCode(t, "KEY_LEFTCTRL")))
	require.True(t, ok)
	assert.Equal(t, []ids.Input{ids.KeyInput(c)}, action.Emit)

	start, _ := ids.KeyCodeByName("BTN_START")
	cmdAction, ok := p.CommandBindings.Unmodified(ids.KeyInput(start))
	require.True(t, ok)
	assert.Equal(t, []string{"notify-send hello"}, cmdAction.Spawn)
}

func mustCode(t *testing.T, name string) uint16 {
	t.Helper()
	code, ok := ids.KeyCodeByName(name)
	require.True(t, ok)
	return code
}
