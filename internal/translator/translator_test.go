package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

type emission struct {
	code  uint16
	value int32
}

type fakeSink struct {
	keys []emission
	rels []emission
}

func (f *fakeSink) EmitKey(code uint16, value int32) error {
	f.keys = append(f.keys, emission{code, value})
	return nil
}
func (f *fakeSink) EmitRel(code uint16, value int32) error {
	f.rels = append(f.rels, emission{code, value})
	return nil
}
func (f *fakeSink) EmitAbsButton(code uint16, value int32) error { return nil }
func (f *fakeSink) EmitAbsMove(x, y int32) error                 { return nil }

type fakeLauncher struct {
	spawned [][]string
}

func (f *fakeLauncher) Spawn(commands []string) {
	f.spawned = append(f.spawned, commands)
}

func keyCode(t *testing.T, name string) uint16 {
	t.Helper()
	code, ok := ids.KeyCodeByName(name)
	require.True(t, ok, "unknown key %q", name)
	return code
}

func newTestTranslator(t *testing.T, p profile.Profile) (*Translator, *fakeSink, *fakeLauncher) {
	t.Helper()
	sink := &fakeSink{}
	launcher := &fakeLauncher{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	tr := &Translator{
		sinks:    sink,
		launcher: launcher,
		ctx:      ctx,
		cancel:   cancel,
	}
	tr.st = newState(p)
	return tr, sink, launcher
}

// Scenario 1: tap-modifier-alone.
func TestTapModifierAlone(t *testing.T) {
	keyA := keyCode(t, "KEY_A")
	p := emptyDefaultTestProfile(t)
	p.Modifiers.Custom = ids.NewModSet(keyA)
	p.Modifiers.All = ids.NewModSet(append(p.Modifiers.Default.Codes(), keyA)...)

	tr, sink, _ := newTestTranslator(t, p)

	tr.resolveAndEmit(ids.KeyInput(keyA), 1, false)
	tr.resolveAndEmit(ids.KeyInput(keyA), 0, false)

	assert.Equal(t, []emission{{keyA, 1}, {keyA, 0}}, sink.keys)
}

// Scenario 2: chord emission.
func TestChordEmission(t *testing.T) {
	ctrl := keyCode(t, "KEY_LEFTCTRL")
	keyC := keyCode(t, "KEY_C")

	p := emptyDefaultTestProfile(t)
	mods := ids.NewModSet(ctrl)
	p.RemapBindings = profile.Bindings{
		ids.KeyInput(keyC): {mods.Key(): ids.RemapAction(ids.KeyInput(keyC))},
	}

	tr, sink, _ := newTestTranslator(t, p)

	tr.resolveAndEmit(ids.KeyInput(ctrl), 1, false) // forwarded, default path
	tr.resolveAndEmit(ids.KeyInput(keyC), 1, false) // matches chord
	tr.resolveAndEmit(ids.KeyInput(keyC), 0, false) // release
	tr.resolveAndEmit(ids.KeyInput(ctrl), 0, false) // release

	assert.Equal(t, []emission{
		{ctrl, 1},
		{keyC, 1},
		{keyC, 0},
		{ctrl, 0},
	}, sink.keys)
}

// Scenario 3: command binding.
func TestCommandBinding(t *testing.T) {
	start := keyCode(t, "BTN_START")
	p := emptyDefaultTestProfile(t)
	p.CommandBindings = profile.Bindings{
		ids.KeyInput(start): {"": ids.CommandAction("notify-send hello")},
	}

	tr, sink, launcher := newTestTranslator(t, p)

	tr.resolveAndEmit(ids.KeyInput(start), 1, false)
	tr.resolveAndEmit(ids.KeyInput(start), 0, false)

	require.Len(t, launcher.spawned, 1)
	assert.Equal(t, []string{"notify-send hello"}, launcher.spawned[0])
	assert.Empty(t, sink.keys)
}

// Scenario 6: disconnect cleanup — a held key must be released before
// the Translator's event loop exits.
func TestDisconnectReleasesHeldKeys(t *testing.T) {
	keyA := keyCode(t, "KEY_A")
	p := emptyDefaultTestProfile(t)
	tr, sink, _ := newTestTranslator(t, p)

	tr.resolveAndEmit(ids.KeyInput(keyA), 1, false)
	assert.Equal(t, []emission{{keyA, 1}}, sink.keys)

	tr.releaseAllHeld()

	assert.Equal(t, []emission{{keyA, 1}, {keyA, 0}}, sink.keys)
}

// Idempotence law: press+release of a plain key with empty modifiers
// produces exactly that pair and leaves modifiers unchanged.
func TestPlainKeyRoundTrip(t *testing.T) {
	keyA := keyCode(t, "KEY_A")
	p := emptyDefaultTestProfile(t)
	tr, sink, _ := newTestTranslator(t, p)

	tr.resolveAndEmit(ids.KeyInput(keyA), 1, false)
	tr.resolveAndEmit(ids.KeyInput(keyA), 0, false)

	assert.Equal(t, []emission{{keyA, 1}, {keyA, 0}}, sink.keys)
	assert.True(t, tr.st.Modifiers().Empty())
}

func emptyDefaultTestProfile(t *testing.T) profile.Profile {
	t.Helper()
	s, err := profile.ParseSettings(nil, func(string) {})
	require.NoError(t, err)
	return profile.Profile{
		Name:            "Test Device",
		DeviceName:      "Test Device",
		Associations:    profile.Association{Client: ids.DefaultClient, Layout: 0},
		RemapBindings:   profile.Bindings{},
		CommandBindings: profile.Bindings{},
		Settings:        s,
		Modifiers: profile.ModifierSets{
			Default: ids.NewModSet(ids.DefaultModifierKeys...),
			All:     ids.NewModSet(ids.DefaultModifierKeys...),
		},
	}
}
