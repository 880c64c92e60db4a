package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makima-go/makima/internal/evdev"
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// Scenario 5: stick cursor emission. LSTICK=cursor never runs through
// resolveAndEmit — it only updates lstick_pos, which the cursor loop
// later reads. This test exercises exactly that update.
func TestStickCursorUpdatesPosition(t *testing.T) {
	p := emptyDefaultTestProfile(t)
	p.Settings.LStickMode = "cursor"
	p.Settings.LStickDeadzone = 5
	p.Settings.Axis16Bit = false

	tr, _, _ := newTestTranslator(t, p)

	tr.handleStick(true, true, 200, p.Settings)

	pos := tr.st.LStick()
	assert.Equal(t, int32(8), pos.X) // (200-128)*200=14400; (14400+1999)/2000=8
}

// Double forward-then-reverse of the d-pad on one axis leaves dpad_state
// at 0 (§8 idempotence law).
func TestDpadForwardReverseReturnsToZero(t *testing.T) {
	keyLeft := keyCode(t, "KEY_LEFT")
	keyRight := keyCode(t, "KEY_RIGHT")
	p := emptyDefaultTestProfile(t)
	p.RemapBindings = profile.Bindings{
		ids.AxisInput(ids.DpadLeft):  {"": ids.RemapAction(ids.KeyInput(keyLeft))},
		ids.AxisInput(ids.DpadRight): {"": ids.RemapAction(ids.KeyInput(keyRight))},
	}
	tr, sink, _ := newTestTranslator(t, p)

	tr.handleDpad(evdev.AbsHat0X, 1) // edge right: press right
	tr.handleDpad(evdev.AbsHat0X, -1) // edge left: release right, press left
	tr.handleDpad(evdev.AbsHat0X, 0)  // center: release left

	assert.Equal(t, ids.AxisNone, tr.dpadX)
	assert.Equal(t, []emission{
		{keyRight, 1},
		{keyRight, 0},
		{keyLeft, 1},
		{keyLeft, 0},
	}, sink.keys)
}

// Absolute-wheel wrap: reading sequence max_abs_wheel-1, 1 emits one CW
// pulse (§8 boundary behavior).
func TestAbsWheelWrapDetected(t *testing.T) {
	cw := keyCode(t, "KEY_KPPLUS")
	p := emptyDefaultTestProfile(t)
	p.Settings.Axis16Bit = false // max_abs_wheel = 255
	p.RemapBindings = profile.Bindings{
		ids.AxisInput(ids.AbsWheelCW): {"": ids.RemapAction(ids.KeyInput(cw))},
	}
	tr, sink, _ := newTestTranslator(t, p)
	tr.absWheelPos = 0

	tr.handleAbsWheel(evdev.AbsWheel, 254, false)
	sink.keys = nil // discard whatever the first reading (0 -> 254, itself taken as a CCW wrap) emitted

	tr.handleAbsWheel(evdev.AbsWheel, 1, false)

	require.Len(t, sink.keys, 2) // pulse press+release
	assert.Equal(t, cw, sink.keys[0].code)
	assert.Equal(t, int32(1), sink.keys[0].value)
	assert.Equal(t, int32(0), sink.keys[1].value)
}
