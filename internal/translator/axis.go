package translator

import (
	"github.com/makima-go/makima/internal/evdev"
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// handleDpad implements the d-pad half of §4.5.4: ABS_HAT0X/Y read ±1 at
// the edges and 0 at center. axis selects which of the two HAT axes fired.
func (t *Translator) handleDpad(axis evdev.EventCode, value int32) {
	var low, high ids.AxisKind
	var current *ids.AxisKind
	if axis == evdev.AbsHat0X {
		low, high = ids.DpadLeft, ids.DpadRight
		current = &t.dpadX
	} else {
		low, high = ids.DpadUp, ids.DpadDown
		current = &t.dpadY
	}

	var next ids.AxisKind
	switch {
	case value < 0:
		next = low
	case value > 0:
		next = high
	default:
		next = ids.AxisNone
	}

	if next == *current {
		return
	}
	if *current != ids.AxisNone {
		t.resolveAndEmit(ids.AxisInput(*current), 0, false)
	}
	if next != ids.AxisNone {
		t.resolveAndEmit(ids.AxisInput(next), 1, false)
	}
	*current = next
}

// handleStick implements the stick half of §4.5.4. mode is the
// LSTICK/RSTICK setting; for "bind" mode it sign-clamps and edge-detects
// through the binding resolver, for "cursor"/"scroll" it only updates the
// shared position the periodic loops read.
func (t *Translator) handleStick(isLeft bool, isX bool, raw int32, s profile.Settings) {
	deadzoneV := s.LStickDeadzone
	mode := s.LStickMode
	if !isLeft {
		deadzoneV = s.RStickDeadzone
		mode = s.RStickMode
	}
	v := deadzone(raw, s.Axis16Bit, deadzoneV)

	switch mode {
	case profile.StickBind:
		t.handleStickBind(isLeft, isX, v)
	default:
		t.updateStickPos(isLeft, isX, v)
	}
}

func (t *Translator) handleStickBind(isLeft, isX bool, v int32) {
	cur := signClamp(v)

	state := &t.lstickBindState
	if !isLeft {
		state = &t.rstickBindState
	}

	var prev *int32
	var negKind, posKind ids.AxisKind
	if isX {
		prev = &state.X
		if isLeft {
			negKind, posKind = ids.LStickLeft, ids.LStickRight
		} else {
			negKind, posKind = ids.RStickLeft, ids.RStickRight
		}
	} else {
		prev = &state.Y
		if isLeft {
			negKind, posKind = ids.LStickUp, ids.LStickDown
		} else {
			negKind, posKind = ids.RStickUp, ids.RStickDown
		}
	}

	if cur == *prev {
		return
	}
	switch {
	case *prev < 0:
		t.resolveAndEmit(ids.AxisInput(negKind), 0, false)
	case *prev > 0:
		t.resolveAndEmit(ids.AxisInput(posKind), 0, false)
	}
	switch {
	case cur < 0:
		t.resolveAndEmit(ids.AxisInput(negKind), 1, false)
	case cur > 0:
		t.resolveAndEmit(ids.AxisInput(posKind), 1, false)
	}
	*prev = cur
}

// updateStickPos stores the post-deadzone reading for cursor/scroll mode;
// the cursor and scroll loops (loops.go) pick it up on their own cadence.
func (t *Translator) updateStickPos(isLeft, isX bool, v int32) {
	if isLeft {
		p := t.st.LStick()
		if isX {
			p.X = v
		} else {
			p.Y = v
		}
		t.st.SetLStick(p)
		return
	}
	p := t.st.RStick()
	if isX {
		p.X = v
	} else {
		p.Y = v
	}
	t.st.SetRStick(p)
}

// handleTrigger implements the trigger half of §4.5.4: ABS_Z/ABS_RZ are
// quantized to {0, non-zero}; a stored state prevents repeated presses.
func (t *Translator) handleTrigger(isLeft bool, value int32) {
	down := value != 0
	state := &t.triggerRightDown
	kind := ids.TriggerRight
	if isLeft {
		state = &t.triggerLeftDown
		kind = ids.TriggerLeft
	}
	if down == *state {
		return
	}
	*state = down
	v := int32(0)
	if down {
		v = 1
	}
	t.resolveAndEmit(ids.AxisInput(kind), v, false)
}

// handleAbsWheel implements the optional absolute rotary wheel (§4.5.4).
// ABS_MISC==0 resets the tracked position, handling device re-entry.
func (t *Translator) handleAbsWheel(code evdev.EventCode, value int32, axis16Bit bool) {
	if code == evdev.AbsMisc {
		if value == 0 {
			t.absWheelPos = 0
		}
		return
	}

	maxAbsWheel := int32(255)
	if axis16Bit {
		maxAbsWheel = 65535
	}

	delta := value - t.absWheelPos
	t.absWheelPos = value

	cw := delta > 0
	if abs32(delta) > maxAbsWheel/2 {
		// Wrapped around the wheel's range; the true direction is the
		// opposite of the raw delta's sign.
		cw = !cw
	}

	kind := ids.AbsWheelCCW
	if cw {
		kind = ids.AbsWheelCW
	}
	t.resolveAndEmit(ids.AxisInput(kind), 1, true)
}
