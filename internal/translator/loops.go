package translator

import (
	"time"

	"github.com/makima-go/makima/internal/profile"
	"github.com/makima-go/makima/internal/vsink"
)

// runCursorLoop and runScrollLoop are the two tokio-task-like periodic
// emitters of §4.5.8. Each decides, once, which stick (if any) is
// assigned its function from the profile active at Translator
// construction, then emits on that fixed cadence for the Translator's
// whole lifetime; only the modifier/activation check and axis inversion
// are re-read from the live profile on every tick, since those are cheap
// and window-switch sensitive.
func (t *Translator) runCursorLoop() {
	stick, sensitivity, ok := t.pickStickFunction(profile.StickCursor)
	if !ok || sensitivity <= 0 {
		return
	}
	t.runStickLoop(stick, sensitivity, func(x, y int32) {
		if err := t.sinks.EmitRel(vsink.RelX, x); err != nil {
			t.logEmitErr(err)
		}
		if err := t.sinks.EmitRel(vsink.RelY, y); err != nil {
			t.logEmitErr(err)
		}
	}, func(s profile.Settings) bool { return s.InvertCursorAxis })
}

func (t *Translator) runScrollLoop() {
	stick, sensitivity, ok := t.pickStickFunction(profile.StickScroll)
	if !ok || sensitivity <= 0 {
		return
	}
	t.runStickLoop(stick, sensitivity, func(x, y int32) {
		if err := t.sinks.EmitRel(vsink.RelHWheel, x); err != nil {
			t.logEmitErr(err)
		}
		if err := t.sinks.EmitRel(vsink.RelWheel, y); err != nil {
			t.logEmitErr(err)
		}
	}, func(s profile.Settings) bool { return s.InvertScrollAxis })
}

type stickSide int

const (
	stickLeft stickSide = iota
	stickRight
)

// pickStickFunction inspects the construction-time profile's LSTICK/RSTICK
// settings and returns which stick (if either) is assigned fn, along with
// its configured sensitivity (the loop's sleep period).
func (t *Translator) pickStickFunction(fn profile.StickMode) (stickSide, time.Duration, bool) {
	s := t.profile().Settings
	switch {
	case s.LStickMode == fn:
		return stickLeft, s.LStickSensitivity, true
	case s.RStickMode == fn:
		return stickRight, s.RStickSensitivity, true
	default:
		return 0, 0, false
	}
}

func (t *Translator) runStickLoop(side stickSide, sensitivity time.Duration, emitXY func(x, y int32), invert func(profile.Settings) bool) {
	ticker := time.NewTicker(sensitivity)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
		}
		if !t.st.Connected() {
			return
		}

		pos := t.st.LStick()
		if side == stickRight {
			pos = t.st.RStick()
		}
		if pos.X == 0 && pos.Y == 0 {
			continue
		}

		s := t.profile().Settings
		mods := t.st.Modifiers()
		activation := s.LStickActivationMods
		if side == stickRight {
			activation = s.RStickActivationMods
		}
		if !activation.Empty() && !mods.Equal(activation) {
			continue
		}

		x, y := pos.X, pos.Y
		if invert(s) {
			x, y = -x, -y
		}
		emitXY(x, y)
	}
}
