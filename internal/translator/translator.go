// Package translator is the Translator of §4.5: one instance per grabbed
// physical device, translating its raw evdev stream into virtual-sink
// emissions and spawned commands according to the device's ProfileSet.
package translator

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/environment"
	"github.com/makima-go/makima/internal/evdev"
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// Launcher is the subset of internal/launcher.Launcher the Translator
// needs, kept as a local interface so this package never imports
// launcher directly (launcher has no reason to know about Translator).
type Launcher interface {
	Spawn(commands []string)
}

// Sink is the subset of internal/vsink.Sinks the Translator emits
// through, kept as a local interface so tests can exercise resolution
// and emission logic against a recording fake instead of a real uinput
// device.
type Sink interface {
	EmitKey(code uint16, value int32) error
	EmitRel(code uint16, value int32) error
	EmitAbsButton(code uint16, value int32) error
	EmitAbsMove(x, y int32) error
}

// Translator ties one opened physical Device to its virtual Sinks, the
// ProfileSet governing it, the shared EnvironmentProbe and Launcher, and
// the per-device mutable state (§5).
type Translator struct {
	device     *evdev.Device
	sinks      Sink
	profileSet profile.ProfileSet
	probe      *environment.Probe
	launcher   Launcher

	st *state

	// known is every non-Default window class this device's profiles
	// associate against, passed to Probe.ActiveWindow so an unrelated
	// window never displaces the fallback profile (§4.2).
	known []ids.Client

	// activeLayout and the axis edge-detection fields below are touched
	// only by the event-loop goroutine (runEventLoop) and so need no
	// synchronization of their own, unlike the state in state.go shared
	// with the cursor/scroll loops.
	activeLayout uint16

	dpadX, dpadY     ids.AxisKind
	lstickBindState  stickPos
	rstickBindState  stickPos
	triggerLeftDown  bool
	triggerRightDown bool
	absWheelPos      int32
	held             map[uint16]struct{}

	// tabletMode is set when the physical device declares ABS_PRESSURE,
	// the signal that distinguishes a drawing tablet/touchpad from a
	// gamepad: such a device's ABS_X/ABS_Y are raw pen position, not
	// stick deflection, and are mirrored straight onto the optional
	// tablet sink instead of going through stick/cursor translation.
	tabletMode       bool
	tabletX, tabletY int32

	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs a Translator for an already-opened device. The initial
// profile is resolved eagerly so the cursor/scroll loops have settings to
// start from (§4.5.8).
func New(parent context.Context, device *evdev.Device, sinks Sink, profileSet profile.ProfileSet, probe *environment.Probe, launcher Launcher) *Translator {
	ctx, cancel := context.WithCancel(parent)

	known := make([]ids.Client, 0, len(profileSet.Profiles))
	for _, p := range profileSet.Profiles {
		if !p.Associations.Client.IsDefault() {
			known = append(known, p.Associations.Client)
		}
	}

	tabletMode := false
	for _, code := range device.CapableAxes() {
		if code == evdev.AbsPressure {
			tabletMode = true
			break
		}
	}

	t := &Translator{
		device:     device,
		sinks:      sinks,
		profileSet: profileSet,
		probe:      probe,
		launcher:   launcher,
		known:      known,
		ctx:        ctx,
		cancel:     cancel,
		tabletMode: tabletMode,
	}
	t.st = newState(profileSet.Select(ids.DefaultClient, 0))
	return t
}

func (t *Translator) profile() profile.Profile { return t.st.Profile() }

func (t *Translator) activeWindow() ids.Client {
	if t.probe == nil {
		return ids.DefaultClient
	}
	return t.probe.ActiveWindow(t.ctx, t.known)
}

func (t *Translator) logEmitErr(err error) {
	log.Debug().Err(err).Str("device", t.device.Name()).Msg("translator: sink emit failed")
}

// Run drives the Translator until the device disconnects or ctx is
// cancelled: the cursor and scroll loops run concurrently with the main
// dispatch loop (§5's three co-tasks per Translator).
func (t *Translator) Run() {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); t.runCursorLoop() }()
	go func() { defer wg.Done(); t.runScrollLoop() }()

	t.runEventLoop()

	t.st.SetConnected(false)
	t.cancel()
	wg.Wait()
}

// Close releases the device grab and closes it; the virtual sinks are
// shared across Translators and closed by the orchestrator, not here.
func (t *Translator) Close() {
	t.cancel()
	_ = t.device.Ungrab()
	_ = t.device.Close()
}

func (t *Translator) runEventLoop() {
	for {
		select {
		case <-t.ctx.Done():
			return
		default:
		}

		ev, err := t.device.ReadOne()
		if err != nil {
			log.Info().Err(err).Str("device", t.device.Name()).Msg("translator: device stream ended")
			t.releaseAllHeld()
			return
		}
		t.dispatch(ev)
	}
}

// releaseAllHeld force-releases every key still marked down when the
// device stream ends (§8 scenario 6: disconnect cleanup).
func (t *Translator) releaseAllHeld() {
	for code := range t.held {
		if err := t.sinks.EmitKey(code, 0); err != nil {
			t.logEmitErr(err)
		}
		delete(t.held, code)
	}
}

// dispatch implements §4.5.2's main loop body for one raw event.
func (t *Translator) dispatch(ev evdev.Event) {
	switch ev.Type {
	case evdev.EvKey:
		t.dispatchKey(ev.Code, ev.Value)
	case evdev.EvRel:
		t.dispatchRel(ev.Code, ev.Value)
	case evdev.EvAbs:
		t.dispatchAbs(ev.Code, ev.Value)
	default:
		// Non-KEY/REL/ABS events carry no translation semantics and are
		// dropped (§4.5.2 rule 3).
	}
}

func (t *Translator) dispatchKey(code evdev.EventCode, value int32) {
	if code == evdev.BtnTL2 || code == evdev.BtnTR2 {
		// Triggers are handled exclusively via their ABS_Z/ABS_RZ path
		// (§4.5.1).
		return
	}

	keyCode := uint16(code)

	if t.tabletMode && isTabletButton(keyCode) {
		if err := t.sinks.EmitAbsButton(keyCode, value); err != nil {
			t.logEmitErr(err)
		}
		return
	}

	if value == 1 {
		t.reResolveProfile()
	}
	if keyCode == t.profile().Settings.LayoutSwitcher {
		if value == 1 {
			t.switchLayout()
		}
		return
	}

	t.resolveAndEmit(ids.KeyInput(keyCode), value, false)
}

// isTabletButton reports whether code falls in one of the button ranges
// the optional tablet sink mirrors (§4.4): 272-276, 320-324, 326-327,
// 330-332, covering BTN_LEFT..BTN_EXTRA, BTN_TOUCH and the
// BTN_TOOL_*/BTN_STYLUS* pen button codes.
func isTabletButton(code uint16) bool {
	switch {
	case code >= 272 && code <= 276:
		return true
	case code >= 320 && code <= 324:
		return true
	case code >= 326 && code <= 327:
		return true
	case code >= 330 && code <= 332:
		return true
	default:
		return false
	}
}

func (t *Translator) dispatchRel(code evdev.EventCode, value int32) {
	switch code {
	case evdev.RelWheel, evdev.RelWheelHiRes:
		switch {
		case value < 0:
			t.resolveAndEmit(ids.AxisInput(ids.ScrollWheelDown), 1, true)
		case value > 0:
			t.resolveAndEmit(ids.AxisInput(ids.ScrollWheelUp), 1, true)
		}
	default:
		// Not acted on (§4.5.1): forwarded verbatim, e.g. a physical
		// mouse's own REL_X/REL_Y.
		if err := t.sinks.EmitRel(uint16(code), value); err != nil {
			t.logEmitErr(err)
		}
	}
}

func (t *Translator) dispatchAbs(code evdev.EventCode, value int32) {
	if t.tabletMode {
		t.dispatchTabletAbs(code, value)
		return
	}

	s := t.profile().Settings
	switch code {
	case evdev.AbsHat0X, evdev.AbsHat0Y:
		t.handleDpad(code, value)
	case evdev.AbsX:
		t.handleStick(true, true, value, s)
	case evdev.AbsY:
		t.handleStick(true, false, value, s)
	case evdev.AbsRX:
		t.handleStick(false, true, value, s)
	case evdev.AbsRY:
		t.handleStick(false, false, value, s)
	case evdev.AbsZ:
		t.handleTrigger(true, value)
	case evdev.AbsRZ:
		t.handleTrigger(false, value)
	case evdev.AbsWheel, evdev.AbsMisc:
		t.handleAbsWheel(code, value, s.Axis16Bit)
	}
}

// dispatchTabletAbs mirrors a drawing tablet's raw pen position onto the
// optional abs sink instead of running it through stick/cursor
// translation (§4.4's tablet sink, created only for such devices).
func (t *Translator) dispatchTabletAbs(code evdev.EventCode, value int32) {
	switch code {
	case evdev.AbsX:
		t.tabletX = value
		if err := t.sinks.EmitAbsMove(t.tabletX, t.tabletY); err != nil {
			t.logEmitErr(err)
		}
	case evdev.AbsY:
		t.tabletY = value
		if err := t.sinks.EmitAbsMove(t.tabletX, t.tabletY); err != nil {
			t.logEmitErr(err)
		}
	}
}
