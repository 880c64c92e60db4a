// Package vsink wraps github.com/bendahl/uinput to present the two (plus
// one optional) emit-only virtual device endpoints VirtualSinks exposes
// (§4.4): a keyboard/button sink, a relative-axis sink, and an optional
// absolute-axis tablet sink mirrored only when the physical device
// declares the same abs axes. Generalised from a Windows virtual-key
// injection wrapper to direct evdev key codes (this daemon never deals
// in VK codes, only the codes read straight off the physical
// device).
package vsink

import (
	"fmt"
	"sync"

	"github.com/bendahl/uinput"
	"github.com/rs/zerolog/log"
)

// relAxis codes mirrored by the axes sink (§4.4): REL_X=0, REL_Y=1,
// REL_HWHEEL=11, REL_WHEEL=12.
const (
	RelX      = 0
	RelY      = 1
	RelHWheel = 11
	RelWheel  = 12
)

// Sinks presents the keyboard/button, relative-axis and optional
// absolute-axis virtual devices a Translator emits onto. Creation of the
// first two is fatal at startup if /dev/uinput is unavailable (§4.4,
// §7's "uinput refusal, exit at startup").
type Sinks struct {
	mu      sync.Mutex
	closed  bool
	keys    uinput.Keyboard
	mouse   uinput.Mouse
	tablet  uinput.TouchPad // optional; nil if the physical device has no mirrored abs axes
}

// New creates the mandatory keyboard and relative-pointer virtual
// devices. absRange, if non-nil, additionally creates the optional
// tablet abs sink with the given (minX,maxX,minY,maxY) bounds mirrored
// from the physical device's declared ABS_X/ABS_Y range.
func New(absRange *AbsRange) (*Sinks, error) {
	keys, err := uinput.CreateKeyboard("/dev/uinput", []byte("makima-go Virtual Keyboard"))
	if err != nil {
		return nil, fmt.Errorf("vsink: creating virtual keyboard: %w", err)
	}

	mouse, err := uinput.CreateMouse("/dev/uinput", []byte("makima-go Virtual Pointer"))
	if err != nil {
		keys.Close()
		return nil, fmt.Errorf("vsink: creating virtual pointer: %w", err)
	}

	s := &Sinks{keys: keys, mouse: mouse}

	if absRange != nil {
		tablet, err := uinput.CreateTouchPad("/dev/uinput", []byte("makima-go Virtual Tablet"),
			absRange.MinX, absRange.MaxX, absRange.MinY, absRange.MaxY)
		if err != nil {
			log.Warn().Err(err).Msg("vsink: optional tablet abs sink unavailable, continuing without it")
		} else {
			s.tablet = tablet
		}
	}

	return s, nil
}

// AbsRange is the physical device's declared ABS_X/ABS_Y bounds, used to
// size the optional tablet sink identically (§4.4).
type AbsRange struct {
	MinX, MaxX, MinY, MaxY int32
}

// EmitKey presents a KEY event (§4.4's `keys.emit`): code is a raw evdev
// key code 1..333, value 1 press / 0 release.
func (s *Sinks) EmitKey(code uint16, value int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if value == 0 {
		return s.keys.KeyUp(int(code))
	}
	return s.keys.KeyDown(int(code))
}

// EmitRel presents a RELATIVE event (§4.4's `axes.emit`): REL_X/REL_Y
// move the pointer, REL_HWHEEL/REL_WHEEL scroll.
func (s *Sinks) EmitRel(code uint16, value int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	switch code {
	case RelX:
		return s.mouse.Move(value, 0)
	case RelY:
		return s.mouse.Move(0, value)
	case RelWheel:
		return s.mouse.Wheel(false, value)
	case RelHWheel:
		return s.mouse.Wheel(true, value)
	default:
		return nil
	}
}

// EmitAbsButton presents the optional tablet sink's button events (§4.4:
// "mirrors buttons 272-276, 320-324, 326-327, 330-332"). A no-op if the
// physical device had no matching abs axes and the tablet sink was never
// created.
func (s *Sinks) EmitAbsButton(code uint16, value int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.tablet == nil {
		return nil
	}
	if value == 0 {
		return s.tablet.ButtonUp(int(code))
	}
	return s.tablet.ButtonDown(int(code))
}

// EmitAbsMove presents an absolute position update on the optional
// tablet sink.
func (s *Sinks) EmitAbsMove(x, y int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.tablet == nil {
		return nil
	}
	return s.tablet.MoveTo(x, y)
}

func (s *Sinks) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	if err := s.keys.Close(); err != nil {
		firstErr = err
	}
	if err := s.mouse.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if s.tablet != nil {
		if err := s.tablet.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
