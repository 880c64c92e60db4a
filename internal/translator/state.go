package translator

import (
	"sync"

	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// stickPos is a sampled (x, y) stick deflection after deadzone (§3).
type stickPos struct{ X, Y int32 }

// state holds the six independently-mutex-guarded pieces of mutable
// state one Translator's three co-tasks (event loop, cursor loop, scroll
// loop) share (§5): modifiers, current profile, lstick_pos, rstick_pos,
// modifier_was_activated, and device_connected. Each field gets its own
// sync.Mutex — the Go analogue of the source's per-field async mutexes —
// with lock scopes kept short and never nested: no method takes a
// second lock while holding one.
//
// The remaining per-device fields named in §3 (dpad_state,
// lstick_bind_state, rstick_bind_state, trigger_state,
// abs_wheel_position) are read and written only from the event loop
// goroutine and need no synchronization; they live directly on
// Translator.
type state struct {
	profileMu sync.Mutex
	profile   profile.Profile

	modsMu    sync.Mutex
	modifiers ids.ModSet

	activatedMu sync.Mutex
	activated   bool

	lstickMu sync.Mutex
	lstick   stickPos

	rstickMu sync.Mutex
	rstick   stickPos

	connectedMu sync.Mutex
	connected   bool
}

func newState(initial profile.Profile) *state {
	return &state{profile: initial, connected: true}
}

func (s *state) Profile() profile.Profile {
	s.profileMu.Lock()
	defer s.profileMu.Unlock()
	return s.profile
}

func (s *state) SetProfile(p profile.Profile) {
	s.profileMu.Lock()
	s.profile = p
	s.profileMu.Unlock()
}

func (s *state) Modifiers() ids.ModSet {
	s.modsMu.Lock()
	defer s.modsMu.Unlock()
	return s.modifiers
}

func (s *state) SetModifiers(m ids.ModSet) {
	s.modsMu.Lock()
	s.modifiers = m
	s.modsMu.Unlock()
}

// WithModifiers runs fn with exclusive access to the modifier set,
// letting callers read-then-write atomically (needed by emit()'s
// add-on-press/remove-on-release update).
func (s *state) WithModifiers(fn func(ids.ModSet) ids.ModSet) {
	s.modsMu.Lock()
	s.modifiers = fn(s.modifiers)
	s.modsMu.Unlock()
}

func (s *state) ModifierWasActivated() bool {
	s.activatedMu.Lock()
	defer s.activatedMu.Unlock()
	return s.activated
}

func (s *state) SetModifierWasActivated(v bool) {
	s.activatedMu.Lock()
	s.activated = v
	s.activatedMu.Unlock()
}

func (s *state) LStick() stickPos {
	s.lstickMu.Lock()
	defer s.lstickMu.Unlock()
	return s.lstick
}

func (s *state) SetLStick(p stickPos) {
	s.lstickMu.Lock()
	s.lstick = p
	s.lstickMu.Unlock()
}

func (s *state) RStick() stickPos {
	s.rstickMu.Lock()
	defer s.rstickMu.Unlock()
	return s.rstick
}

func (s *state) SetRStick(p stickPos) {
	s.rstickMu.Lock()
	s.rstick = p
	s.rstickMu.Unlock()
}

func (s *state) Connected() bool {
	s.connectedMu.Lock()
	defer s.connectedMu.Unlock()
	return s.connected
}

func (s *state) SetConnected(v bool) {
	s.connectedMu.Lock()
	s.connected = v
	s.connectedMu.Unlock()
}
