package translator

import (
	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// emit is §4.5.5's core emission routine: given the resolved key sequence
// for one classified input, push it onto the virtual sinks while keeping
// the modifiers/tap-alone bookkeeping the rest of the engine depends on.
func (t *Translator) emit(seq []ids.Input, value int32, releaseKeys, ignoreModifiers bool) {
	if releaseKeys {
		for _, k := range t.profile().RemapBindings.ReleasedUnder(t.st.Modifiers()) {
			if t.st.Modifiers().Contains(k.Key) {
				t.st.WithModifiers(func(m ids.ModSet) ids.ModSet { return m.Without(k.Key) })
			}
			t.emitOne(k, 0)
		}
	} else if ignoreModifiers {
		for _, code := range t.st.Modifiers().Codes() {
			t.emitOne(ids.KeyInput(code), 0)
		}
	}

	for _, k := range seq {
		if releaseKeys && t.mappedModifiers().All.Contains(k.Key) && k.Origin == ids.OriginKey {
			t.st.WithModifiers(func(m ids.ModSet) ids.ModSet {
				if value == 1 {
					return m.With(k.Key)
				}
				return m.Without(k.Key)
			})
		}

		if k.Origin == ids.OriginKey && t.mappedModifiers().Custom.Contains(k.Key) {
			t.applyTapModifier(k, value)
			continue
		}

		t.emitOne(k, value)
		t.st.SetModifierWasActivated(true)
	}
}

// applyTapModifier implements the tap-modifier-alone rule (§4.5.5): a
// custom modifier held together with another key acts purely as a
// modifier, but tapped alone it still produces its own press+release.
func (t *Translator) applyTapModifier(k ids.Input, value int32) {
	if value == 1 {
		t.st.SetModifierWasActivated(false)
		return
	}
	if !t.st.ModifierWasActivated() {
		t.emitOne(k, 1)
		t.emitOne(k, 0)
	}
}

// emitUnmapped handles a classified input with no matching binding at
// any level (§4.5.3 rule 6, detailed in §4.5.5's last paragraph): release
// the owed keys that are still held, update modifiers the same way a
// mapped emit would, apply the tap rule if the raw key is itself a custom
// modifier, else forward a key input verbatim to the keys sink. An axis
// pseudo-input (d-pad, stick, trigger, scroll or abs wheel) with no
// binding emits nothing; unbound wheel ticks are not passed on to the
// relative-axis sink.
func (t *Translator) emitUnmapped(k ids.Input, value int32) {
	for _, owed := range t.profile().RemapBindings.ReleasedUnder(t.st.Modifiers()) {
		if t.st.Modifiers().Contains(owed.Key) {
			t.st.WithModifiers(func(m ids.ModSet) ids.ModSet { return m.Without(owed.Key) })
		}
		if _, down := t.held[owed.Key]; down && owed.Origin == ids.OriginKey {
			t.emitOne(owed, 0)
		}
	}

	if k.Origin == ids.OriginKey && t.mappedModifiers().All.Contains(k.Key) {
		t.st.WithModifiers(func(m ids.ModSet) ids.ModSet {
			if value == 1 {
				return m.With(k.Key)
			}
			return m.Without(k.Key)
		})
	}

	if k.Origin == ids.OriginKey && t.mappedModifiers().Custom.Contains(k.Key) {
		t.applyTapModifier(k, value)
		return
	}

	t.forwardToSink(k, value)
	t.st.SetModifierWasActivated(true)
}

// emitOne pushes a single (Input, value) pair to the appropriate virtual
// sink, independent of whether it came from a remap binding or a
// forwarded unmapped event. Every key sent with value 1 is tracked in
// held until its matching release, so a disconnect can force-release
// anything still down (§8's no-stuck-keys property, scenario 6).
func (t *Translator) emitOne(k ids.Input, value int32) {
	if k.Origin == ids.OriginKey {
		t.trackHeld(k.Key, value)
		if err := t.sinks.EmitKey(k.Key, value); err != nil {
			t.logEmitErr(err)
		}
		return
	}
	t.forwardToSink(k, value)
}

// forwardToSink is also used by the "non-mapped event" path to push a
// raw key straight through to the keys sink (§4.5.2 rule 3).
func (t *Translator) forwardToSink(k ids.Input, value int32) {
	if k.Origin != ids.OriginKey {
		return
	}
	t.trackHeld(k.Key, value)
	if err := t.sinks.EmitKey(k.Key, value); err != nil {
		t.logEmitErr(err)
	}
}

// trackHeld records/clears a held key. Only ever called from the
// event-loop goroutine, so held needs no locking of its own.
func (t *Translator) trackHeld(code uint16, value int32) {
	if t.held == nil {
		t.held = make(map[uint16]struct{})
	}
	if value == 0 {
		delete(t.held, code)
		return
	}
	t.held[code] = struct{}{}
}

func (t *Translator) mappedModifiers() profile.ModifierSets {
	return t.profile().Modifiers
}
