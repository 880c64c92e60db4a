package translator

import "github.com/makima-go/makima/internal/ids"

// resolveAndEmit implements the binding resolution order (§4.5.3) for one
// classified input i with raw value v. sendZero marks a pulse event (a
// relative wheel tick or the synthesised abs-wheel rotation) that must be
// followed by a synthetic release once the press has been routed.
func (t *Translator) resolveAndEmit(i ids.Input, v int32, sendZero bool) {
	p := t.profile()
	mods := t.st.Modifiers()

	if action, ok := p.RemapBindings.UnderMods(i, mods); ok {
		t.emit(action.Emit, v, false, false)
		if sendZero {
			t.emit(action.Emit, 0, false, false)
		}
		return
	}

	if action, ok := p.RemapBindings.Hold(i); ok && (!mods.Empty() || !p.Settings.ChainOnly) {
		t.emit(action.Emit, v, false, false)
		if sendZero {
			t.emit(action.Emit, 0, false, false)
		}
		return
	}

	if action, ok := p.CommandBindings.UnderMods(i, mods); ok {
		if v == 1 {
			t.launcher.Spawn(action.Spawn)
			t.st.SetModifierWasActivated(true)
		}
		return
	}

	if action, ok := p.RemapBindings.Unmodified(i); ok {
		t.emit(action.Emit, v, true, false)
		if sendZero {
			t.emit(action.Emit, 0, false, false)
		}
		return
	}

	if action, ok := p.CommandBindings.Unmodified(i); ok {
		if v == 1 {
			t.launcher.Spawn(action.Spawn)
			t.st.SetModifierWasActivated(true)
		}
		return
	}

	t.emitUnmapped(i, v)
}
