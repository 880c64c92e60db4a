// Package profile loads, indexes and selects makima-go profiles: TOML
// files describing how one physical device's events are remapped,
// grounded in the original Rust `config.rs`'s Config/Bindings/Settings
// shape and parsed with github.com/pelletier/go-toml/v2.
package profile

import "github.com/makima-go/makima/internal/ids"

// holdKey and emptyModsKey are the two synthetic keys used inside a
// Bindings map alongside real ModSet.Key() strings: holdKey marks a
// chain-only ("-INPUT") binding (§4.5.3 rule 2), emptyModsKey marks a
// binding with no required modifiers (§4.5.3 rules 4-5).
const (
	holdKey      = "HOLD"
	emptyModsKey = ""
)

// Bindings maps a classified Input to the set of modifier combinations
// that produce an Action for it. The inner map is keyed by holdKey,
// emptyModsKey, or a real ModSet.Key() — never compared by ModSet value
// directly, since ModSet wraps a slice and isn't map-key-safe on its own.
type Bindings map[ids.Input]map[string]ids.Action

// exact returns the action bound to i under the inner-map key; UnderMods,
// Hold and Unmodified use it for the lookups of §4.5.3 rules 1/2/4
// (under mods, Hold-only, under no modifiers). ok is false if no such
// binding exists.
func (b Bindings) exact(i ids.Input, key string) (ids.Action, bool) {
	inner, ok := b[i]
	if !ok {
		return ids.Action{}, false
	}
	a, ok := inner[key]
	return a, ok
}

func (b Bindings) UnderMods(i ids.Input, mods ids.ModSet) (ids.Action, bool) {
	return b.exact(i, mods.Key())
}

func (b Bindings) Hold(i ids.Input) (ids.Action, bool) {
	return b.exact(i, holdKey)
}

func (b Bindings) Unmodified(i ids.Input) (ids.Action, bool) {
	return b.exact(i, emptyModsKey)
}

// ReleasedUnder returns every key emitted by a remap binding that fires
// under exactly mods — the "keys currently owed a release" set computed
// at the start of emit() when release_keys is set (§4.5.5).
func (b Bindings) ReleasedUnder(mods ids.ModSet) []ids.Input {
	key := mods.Key()
	var out []ids.Input
	for _, inner := range b {
		if action, ok := inner[key]; ok {
			out = append(out, action.Emit...)
		}
	}
	return out
}

// Association pairs a window class (or Default) with a layout index,
// identifying which of a device's profiles applies (§3).
type Association struct {
	Client ids.Client
	Layout uint16
}

func (a Association) IsDefault() bool { return a.Client.IsDefault() && a.Layout == 0 }

// ModifierSets holds the three modifier classifications a profile tracks
// (§3): Default is the fixed seven-key set, Custom is user-declared keys
// plus any key used on the left of a chord, All is their union.
type ModifierSets struct {
	Default ids.ModSet
	Custom  ids.ModSet
	All     ids.ModSet
}

// Profile is an immutable parsed profile record (§3).
type Profile struct {
	Name            string // file base name, e.g. "Xbox Controller::firefox::1"
	DeviceName      string // Name's first ::-separated field
	Associations    Association
	RemapBindings   Bindings
	CommandBindings Bindings
	Settings        Settings
	Modifiers       ModifierSets
}
