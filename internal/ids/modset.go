package ids

import "sort"

// ModSet is the canonical, order-independent representation of "which
// modifier keys are currently held" or "which modifiers a binding
// requires". Two ModSets with the same members compare equal regardless
// of the order keys were pressed in, which is what binding resolution
// against mapped_modifiers needs (§4.5.3).
type ModSet struct {
	codes []uint16 // always kept sorted, deduplicated
}

// NewModSet builds a ModSet from a (possibly unsorted, possibly
// duplicated) slice of key codes.
func NewModSet(codes ...uint16) ModSet {
	if len(codes) == 0 {
		return ModSet{}
	}
	cp := append([]uint16(nil), codes...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:1]
	for _, c := range cp[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return ModSet{codes: out}
}

func (m ModSet) Len() int { return len(m.codes) }

func (m ModSet) Empty() bool { return len(m.codes) == 0 }

func (m ModSet) Contains(code uint16) bool {
	i := sort.Search(len(m.codes), func(i int) bool { return m.codes[i] >= code })
	return i < len(m.codes) && m.codes[i] == code
}

// Equal reports whether two sets hold exactly the same modifier codes.
func (m ModSet) Equal(other ModSet) bool {
	if len(m.codes) != len(other.codes) {
		return false
	}
	for i, c := range m.codes {
		if other.codes[i] != c {
			return false
		}
	}
	return true
}

// With returns a new ModSet with code added, leaving m untouched.
func (m ModSet) With(code uint16) ModSet {
	if m.Contains(code) {
		return m
	}
	return NewModSet(append(append([]uint16(nil), m.codes...), code)...)
}

// Without returns a new ModSet with code removed, leaving m untouched.
func (m ModSet) Without(code uint16) ModSet {
	if !m.Contains(code) {
		return m
	}
	out := make([]uint16, 0, len(m.codes)-1)
	for _, c := range m.codes {
		if c != code {
			out = append(out, c)
		}
	}
	return ModSet{codes: out}
}

// Codes returns the sorted member codes. Callers must not mutate the
// returned slice.
func (m ModSet) Codes() []uint16 { return m.codes }

// Key renders the ModSet as the dot-joined profile-file key used for
// mapped_modifiers/combination table lookups (e.g. "KEY_LEFTCTRL.KEY_LEFTSHIFT"),
// matching the canonical ordering config.rs's BTreeMap<Key,i32> relies on.
func (m ModSet) Key() string {
	if len(m.codes) == 0 {
		return ""
	}
	s := KeyName(m.codes[0])
	for _, c := range m.codes[1:] {
		s += "." + KeyName(c)
	}
	return s
}
