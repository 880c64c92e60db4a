package translator

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/makima-go/makima/internal/ids"
)

// maxLayouts bounds the layout rotation search (§4.5.6): active_layout
// cycles modulo 4, and a matching (client, 0) or (Default, 0) profile
// always exists as a fallback (invariant 4), so four attempts suffice.
const maxLayouts = 4

// reResolveProfile implements §4.5.2 step 1: on a KEY press, re-resolve
// the current profile against the active window and layout, rotating the
// layout forward when the current one has no matching profile.
func (t *Translator) reResolveProfile() {
	window := t.activeWindow()
	for i := 0; i < maxLayouts; i++ {
		if t.exactAssociation(window, t.activeLayout) {
			break
		}
		t.activeLayout = (t.activeLayout + 1) % maxLayouts
	}
	t.st.SetProfile(t.profileSet.Select(window, t.activeLayout))
}

// exactAssociation reports whether profileSet has a profile whose
// Associations exactly match (window, layout), without falling back to
// Default the way Select does.
func (t *Translator) exactAssociation(window ids.Client, layout uint16) bool {
	for _, p := range t.profileSet.Profiles {
		if p.Associations.Client == window && p.Associations.Layout == layout {
			return true
		}
	}
	return false
}

// switchLayout implements the LAYOUT_SWITCHER binding (§4.5.6): advance
// active_layout mod 4, searching for a profile matching the current
// window at the new layout, notifying the desktop if configured.
func (t *Translator) switchLayout() {
	window := t.activeWindow()
	s := t.profile().Settings

	for i := 0; i < maxLayouts; i++ {
		t.activeLayout = (t.activeLayout + 1) % maxLayouts
		if t.exactAssociation(window, t.activeLayout) {
			break
		}
	}
	t.st.SetProfile(t.profileSet.Select(window, t.activeLayout))

	if s.NotifyLayoutSwitch {
		t.launcher.Spawn([]string{
			"notify-send 'makima' 'Switched to layout " + strconv.Itoa(int(t.activeLayout)) + "'",
		})
	}
	log.Debug().Uint16("layout", t.activeLayout).Msg("translator: layout switched")
}
