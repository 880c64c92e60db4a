package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makima-go/makima/internal/ids"
	"github.com/makima-go/makima/internal/profile"
)

// Scenario 4: layout rotation. ProfileSet has (Default,0) and (Default,2);
// pressing the layout switcher from active_layout=0 should land on layout 2.
func TestLayoutRotationSkipsUnmatchedLayouts(t *testing.T) {
	base := emptyDefaultTestProfile(t)
	layout2 := base
	layout2.Name = "Test Device::2"
	layout2.Associations = profile.Association{Client: ids.DefaultClient, Layout: 2}

	tr, _, _ := newTestTranslator(t, base)
	tr.profileSet = profile.ProfileSet{
		DeviceName: "Test Device",
		Profiles:   []profile.Profile{base, layout2},
	}
	tr.probe = nil // exactAssociation/Select never touch the probe directly

	tr.activeLayout = 0
	tr.switchLayout()

	assert.Equal(t, uint16(2), tr.activeLayout)
	assert.Equal(t, uint16(2), tr.profile().Associations.Layout)
}
