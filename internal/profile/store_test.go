package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/makima-go/makima/internal/ids"
)

func TestProfileSetSelect(t *testing.T) {
	def := emptyDefaultProfile("Pad")
	layout2 := def
	layout2.Associations = Association{Client: ids.DefaultClient, Layout: 2}
	set := ProfileSet{DeviceName: "Pad", Profiles: []Profile{def, layout2}}

	tests := []struct {
		name       string
		client     ids.Client
		layout     uint16
		wantLayout uint16
	}{
		{"exact default", ids.DefaultClient, 0, 0},
		{"matching layout", ids.DefaultClient, 2, 2},
		{"no match falls back to default", ids.DefaultClient, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Select(tt.client, tt.layout)
			assert.Equal(t, tt.wantLayout, got.Associations.Layout)
		})
	}
}

func TestEnsureDefaultSynthesizesWhenMissing(t *testing.T) {
	set := &ProfileSet{DeviceName: "Pad", Profiles: []Profile{
		{DeviceName: "Pad", Associations: Association{Client: "firefox", Layout: 0}},
	}}
	ensureDefault(set)

	foundDefault := false
	for _, p := range set.Profiles {
		if p.Associations.IsDefault() {
			foundDefault = true
		}
	}
	assert.True(t, foundDefault, "ensureDefault must synthesize a (Default, 0) profile")
}
