package launcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveUser(t *testing.T) {
	tests := []struct {
		name              string
		sudoUser, user    string
		wantUser          string
		wantRunningAsRoot bool
		wantOK            bool
	}{
		{"sudo user takes priority", "alice", "root", "alice", true, true},
		{"plain user when no sudo user", "", "bob", "bob", false, true},
		{"neither set declines", "", "", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUDO_USER", tt.sudoUser)
			t.Setenv("USER", tt.user)

			user, runningAsRoot, ok := resolveUser()

			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantRunningAsRoot, runningAsRoot)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

// Spawn must decline without touching the filesystem or exec'ing
// anything when neither SUDO_USER nor USER is set.
func TestSpawnDeclinesWithNoResolvableUser(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	t.Setenv("USER", "")

	l := New()
	assert.NotPanics(t, func() { l.Spawn([]string{"notify-send hello"}) })
}
