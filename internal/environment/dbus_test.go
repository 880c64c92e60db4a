package environment

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeSessionBusAddr(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		wantOk bool
	}{
		{"unknown user", "no-such-user-makima-test", false},
		{"empty user", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := synthesizeSessionBusAddr(tt.user)
			assert.Equal(t, tt.wantOk, ok)
		})
	}
}

func TestEnsureSessionBusNoopWhenAlreadySet(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/run/user/1000/bus")
	ensureSessionBus(context.Background(), "someone", false)
	assert.Equal(t, "unix:path=/run/user/1000/bus", os.Getenv("DBUS_SESSION_BUS_ADDRESS"))
}

func TestEnsureSessionBusNoopWithoutUser(t *testing.T) {
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "")
	ensureSessionBus(context.Background(), "", false)
	assert.Equal(t, "", os.Getenv("DBUS_SESSION_BUS_ADDRESS"))
}

func TestProbeDBusIntrospectableUnreachable(t *testing.T) {
	assert.False(t, probeDBusIntrospectable("unix:path=/run/user/nonexistent-makima-test/bus"))
}
