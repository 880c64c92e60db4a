package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeadzoneBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		v         int32
		axis16Bit bool
		deadzone  int
		want      int32
	}{
		{"16-bit center within deadzone", 0, true, 5, 0},
		{"8-bit center with zero deadzone", 128, false, 0, 0},
		{"8-bit full deflection", 200, false, 5, 8},
		{"16-bit negative outside deadzone", -10000, true, 1, -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deadzone(tt.v, tt.axis16Bit, tt.deadzone))
		})
	}
}

func TestSignClamp(t *testing.T) {
	assert.Equal(t, int32(1), signClamp(5))
	assert.Equal(t, int32(-1), signClamp(-5))
	assert.Equal(t, int32(0), signClamp(0))
}
