package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModSetCanonicalization(t *testing.T) {
	tests := []struct {
		name  string
		codes []uint16
		want  []uint16
	}{
		{"empty", nil, nil},
		{"already sorted", []uint16{29, 42}, []uint16{29, 42}},
		{"unsorted", []uint16{56, 29, 42}, []uint16{29, 42, 56}},
		{"duplicates collapse", []uint16{29, 29, 42}, []uint16{29, 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewModSet(tt.codes...)
			assert.Equal(t, tt.want, got.Codes())
		})
	}
}

func TestModSetEqualIgnoresOrder(t *testing.T) {
	a := NewModSet(42, 29)
	b := NewModSet(29, 42)
	assert.True(t, a.Equal(b))
}

func TestModSetWithWithout(t *testing.T) {
	base := NewModSet(29)
	plus := base.With(42)
	assert.True(t, plus.Contains(29))
	assert.True(t, plus.Contains(42))
	assert.False(t, base.Contains(42), "With must not mutate the receiver")

	minus := plus.Without(29)
	assert.False(t, minus.Contains(29))
	assert.True(t, minus.Contains(42))
}

func TestModSetKey(t *testing.T) {
	m := NewModSet(mustCode("KEY_LEFTSHIFT"), mustCode("KEY_LEFTCTRL"))
	assert.Equal(t, "KEY_LEFTCTRL.KEY_LEFTSHIFT", m.Key())
}

func TestParseInputToken(t *testing.T) {
	tests := []struct {
		name    string
		tok     string
		wantErr bool
	}{
		{"plain key", "KEY_A", false},
		{"axis pseudo-key", "LSTICK_UP", false},
		{"numeric fallback", "KEY_999", false},
		{"garbage", "NOT_A_REAL_TOKEN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInputToken(tt.tok)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
