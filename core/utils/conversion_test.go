package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"int", 1999, "1999"},
		{"float without fraction", 8.0, "8"},
		{"float with fraction", 8.7, "8.7"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToStringSlice(t *testing.T) {
	assert.Nil(t, ToStringSlice(nil))
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]any{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, ToStringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"solo"}, ToStringSlice("solo"))
	assert.Equal(t, []string{"1", "2"}, ToStringSlice([]any{1, 2}))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 603, ToInt("603"))
	assert.Equal(t, 603, ToInt(603))
	assert.Equal(t, 603, ToInt(603.0))
	assert.Equal(t, 0, ToInt("not a number"))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(1))
	assert.True(t, ToBool("true"))
	assert.True(t, ToBool("1"))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}
