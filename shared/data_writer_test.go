package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimClamp(t *testing.T) {
	tests := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{name: "plain", value: "ada", max: 10, want: "ada"},
		{name: "surrounding whitespace", value: "  ada\n", max: 10, want: "ada"},
		{name: "clamped", value: "abcdefghij", max: 4, want: "abcd"},
		{name: "trim before clamp", value: "   abcdef", max: 4, want: "abcd"},
		{name: "zero max means no clamp", value: "abcdef", max: 0, want: "abcdef"},
		{name: "multibyte safe", value: "héllo wörld", max: 5, want: "héllo"},
		{name: "all whitespace", value: " \t\n ", max: 10, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimClamp(tt.value, tt.max))
		})
	}
}

func TestIsPublicModuleCode(t *testing.T) {
	assert.True(t, IsPublicModuleCode("BASICS"))
	assert.False(t, IsPublicModuleCode("PCEP"))
	assert.False(t, IsPublicModuleCode("basics"))
}
