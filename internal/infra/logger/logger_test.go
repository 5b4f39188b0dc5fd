package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	l, err = New("WARN", "json")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(0))

	_, err = New("barulhento", "json")
	assert.Error(t, err)
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a**@x.com", MaskEmail("ana@x.com"))
	assert.Equal(t, "a@x.com", MaskEmail("a@x.com"))
	assert.Equal(t, "sem-arroba", MaskEmail("sem-arroba"))
}
