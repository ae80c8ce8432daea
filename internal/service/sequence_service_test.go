package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-000001", FormatNumber("INV", 1))
	assert.Equal(t, "PUR-000042", FormatNumber("PUR", 42))
	assert.Equal(t, "INV-1000000", FormatNumber("INV", 1000000))
}

func TestReserveBurnsNumbers(t *testing.T) {
	env := newTestEnv()

	first, err := env.sequences.Reserve("INV")
	require.NoError(t, err)
	second, err := env.sequences.Reserve("INV")
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", first)
	assert.Equal(t, "INV-000002", second)

	// An unseeded series fails rather than silently starting a new one.
	_, err = env.sequences.Reserve("CRN")
	assert.Error(t, err)
}
