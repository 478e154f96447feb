package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseIdentity(t *testing.T) {
	signed, err := SignIdentity("abc-123", "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	id, err := ParseIdentity(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestParseIdentity_WrongSecret(t *testing.T) {
	signed, err := SignIdentity("abc-123", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseIdentity(signed, "other-secret")
	assert.Error(t, err)
}

func TestParseIdentity_Garbage(t *testing.T) {
	_, err := ParseIdentity("not-a-token", "secret")
	assert.Error(t, err)
}

func TestParseIdentity_Expired(t *testing.T) {
	signed, err := SignIdentity("abc-123", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseIdentity(signed, "secret")
	assert.Error(t, err)
}
