package token

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_SignVerifyRoundtrip(t *testing.T) {
	codec := NewCodec("shared-secret")

	payload := map[string]any{
		"status": float64(2),
		"url":    "https://docs.example.com/cache/file.docx",
		"key":    "abc123",
	}

	signed, err := codec.Sign(payload)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, payload, claims)
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	signed, err := NewCodec("secret-a").Sign(map[string]any{"status": 2})
	require.NoError(t, err)

	_, err = NewCodec("secret-b").Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyRejectsOtherAlgorithms(t *testing.T) {
	codec := NewCodec("shared-secret")

	// HS384 is still HMAC but not the configured algorithm.
	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, jwt.MapClaims{"status": 2}).
		SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(hs384)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Unsigned tokens are never valid.
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"status": 2}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_Disabled(t *testing.T) {
	codec := NewCodec("")

	assert.False(t, codec.Enabled())

	_, err := codec.Sign(map[string]any{"status": 2})
	assert.ErrorIs(t, err, ErrSigningDisabled)
}

func TestCodec_VerifyEmptyToken(t *testing.T) {
	_, err := NewCodec("shared-secret").Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_SignRejectsNonObjectPayload(t *testing.T) {
	_, err := NewCodec("shared-secret").Sign("just a string")
	assert.Error(t, err)
}
