package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	agenterrors "github.com/cursortools/usage-agent/internal/errors"
	"github.com/cursortools/usage-agent/token"
)

func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return "header." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecodePayload(t *testing.T) {
	t.Run("round trips a claims object", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"sub": "user_01", "exp": 1700000000})

		claims, err := token.DecodePayload(raw)
		require.NoError(t, err)
		require.Equal(t, "user_01", claims["sub"])
		require.Equal(t, float64(1700000000), claims["exp"])
	})

	t.Run("strips user id prefix", func(t *testing.T) {
		raw := "user_01::" + makeToken(t, map[string]any{"sub": "user_01"})

		claims, err := token.DecodePayload(raw)
		require.NoError(t, err)
		require.Equal(t, "user_01", claims["sub"])
	})

	t.Run("decodes percent encoded separators", func(t *testing.T) {
		jwt := makeToken(t, map[string]any{"sub": "user_01"})

		for _, raw := range []string{"user_01%3A%3A" + jwt, "user_01%253A%253A" + jwt} {
			claims, err := token.DecodePayload(raw)
			require.NoError(t, err)
			require.Equal(t, "user_01", claims["sub"])
		}
	})

	t.Run("accepts a two segment token", func(t *testing.T) {
		payload, err := json.Marshal(map[string]any{"sub": "user_01"})
		require.NoError(t, err)
		raw := "header." + base64.RawURLEncoding.EncodeToString(payload)

		claims, err := token.DecodePayload(raw)
		require.NoError(t, err)
		require.Equal(t, "user_01", claims["sub"])
	})

	t.Run("rejects a single segment", func(t *testing.T) {
		_, err := token.DecodePayload("not-a-token")
		require.Error(t, err)
		require.ErrorIs(t, err, agenterrors.ErrMalformedToken)
	})

	t.Run("rejects a non base64 payload", func(t *testing.T) {
		_, err := token.DecodePayload("header.!!!.signature")
		require.ErrorIs(t, err, agenterrors.ErrMalformedToken)
	})

	t.Run("rejects a non JSON payload", func(t *testing.T) {
		raw := "header." + base64.RawURLEncoding.EncodeToString([]byte("plain text")) + ".signature"
		_, err := token.DecodePayload(raw)
		require.ErrorIs(t, err, agenterrors.ErrMalformedToken)
	})
}

func TestExpiry(t *testing.T) {
	t.Run("returns the numeric exp claim", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": 1700000000})

		exp, ok := token.Expiry(raw)
		require.True(t, ok)
		require.Equal(t, int64(1700000000), exp)
	})

	t.Run("absent exp claim", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"sub": "user_01"})

		_, ok := token.Expiry(raw)
		require.False(t, ok)
	})

	t.Run("non numeric exp claim", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": "soon"})

		_, ok := token.Expiry(raw)
		require.False(t, ok)
	})
}

func TestIsValid(t *testing.T) {
	now := int64(1700000000)

	t.Run("valid with more than a day left", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now + 86401})
		require.True(t, token.IsValid(raw, now))
	})

	t.Run("invalid exactly one day before expiry", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now + 86400})
		require.False(t, token.IsValid(raw, now))
	})

	t.Run("invalid inside the one day margin", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now + 3600})
		require.False(t, token.IsValid(raw, now))
	})

	t.Run("invalid without an exp claim", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"sub": "user_01"})
		require.False(t, token.IsValid(raw, now))
	})

	t.Run("invalid for garbage input", func(t *testing.T) {
		require.False(t, token.IsValid("garbage", now))
	})
}

func TestDaysRemaining(t *testing.T) {
	now := int64(1700000000)

	t.Run("whole days left", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now + 10*86400})
		require.Equal(t, int64(10), token.DaysRemaining(raw, now))
	})

	t.Run("partial day floors down", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now + 86400 + 3600})
		require.Equal(t, int64(1), token.DaysRemaining(raw, now))
	})

	t.Run("past expiry goes negative", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"exp": now - 1})
		require.Equal(t, int64(-1), token.DaysRemaining(raw, now))
	})

	t.Run("zero for a non token string", func(t *testing.T) {
		require.Equal(t, int64(0), token.DaysRemaining("not a token at all", now))
	})

	t.Run("zero without an exp claim", func(t *testing.T) {
		raw := makeToken(t, map[string]any{"sub": "user_01"})
		require.Equal(t, int64(0), token.DaysRemaining(raw, now))
	})
}
