package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	t.Run("Should extract the nested token object form", func(t *testing.T) {
		token, found := ExtractToken(`{"last_active_token": {"jwt": "eyJa.eyJb.c"}}`)
		require.True(t, found)
		assert.Equal(t, "eyJa.eyJb.c", token)
	})

	t.Run("Should extract the nested form at any depth", func(t *testing.T) {
		stdout := `{"data": {"response": {"last_active_token": {"jwt": "tok-deep", "expires": 99}}}}`
		token, found := ExtractToken(stdout)
		require.True(t, found)
		assert.Equal(t, "tok-deep", token)
	})

	t.Run("Should extract the flat dotted-key form", func(t *testing.T) {
		token, found := ExtractToken(`{"last_active_token.jwt": "tok-flat"}`)
		require.True(t, found)
		assert.Equal(t, "tok-flat", token)
	})

	t.Run("Should extract the flat dotted-key form below the root", func(t *testing.T) {
		token, found := ExtractToken(`{"payload": {"last_active_token.jwt": "tok-nested-flat"}}`)
		require.True(t, found)
		assert.Equal(t, "tok-nested-flat", token)
	})

	t.Run("Should extract from objects inside arrays", func(t *testing.T) {
		stdout := `{"sessions": [{"id": 1}, {"last_active_token": {"jwt": "tok-arr"}}]}`
		token, found := ExtractToken(stdout)
		require.True(t, found)
		assert.Equal(t, "tok-arr", token)
	})

	t.Run("Should tolerate surrounding whitespace", func(t *testing.T) {
		token, found := ExtractToken("\n  {\"last_active_token\": {\"jwt\": \"tok-ws\"}}  \n")
		require.True(t, found)
		assert.Equal(t, "tok-ws", token)
	})

	t.Run("Should fail on invalid JSON", func(t *testing.T) {
		_, found := ExtractToken(`{"last_active_token": {"jwt": "tok`)
		assert.False(t, found)
	})

	t.Run("Should fail when the field is absent", func(t *testing.T) {
		_, found := ExtractToken(`{"status": "ok", "user": {"id": 7}}`)
		assert.False(t, found)
	})

	t.Run("Should fail on an empty token value", func(t *testing.T) {
		_, found := ExtractToken(`{"last_active_token": {"jwt": ""}}`)
		assert.False(t, found)
	})

	t.Run("Should fail on a non-string token value", func(t *testing.T) {
		_, found := ExtractToken(`{"last_active_token": {"jwt": 12345}}`)
		assert.False(t, found)
	})

	t.Run("Should ignore a jwt key outside last_active_token", func(t *testing.T) {
		_, found := ExtractToken(`{"jwt": "naked-token"}`)
		assert.False(t, found)
	})

	t.Run("Should fail on empty stdout", func(t *testing.T) {
		_, found := ExtractToken("")
		assert.False(t, found)
	})

	t.Run("Should fail on whitespace-only stdout", func(t *testing.T) {
		_, found := ExtractToken("   \n\t ")
		assert.False(t, found)
	})

	t.Run("Should fail on a scalar JSON document", func(t *testing.T) {
		_, found := ExtractToken("42")
		assert.False(t, found)
	})
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{name: "empty token", token: "", expected: ""},
		{name: "single char fully starred", token: "a", expected: "*"},
		{name: "twelve chars fully starred", token: "abcdefghijkl", expected: "************"},
		{name: "thirteen chars keeps ends", token: "abcdefghijklm", expected: "abcdef***hijklm"},
		{name: "long token keeps ends", token: "eyJhbGciOiJIUzI1NiJ9.payload.signature", expected: "eyJhbG***nature"},
	}
	for _, tt := range tests {
		t.Run("Should mask "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskToken(tt.token))
		})
	}
}
