package relay

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCommand(t *testing.T) {
	t.Run("Should pass a single-line command through unchanged", func(t *testing.T) {
		got, err := NormalizeCommand("curl -s https://api.example.com/run")
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/run", got)
	})

	t.Run("Should join backslash-newline continuations", func(t *testing.T) {
		got, err := NormalizeCommand("curl -s\\\nhttps://api.example.com/run")
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/run", got)
	})

	t.Run("Should join continuations with CRLF line endings", func(t *testing.T) {
		got, err := NormalizeCommand("curl -s\\\r\nhttps://api.example.com/run")
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/run", got)
	})

	t.Run("Should join continuations with trailing spaces after the backslash", func(t *testing.T) {
		got, err := NormalizeCommand("curl -s\\  \nhttps://api.example.com/run")
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/run", got)
	})

	t.Run("Should normalize a realistic multi-line paste", func(t *testing.T) {
		raw := "curl -X POST \\\n  -H 'Content-Type:application/json' \\\n  https://api.example.com/run\n"
		got, err := NormalizeCommand(raw)
		require.NoError(t, err)
		assert.NotContains(t, got, "\\")
		assert.NotContains(t, got, "\n")
		expected := []string{"curl", "-X", "POST", "-H", "'Content-Type:application/json'", "https://api.example.com/run"}
		assert.Equal(t, expected, strings.Fields(got))
	})

	t.Run("Should drop prose before the curl word", func(t *testing.T) {
		got, err := NormalizeCommand("Run this command:\ncurl -s https://api.example.com/run")
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/run", got)
	})

	t.Run("Should not treat a curl prefix inside a longer word as an invocation", func(t *testing.T) {
		got, err := NormalizeCommand("printf curlish")
		require.NoError(t, err)
		assert.Equal(t, "printf curlish", got)
	})

	t.Run("Should keep non-curl commands whole", func(t *testing.T) {
		got, err := NormalizeCommand("  printf hello  ")
		require.NoError(t, err)
		assert.Equal(t, "printf hello", got)
	})

	t.Run("Should reject blank template text", func(t *testing.T) {
		_, err := NormalizeCommand("   \n\t\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})
}

func TestStore_Load(t *testing.T) {
	writeTemplates := func(t *testing.T, fs afero.Fs, tokenFetch, sessionStart string) *Store {
		t.Helper()
		require.NoError(t, afero.WriteFile(fs, "initsend.txt", []byte(tokenFetch), 0o644))
		require.NoError(t, afero.WriteFile(fs, "serverstart-orig.txt", []byte(sessionStart), 0o644))
		return NewStore(fs, "initsend.txt", "serverstart-orig.txt")
	}

	t.Run("Should load and normalize both templates", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := writeTemplates(t, fs,
			"curl -s\\\nhttps://api.example.com/token",
			"curl -H 'Authorization: Bearer {{JWT}}' https://api.example.com/start",
		)
		templates, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "curl -s https://api.example.com/token", templates.TokenFetch)
		assert.Contains(t, templates.SessionStart, Placeholder)
	})

	t.Run("Should fail when the token-fetch template is missing", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "serverstart-orig.txt", []byte("curl {{JWT}}"), 0o644))
		store := NewStore(fs, "initsend.txt", "serverstart-orig.txt")
		_, err := store.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read template initsend.txt")
	})

	t.Run("Should fail when the session-start template has no placeholder", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := writeTemplates(t, fs,
			"curl -s https://api.example.com/token",
			"curl -s https://api.example.com/start",
		)
		_, err := store.Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not contain")
	})

	t.Run("Should read templates fresh on every load", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		store := writeTemplates(t, fs,
			"curl -s https://api.example.com/token",
			"curl -d {{JWT}} https://api.example.com/start",
		)
		first, err := store.Load()
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, "initsend.txt", []byte("curl -s https://api.example.com/v2/token"), 0o644))
		second, err := store.Load()
		require.NoError(t, err)
		assert.NotEqual(t, first.TokenFetch, second.TokenFetch)
		assert.Equal(t, "curl -s https://api.example.com/v2/token", second.TokenFetch)
	})
}

func TestInjectToken(t *testing.T) {
	t.Run("Should replace every placeholder occurrence", func(t *testing.T) {
		template := "curl -H 'Authorization: Bearer {{JWT}}' -d '{\"jwt\":\"{{JWT}}\"}' https://api.example.com/start"
		got := InjectToken(template, "tok.abc.def")
		assert.NotContains(t, got, Placeholder)
		assert.Equal(t, 2, strings.Count(got, "tok.abc.def"))
	})

	t.Run("Should insert the token literally without re-encoding", func(t *testing.T) {
		got := InjectToken("curl -d '{{JWT}}'", `a"b&c$d`)
		assert.Equal(t, `curl -d 'a"b&c$d'`, got)
	})

	t.Run("Should leave text without the placeholder untouched", func(t *testing.T) {
		assert.Equal(t, "curl https://api.example.com", InjectToken("curl https://api.example.com", "tok"))
	})
}
