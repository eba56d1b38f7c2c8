package sheets

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens", "sheets.json")

	token := &oauth2.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
	}
	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
}

func TestLoadTokenMissingFile(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

type staticTokenSource struct {
	token *oauth2.Token
	calls int
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	s.calls++
	return s.token, nil
}

func TestPersistingTokenSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	src := &staticTokenSource{token: &oauth2.Token{AccessToken: "access-1"}}
	ts := &persistingTokenSource{src: src, path: path}

	token, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)

	saved, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access-1", saved.AccessToken)

	// Unchanged token is not rewritten; a refreshed one is.
	_, err = ts.Token()
	require.NoError(t, err)

	src.token = &oauth2.Token{AccessToken: "access-2"}
	_, err = ts.Token()
	require.NoError(t, err)

	saved, err = LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "access-2", saved.AccessToken)
}
