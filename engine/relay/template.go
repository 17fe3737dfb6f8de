package relay

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// Placeholder is the literal marker in the session-start template that is
// replaced with the extracted token before execution.
const Placeholder = "{{JWT}}"

var (
	lineContinuationRe = regexp.MustCompile(`\\\s*\r?\n`)
	curlWordRe         = regexp.MustCompile(`\bcurl\b`)
)

// Templates holds both request commands for one invocation, normalized to
// single-line form.
type Templates struct {
	TokenFetch   string
	SessionStart string
}

// Store reads the request templates from disk. Templates are read fresh on
// every invocation so edits take effect without a restart.
type Store struct {
	fs               afero.Fs
	tokenFetchPath   string
	sessionStartPath string
}

// NewStore creates a template store over the given filesystem.
func NewStore(fs afero.Fs, tokenFetchPath, sessionStartPath string) *Store {
	return &Store{
		fs:               fs,
		tokenFetchPath:   tokenFetchPath,
		sessionStartPath: sessionStartPath,
	}
}

// Load reads and normalizes both templates. The session-start template must
// contain the token placeholder; a template that could never receive the
// token is a configuration error, not a workflow outcome.
func (s *Store) Load() (*Templates, error) {
	tokenFetch, err := s.read(s.tokenFetchPath)
	if err != nil {
		return nil, err
	}
	sessionStart, err := s.read(s.sessionStartPath)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(sessionStart, Placeholder) {
		return nil, fmt.Errorf("template %s does not contain the %s placeholder", s.sessionStartPath, Placeholder)
	}
	return &Templates{TokenFetch: tokenFetch, SessionStart: sessionStart}, nil
}

func (s *Store) read(path string) (string, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	command, err := NormalizeCommand(string(raw))
	if err != nil {
		return "", fmt.Errorf("invalid template %s: %w", path, err)
	}
	return command, nil
}

// NormalizeCommand turns a pasted request blob into a single-line command:
// backslash-newline continuations are joined, and when the text contains a
// curl invocation anything before it (shell prompts, surrounding prose) is
// dropped. Text without a curl word is used whole.
func NormalizeCommand(raw string) (string, error) {
	single := lineContinuationRe.ReplaceAllString(raw, " ")
	if loc := curlWordRe.FindStringIndex(single); loc != nil {
		single = single[loc[0]:]
	}
	single = strings.TrimSpace(single)
	if single == "" {
		return "", fmt.Errorf("command text is empty")
	}
	return single, nil
}

// InjectToken substitutes every occurrence of the placeholder with the token.
// The token is inserted as an exact literal substring, with no re-encoding.
func InjectToken(template, token string) string {
	return strings.ReplaceAll(template, Placeholder, token)
}
