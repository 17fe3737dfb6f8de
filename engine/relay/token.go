package relay

import (
	"strings"

	"github.com/tidwall/gjson"
)

const (
	tokenObjectKey = "last_active_token"
	tokenFieldKey  = "jwt"
)

// ExtractToken pulls the JWT out of token-fetch stdout. The stdout must be
// valid JSON; the token is accepted either as a nested last_active_token
// object carrying a jwt string or as a flat "last_active_token.jwt" key,
// at any depth. An empty string never counts as a token.
func ExtractToken(stdout string) (string, bool) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" || !gjson.Valid(trimmed) {
		return "", false
	}
	return findToken(gjson.Parse(trimmed))
}

func findToken(node gjson.Result) (string, bool) {
	if !node.IsObject() && !node.IsArray() {
		return "", false
	}
	var token string
	var found bool
	node.ForEach(func(key, value gjson.Result) bool {
		switch {
		case key.Str == tokenObjectKey && value.IsObject():
			if jwt := value.Get(tokenFieldKey); jwt.Type == gjson.String && jwt.Str != "" {
				token, found = jwt.Str, true
			}
		case key.Str == tokenObjectKey+"."+tokenFieldKey:
			if value.Type == gjson.String && value.Str != "" {
				token, found = value.Str, true
			}
		}
		if !found && (value.IsObject() || value.IsArray()) {
			token, found = findToken(value)
		}
		return !found
	})
	return token, found
}

// MaskToken renders a token preview that is safe to return in payloads and
// write to logs. Short tokens are fully starred out so their length is the
// only thing a reader learns.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "***" + token[len(token)-6:]
}
