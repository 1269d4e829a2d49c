package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// credentialURLPattern matches URLs with embedded userinfo, as a catalog
	// or redis URL may carry.
	credentialURLPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://[^/@\s]*:[^/@\s]*@`)

	authHeaderPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)
)

// RedactOptions returns the masq rules applied to every log record.
// The quote cookie is logged in the clear; it only holds quote text.
func RedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("token"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("apiKey"),

		masq.WithFieldPrefix("secret"),

		masq.WithRegex(credentialURLPattern),
		masq.WithRegex(authHeaderPattern),
	}
}

// NewReplaceAttr returns a slog ReplaceAttr func that applies RedactOptions
// plus any extra rules.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
