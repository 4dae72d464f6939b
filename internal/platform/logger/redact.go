package logger

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

	// header.payload.signature with at least 10 characters per segment, so
	// version strings and hostnames are left alone.
	jwtPattern = regexp.MustCompile(`[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}\.[a-zA-Z0-9\-_]{10,}`)

	// Invitation links carry the token as a query parameter.
	invitationLinkPattern = regexp.MustCompile(`(?i)[?&]token=[^&\s"]+`)
)

// newRedactAttr returns a masq-powered ReplaceAttr function that masks
// credentials by attribute name and by value pattern.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("password"),
		masq.WithFieldName("password_hash"),
		masq.WithFieldName("token"),
		masq.WithFieldName("invitation_token"),
		masq.WithFieldName("invitation_link"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("jwt_secret"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(invitationLinkPattern),
	)
}
