// Package safeerr turns errors into user-facing text without leaking credentials.
package safeerr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxMessageRunes = 120

// sensitiveMarkers trigger full replacement of the message.
var sensitiveMarkers = []string{"key", "secret", "auth", "token", "password", "credential"}

// Message returns a short, safe description of err. When the text mentions
// anything credential-like, only the error's type is kept plus hint.
func Message(err error, hint string) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = typeName(err)
	}
	if utf8.RuneCountInString(msg) > maxMessageRunes {
		msg = string([]rune(msg)[:maxMessageRunes])
	}

	lower := strings.ToLower(msg)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Sprintf("%s（%s）", typeName(err), hint)
		}
	}
	return msg
}

func typeName(err error) string {
	name := fmt.Sprintf("%T", err)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "*")
}
