package safeerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type authError struct{}

func (authError) Error() string { return "401: invalid API key sk-abc123" }

func TestMessage(t *testing.T) {
	hint := "请检查配置"

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("connection refused"), "connection refused"},
		{"api key leak", authError{}, "authError（请检查配置）"},
		{"wrapped secret", fmt.Errorf("call failed: %w", errors.New("bad client_secret")), "wrapError（请检查配置）"},
		{"token mention", errors.New("Token expired"), "errorString（请检查配置）"},
		{"empty message", errors.New("  "), "errorString"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, hint))
		})
	}
}

func TestMessage_Truncates(t *testing.T) {
	long := errors.New(strings.Repeat("错", 300))
	assert.Equal(t, 120, len([]rune(Message(long, "x"))))
}
