package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfTypedErrorWins(t *testing.T) {
	cause := errors.New("something harmless")
	err := &Error{Kind: KindUnauthorized, Op: "write", Err: cause}

	assert.Equal(t, KindUnauthorized, KindOf(err))
	assert.True(t, IsUnauthorized(err))
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("sending note: %w", &Error{Kind: KindNotSupported, Op: "write"})
	assert.Equal(t, KindNotSupported, KindOf(err))
}

func TestKindOfTextualAuthorizationHints(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"bluez capitalization", errors.New("bluez: Not Authorized"), KindUnauthorized},
		{"lower case", errors.New("writing value: not authorized"), KindUnauthorized},
		{"att authentication", errors.New("ATT error: insufficient authentication"), KindUnauthorized},
		{"att authorization", errors.New("ATT error: Insufficient Authorization"), KindUnauthorized},
		{"unrelated", errors.New("connection reset by peer"), KindUnknown},
		{"nil", nil, KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("Not Authorized")
	err := &Error{Kind: KindUnauthorized, Op: "write", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Not Authorized")
	assert.Contains(t, err.Error(), "write")
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := &Error{Kind: KindNotSupported, Op: "subscribe"}
	assert.Equal(t, "ble subscribe: not supported", err.Error())
}
