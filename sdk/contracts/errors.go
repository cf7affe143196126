package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a BLE failure at the capability boundary so callers
// can branch on a typed kind instead of matching message text.
type ErrorKind int

const (
	// KindUnknown is a failure the platform stack could not classify.
	KindUnknown ErrorKind = iota
	// KindUnauthorized is an authorization or pairing failure; the
	// peripheral typically requires bonding before it accepts the operation.
	KindUnauthorized
	// KindNotSupported means the operation cannot work with the
	// characteristic's capability set; retrying can never succeed.
	KindNotSupported
)

// String returns the kind name for diagnostics.
func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotSupported:
		return "not supported"
	default:
		return "unknown"
	}
}

// Error is a classified BLE failure. Platform implementations wrap raw stack
// errors in it so the rest of the module never inspects message text.
type Error struct {
	Kind ErrorKind // Failure classification.
	Op   string    // Operation that failed (e.g. "write", "subscribe").
	Err  error     // Underlying platform error, preserved for diagnostics.
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ble %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("ble %s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes the underlying platform error to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// authorizationHints are message fragments used as a last-resort adapter for
// stacks that surface authorization failures only as text. BlueZ reports
// "Not Authorized"; ATT-level stacks report insufficient
// authentication/authorization.
var authorizationHints = []string{
	"not authorized",
	"insufficient authentication",
	"insufficient authorization",
}

// KindOf classifies err. A typed *Error kind wins; otherwise the message is
// sniffed for known authorization hints.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var be *Error
	if errors.As(err, &be) && be.Kind != KindUnknown {
		return be.Kind
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range authorizationHints {
		if strings.Contains(msg, hint) {
			return KindUnauthorized
		}
	}
	return KindUnknown
}

// IsUnauthorized reports whether err classifies as an authorization or
// pairing failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}
