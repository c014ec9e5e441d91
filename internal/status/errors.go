package status

import (
	"errors"
	"fmt"
)

// Kind classifies a failed status operation.
type Kind string

const (
	KindConfiguration        Kind = "configuration"
	KindBusinessRule         Kind = "business_rule"
	KindTransport            Kind = "transport"
	KindServer               Kind = "server"
	KindConfirmationMismatch Kind = "confirmation_mismatch"
)

// Sentinels for errors.Is; an *Error matches the sentinel of its Kind.
var (
	ErrConfiguration        = errors.New("configuration error")
	ErrBusinessRule         = errors.New("rejected by business rule")
	ErrTransport            = errors.New("transport error")
	ErrServer               = errors.New("server error")
	ErrConfirmationMismatch = errors.New("status change not confirmed")
)

var sentinels = map[Kind]error{
	KindConfiguration:        ErrConfiguration,
	KindBusinessRule:         ErrBusinessRule,
	KindTransport:            ErrTransport,
	KindServer:               ErrServer,
	KindConfirmationMismatch: ErrConfirmationMismatch,
}

// Error is a status failure whose message is meant for direct display.
// LastKnown carries the status read back from the server when there is one.
type Error struct {
	Kind      Kind
	Message   string
	LastKnown string
	Err       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func configError(format string, args ...any) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}
