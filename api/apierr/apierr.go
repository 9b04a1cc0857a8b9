package apierr

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"go.uber.org/zap"
)

// Kind tells how far a call to an external API got before it failed.
type Kind int

const (
	// KindOther covers failures after a usable response, e.g. undecodable payloads.
	KindOther Kind = iota
	// KindTransport means no response was received.
	KindTransport
	// KindStatus means a response arrived with an error status.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "other"
	}
}

type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func Status(op string, code int, body string) *Error {
	return &Error{Kind: KindStatus, Op: op, StatusCode: code, Body: body}
}

func Other(op string, err error) *Error {
	return &Error{Kind: KindOther, Op: op, Err: err}
}

// Classify converts err into an *Error. Errors that are already classified are
// returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Transport(op, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Transport(op, err)
	}
	return Other(op, err)
}

// KindOf reports the classification of err, KindOther if it has none.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOther
}

// Fields describes err for structured logging.
func Fields(err error) []zap.Field {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return []zap.Field{zap.Error(err), zap.Stringer("error_kind", KindOther)}
	}
	fields := []zap.Field{zap.Error(err), zap.Stringer("error_kind", apiErr.Kind)}
	if apiErr.Kind == KindStatus {
		fields = append(fields, zap.Int("status", apiErr.StatusCode), zap.String("payload", apiErr.Body))
	}
	return fields
}
