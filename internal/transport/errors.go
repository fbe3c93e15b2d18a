// internal/transport/errors.go
package transport

import (
	"fmt"
	"strings"
)

// Kind classifies a delivery failure. Each kind is recorded distinctly in
// the update tracker and none of them crash the calling cycle.
type Kind int

const (
	// KindUnreachable covers connection refused, DNS failure, and any
	// other transport-level error that is not a timeout.
	KindUnreachable Kind = iota
	// KindTimeout means the configured delivery timeout elapsed. The
	// firmware has no cancellation signal; it finishes what it started.
	KindTimeout
	// KindStatus means the firmware answered with a non-success status,
	// e.g. it rejected the payload size.
	KindStatus
	// KindBadResponse means the firmware answered but the response body
	// could not be read or made no sense.
	KindBadResponse
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindBadResponse:
		return "bad-response"
	default:
		return "unreachable"
	}
}

// DeliveryError is the classified outcome of a failed delivery attempt.
type DeliveryError struct {
	Display    string
	Kind       Kind
	StatusCode int // set for KindStatus
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "transport: display %q: %s", e.Display, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
