package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/textproto"
	"strings"

	"github.com/aws/smithy-go"
)

// Kind classifies a delivery failure.
type Kind string

const (
	KindAuth    Kind = "auth"
	KindTimeout Kind = "timeout"
	KindNetwork Kind = "network"
	KindOther   Kind = "other"
)

var ErrNoRecipients = errors.New("no recipients defined")

// SendError is returned by Provider.Send. Error() is the underlying text.
type SendError struct {
	Kind Kind
	Err  error
}

func (e *SendError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// SMTP reply codes that mean the credentials were refused.
var authReplyCodes = map[int]bool{
	530: true,
	534: true,
	535: true,
}

// AWS error codes that mean the signing identity was refused.
var authAPICodes = map[string]bool{
	"InvalidClientTokenId":        true,
	"SignatureDoesNotMatch":       true,
	"AccessDenied":                true,
	"AccessDeniedException":       true,
	"UnrecognizedClientException": true,
}

// Classify wraps err in a SendError. Typed causes are inspected first; the
// text patterns only apply when nothing typed matched.
func Classify(err error) *SendError {
	if err == nil {
		return nil
	}

	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr
	}

	return &SendError{Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		if authReplyCodes[tpErr.Code] {
			return KindAuth
		}
		return KindOther
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if authAPICodes[apiErr.ErrorCode()] {
			return KindAuth
		}
		return KindOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	var certErr *tls.CertificateVerificationError
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr), errors.As(err, &certErr):
		return KindNetwork
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
		return KindNetwork
	}

	return kindFromText(err.Error())
}

func kindFromText(msg string) Kind {
	switch {
	case strings.Contains(msg, "Invalid login"):
		return KindAuth
	case strings.Contains(msg, "Connection timeout"):
		return KindTimeout
	case strings.Contains(msg, "Network"):
		return KindNetwork
	default:
		return KindOther
	}
}
