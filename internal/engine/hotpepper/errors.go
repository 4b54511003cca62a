package hotpepper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrMissingCredential is returned before any network I/O when the client
// was constructed without an API key.
var ErrMissingCredential = errors.New("hotpepper: API key is not configured")

// HTTPStatusError indicates the API answered with a non-2xx status.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("hotpepper: unexpected status %d", e.Code)
}

// MalformedResponseError indicates the response body could not be decoded.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("hotpepper: malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// NetworkReason narrows a transport failure for classification.
type NetworkReason int

const (
	ReasonUnknown NetworkReason = iota
	ReasonTimeout
	ReasonDNS
	ReasonConnection
	ReasonCancelled
	ReasonOffline
)

// NetworkError indicates the request never produced an HTTP response.
type NetworkError struct {
	Reason NetworkReason
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("hotpepper: network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// networkReason maps an http.Client error chain onto a NetworkReason.
func networkReason(err error) NetworkReason {
	if errors.Is(err, context.Canceled) {
		return ReasonCancelled
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonTimeout
	}
	switch {
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return ReasonOffline
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return ReasonConnection
	}
	return ReasonUnknown
}

// fallbackMessage is what Classify returns for anything it does not know.
const fallbackMessage = "An unknown error occurred."

// Classify maps any error onto a stable user-facing message. It is total:
// unrecognized errors get a generic fallback, and it never fails itself.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, ErrMissingCredential) {
		return "The API key is not configured. Check your settings."
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		switch code := statusErr.Code; {
		case code == 401:
			return "Authentication failed. Check your API key."
		case code == 403:
			return "Access was denied. Please wait a while and try again."
		case code == 404:
			return "No data was found. Adjust the search conditions."
		case code == 429:
			return "Too many requests. Wait a moment before retrying."
		case code >= 500 && code <= 599:
			return "The server is having trouble. Please try again later."
		default:
			return fmt.Sprintf("The request failed. (status code: %d)", code)
		}
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		return "The response could not be read. Please try again later."
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		switch netErr.Reason {
		case ReasonOffline:
			return "No internet connection. Check your network and retry."
		case ReasonTimeout:
			return "The request timed out. Please try again later."
		case ReasonDNS:
			return "Could not find the server. Please try again shortly."
		case ReasonConnection:
			return "The connection was interrupted. Retry on a stable network."
		case ReasonCancelled:
			return "The request was cancelled."
		default:
			return "The request failed. Please try again later."
		}
	}

	return fallbackMessage
}
