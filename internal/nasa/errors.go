package nasa

import (
	"errors"
	"fmt"
	"net/http"
)

// Endpoint names one of the upstream feeds.
type Endpoint string

const (
	EndpointAPOD        Endpoint = "apod"
	EndpointRoverPhotos Endpoint = "mars-photos"
	EndpointNeoFeed     Endpoint = "neo-feed"
	EndpointEPIC        Endpoint = "epic"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Endpoint Endpoint
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Endpoint, e.Code)
}

// DecodeError is returned when a 2xx response body cannot be read or parsed.
type DecodeError struct {
	Endpoint Endpoint
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Reason is a coarse classification of a request failure.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonRateLimited
	ReasonUnauthorized
	ReasonNotFound
	ReasonUpstream
	ReasonDecode
	ReasonNetwork
	ReasonUnknown
)

// Classify maps an error returned by Client into a Reason.
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	if IsDecodeError(err) {
		return ReasonDecode
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch {
		case se.Code == http.StatusTooManyRequests:
			return ReasonRateLimited
		case se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden:
			return ReasonUnauthorized
		case se.Code == http.StatusNotFound:
			return ReasonNotFound
		case se.Code >= 500:
			return ReasonUpstream
		}
		return ReasonUnknown
	}
	var re *requestError
	if errors.As(err, &re) {
		return ReasonNetwork
	}
	return ReasonUnknown
}

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonRateLimited:
		return "rate_limited"
	case ReasonUnauthorized:
		return "unauthorized"
	case ReasonNotFound:
		return "not_found"
	case ReasonUpstream:
		return "upstream"
	case ReasonDecode:
		return "decode"
	case ReasonNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Describe returns a short human label for r.
func (r Reason) Describe() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonRateLimited:
		return "rate limited"
	case ReasonUnauthorized:
		return "API key rejected"
	case ReasonNotFound:
		return "not found"
	case ReasonUpstream:
		return "service unavailable"
	case ReasonDecode:
		return "malformed response"
	case ReasonNetwork:
		return "connection failed"
	default:
		return "request failed"
	}
}

// requestError wraps transport failures so they can be told apart from
// argument validation errors.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return "execute request: " + e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }
