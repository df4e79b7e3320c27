package ports

import (
	"context"
	"fmt"
	"image"
)

// FetchKind categorizes a fetch failure. Kinds drive backoff pacing and
// logging only; callers never branch on them beyond that.
type FetchKind int

const (
	// FetchNetwork is a transport-level failure (connect refused, reset, DNS).
	FetchNetwork FetchKind = iota
	// FetchTimeout is a connect or read deadline expiry.
	FetchTimeout
	// FetchStatus is a non-2xx HTTP response.
	FetchStatus
	// FetchDecode is a JPEG decode failure or an empty body.
	FetchDecode
)

// String returns the string representation of the failure kind.
func (k FetchKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchTimeout:
		return "timeout"
	case FetchStatus:
		return "status"
	case FetchDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the typed failure returned by FrameSource.Fetch.
type FetchError struct {
	Kind FetchKind
	// StatusCode is set when Kind is FetchStatus.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchStatus {
		return fmt.Sprintf("fetch failed (%s): HTTP %d", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// FrameSource fetches one still frame per call.
//
// A call issues exactly one request, decodes the body before returning, and
// never panics out of a failure: any transport, status or decode problem
// comes back as a *FetchError. Implementations keep connections alive across
// calls from the same instance.
type FrameSource interface {
	Fetch(ctx context.Context) (image.Image, error)
}
