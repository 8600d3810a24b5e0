package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/fex/errors"
)

var (
	// ErrAborted matches every abort failure via errors.Is.
	ErrAborted = stderrors.New("request aborted")
	// ErrTimeout is the abort cause recorded when Config.Timeout elapses.
	ErrTimeout = stderrors.New("httpclient: timeout exceeded")
	// ErrCanceled is the abort cause recorded when the CancelToken fires.
	ErrCanceled = stderrors.New("httpclient: request canceled")
	// ErrBodyTooLarge is returned when a body exceeds Config.MaxContentLength.
	ErrBodyTooLarge = stderrors.New("httpclient: response body too large")
)

// ErrorKind classifies pipeline failures.
type ErrorKind int

const (
	// KindAborted indicates the transport call was aborted by timeout or cancellation.
	KindAborted ErrorKind = iota + 1
	// KindNetwork indicates any other transport failure (DNS, refused, reset).
	KindNetwork
	// KindRequest indicates the request could not be built (URL, body, auth).
	KindRequest
	// KindStatus indicates the status was rejected by Config.ValidateStatus.
	KindStatus
	// KindDecode indicates the response body could not be read or decoded.
	KindDecode
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindAborted:
		return "aborted"
	case KindNetwork:
		return "network"
	case KindRequest:
		return "request"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// AbortCause tells why an aborted request was aborted.
type AbortCause int

const (
	// AbortNone is the zero value for failures that are not aborts.
	AbortNone AbortCause = iota
	// AbortTimeout means Config.Timeout or the caller's deadline elapsed.
	AbortTimeout
	// AbortCanceled means the request's CancelToken fired.
	AbortCanceled
	// AbortOther means the caller's context was canceled.
	AbortOther
)

// String returns the cause name.
func (c AbortCause) String() string {
	switch c {
	case AbortTimeout:
		return "timeout"
	case AbortCanceled:
		return "canceled"
	case AbortOther:
		return "other"
	default:
		return "none"
	}
}

// Error is the failure envelope produced by the pipeline. Config is always
// set; Response and Raw are set when the server answered.
type Error struct {
	Kind    ErrorKind
	Cause   AbortCause
	Message string
	// Config is the effective configuration of the failed call.
	Config *Config
	// Response is the normalized response for status and decode failures.
	Response *Response
	// Raw is the transport response, when one was received.
	Raw *http.Response
	// Err is the original failure.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the original failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrAborted for abort failures.
func (e *Error) Is(target error) bool {
	return target == ErrAborted && e.Kind == KindAborted
}

// Status returns the response status, or 0 when no response was received.
func (e *Error) Status() int {
	if e.Response != nil {
		return e.Response.Status
	}
	if e.Raw != nil {
		return e.Raw.StatusCode
	}
	return 0
}

// AppError translates the failure into an application error.
func (e *Error) AppError() *errors.AppError {
	var appErr *errors.AppError
	switch e.Kind {
	case KindAborted:
		switch e.Cause {
		case AbortTimeout:
			appErr = errors.Timeout(e.Config.Method + " " + e.Config.URL)
		case AbortCanceled:
			reason := ""
			if e.Config.CancelToken != nil {
				reason = e.Config.CancelToken.Reason()
			}
			appErr = errors.Canceled(reason)
		default:
			appErr = errors.New(errors.ErrCodeAborted, e.Message, 499)
		}
	case KindNetwork:
		appErr = errors.ConnectionFailed(e.Config.URL)
	case KindRequest:
		appErr = errors.InvalidInput("request", e.Message)
	case KindStatus:
		appErr = errors.FromStatus(e.Status())
	case KindDecode:
		appErr = errors.InvalidResponse(nil)
	default:
		appErr = errors.Internal(nil)
	}
	return appErr.WithCause(e)
}

func newAbortError(cfg *Config, cause error) *Error {
	return &Error{
		Kind:    KindAborted,
		Cause:   classifyAbort(cause),
		Message: ErrAborted.Error(),
		Config:  cfg,
		Err:     cause,
	}
}

func classifyAbort(cause error) AbortCause {
	switch {
	case stderrors.Is(cause, ErrTimeout), stderrors.Is(cause, context.DeadlineExceeded):
		return AbortTimeout
	case stderrors.Is(cause, ErrCanceled):
		return AbortCanceled
	default:
		return AbortOther
	}
}

func newNetworkError(cfg *Config, err error) *Error {
	return &Error{Kind: KindNetwork, Message: "httpclient: network error: " + err.Error(), Config: cfg, Err: err}
}

func newRequestError(cfg *Config, what string, err error) *Error {
	return &Error{Kind: KindRequest, Message: fmt.Sprintf("httpclient: %s: %v", what, err), Config: cfg, Err: err}
}

func newDecodeError(cfg *Config, resp *Response, err error) *Error {
	return &Error{
		Kind:     KindDecode,
		Message:  "httpclient: decode response: " + err.Error(),
		Config:   cfg,
		Response: resp,
		Raw:      resp.Raw,
		Err:      err,
	}
}

func newStatusError(resp *Response) *Error {
	return &Error{
		Kind:     KindStatus,
		Message:  fmt.Sprintf("httpclient: request failed with status code %d", resp.Status),
		Config:   resp.Config,
		Response: resp,
		Raw:      resp.Raw,
	}
}

// AsError extracts the pipeline failure envelope from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsFexError reports whether err carries a pipeline failure envelope.
func IsFexError(err error) bool {
	_, ok := AsError(err)
	return ok
}

// IsAborted checks if the request was aborted by timeout or cancellation.
func IsAborted(err error) bool {
	return stderrors.Is(err, ErrAborted)
}

// IsTimeout checks if the request was aborted because its timeout elapsed.
func IsTimeout(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindAborted && e.Cause == AbortTimeout
}

// IsCanceled checks if the request was aborted by its CancelToken.
func IsCanceled(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindAborted && e.Cause == AbortCanceled
}

// IsNetwork checks if the transport failed for a reason other than an abort.
func IsNetwork(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindNetwork
}

// IsStatus checks if the response status was rejected by ValidateStatus.
func IsStatus(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindStatus
}

// IsDecode checks if the response body could not be decoded.
func IsDecode(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindDecode
}
