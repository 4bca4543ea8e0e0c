package internal

import (
	"errors"
	"net/http"
)

// HTTPError is an error with a status code and a client-facing message.
// Handlers return it to control the error response; the wrapped Err is
// logged but never rendered.
type HTTPError struct {
	Code      int
	Kind      string
	Message   string
	RequestID string
	Err       error
}

// ErrorBody is the JSON shape every error response shares.
type ErrorBody struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (e *HTTPError) Error() string { return e.Message }
func (e *HTTPError) Unwrap() error { return e.Err }

// Body returns the response body for e.
func (e *HTTPError) Body() ErrorBody {
	return ErrorBody{Status: "error", Message: e.Message, Kind: e.Kind, RequestID: e.RequestID}
}

// HTTPErrorOption sets an optional HTTPError field.
type HTTPErrorOption func(*HTTPError)

// WithKind sets the machine-readable kind clients switch on.
func WithKind(kind string) HTTPErrorOption {
	return func(e *HTTPError) { e.Kind = kind }
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) { e.RequestID = id }
}

// WithError attaches the cause.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, msg, opts...)
}

func ErrNotFound(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, msg, opts...)
}

func ErrMethodNotAllowed(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusMethodNotAllowed, msg, opts...)
}

func ErrConflict(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusConflict, msg, opts...)
}

func ErrInternal(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, msg, opts...)
}

func ErrServiceUnavailable(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, msg, opts...)
}

func ErrGatewayTimeout(msg string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusGatewayTimeout, msg, opts...)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var e *HTTPError
	if !errors.As(err, &e) {
		return nil
	}
	return e
}
