package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrInvalidRequest = errors.New("invalid request")
	ErrServer         = errors.New("server error")
)

// Side tells whether a failure happened before the request reached the
// server or was reported by it.
type Side int

const (
	SideClient Side = iota + 1
	SideServer
)

func (s Side) String() string {
	switch s {
	case SideClient:
		return "client"
	case SideServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is the single error type returned by gateway calls.
// errors.Is matches both the classifying sentinel (Err) and the underlying
// cause, if any.
type APIError struct {
	Op         string
	Side       Side
	StatusCode int
	Detail     string
	Err        error
	Cause      error
}

func (e *APIError) Error() string {
	if e.Side == SideClient {
		cause := e.Err
		if e.Cause != nil {
			cause = e.Cause
		}
		return fmt.Sprintf("Error del cliente: %v", cause)
	}

	msg := e.Detail
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Error del servidor: %d - %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// UserMessage returns the server-provided detail, or fallback when the
// server sent none.
func (e *APIError) UserMessage(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// UserMessage extracts the user-facing text from any error returned by a
// Client.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}

func transportError(op string, cause error) *APIError {
	return &APIError{Op: op, Side: SideClient, Err: ErrUnavailable, Cause: cause}
}

// statusError classifies a non-2xx reply. The backend answers a duplicate
// registration with 400, so op "create_user" maps 400 to ErrConflict.
func statusError(op string, code int, body []byte) *APIError {
	var kind error
	switch {
	case code == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case code == http.StatusNotFound:
		kind = ErrNotFound
	case code == http.StatusConflict:
		kind = ErrConflict
	case code == http.StatusBadRequest && op == opCreateUser:
		kind = ErrConflict
	case code == http.StatusUnprocessableEntity:
		kind = ErrInvalidRequest
	default:
		kind = ErrServer
	}

	return &APIError{Op: op, Side: SideServer, StatusCode: code, Detail: decodeDetail(body), Err: kind}
}

type errorPayload struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type fieldIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// decodeDetail reads the "detail" member of an error body. It may be a
// plain string or, for 422 replies, a list of {loc, msg} items which is
// flattened to "loc: msg; loc: msg".
func decodeDetail(body []byte) string {
	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}

	if len(p.Detail) == 0 || string(p.Detail) == "null" {
		return p.Message
	}

	var s string
	if err := json.Unmarshal(p.Detail, &s); err == nil {
		return s
	}

	var issues []fieldIssue
	if err := json.Unmarshal(p.Detail, &issues); err == nil {
		parts := make([]string, 0, len(issues))
		for _, is := range issues {
			loc := make([]string, 0, len(is.Loc))
			for _, l := range is.Loc {
				loc = append(loc, fmt.Sprint(l))
			}
			if len(loc) == 0 {
				parts = append(parts, is.Msg)
				continue
			}
			parts = append(parts, strings.Join(loc, ".")+": "+is.Msg)
		}
		return strings.Join(parts, "; ")
	}

	return string(p.Detail)
}
