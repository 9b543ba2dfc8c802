package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client-side failure messages. Status 0 distinguishes them from anything the
// server actually answered.
const (
	MsgUnreachable = "no se pudo conectar con el servidor"
	MsgTimeout     = "la solicitud tardó demasiado"
	MsgBadResponse = "respuesta inválida del servidor"
)

// Error is the uniform failure shape for every backend call. Status is the
// HTTP status the server answered with, or 0 for failures that never reached
// it (network, timeout, malformed body).
type Error struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsStatus reports whether err is a backend *Error with the given status.
func IsStatus(err error, status int) bool {
	var be *Error
	return errors.As(err, &be) && be.Status == status
}

// IsNotFound reports whether err is an HTTP 404 backend error.
func IsNotFound(err error) bool { return IsStatus(err, http.StatusNotFound) }

// IsConflict reports whether err is an HTTP 409 backend error.
func IsConflict(err error) bool { return IsStatus(err, http.StatusConflict) }

// fieldError is the FastAPI-style structured validation entry found inside a
// 422 response's detail list.
type fieldError struct {
	Loc []interface{} `json:"loc"`
	Msg string        `json:"msg"`
}

func (f fieldError) String() string {
	parts := make([]string, 0, len(f.Loc))
	for _, p := range f.Loc {
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return strings.Join(parts, ".") + ": " + f.Msg
}

// errorBody covers the error shapes the backend is known to emit. Detail is
// kept raw because it can be a plain string or a list of field errors.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
}

// decodeResponse implements the response contract: 2xx bodies decode into
// out, everything else becomes a *Error with the best message the body
// offers. A body that cannot be parsed never leaks through half-read; it
// falls back to the status text.
func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Status: 0, Message: MsgBadResponse}
		}
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return normalizeError(resp.StatusCode, body)
}

// normalizeError extracts a human-readable message from an error body,
// trying detail, message and error in that order.
func normalizeError(status int, body []byte) *Error {
	e := &Error{Status: status, Message: statusMessage(status)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return e
	}

	if len(eb.Detail) > 0 {
		var s string
		if json.Unmarshal(eb.Detail, &s) == nil && s != "" {
			e.Message = s
			return e
		}
		var fields []fieldError
		if json.Unmarshal(eb.Detail, &fields) == nil && len(fields) > 0 {
			msgs := make([]string, len(fields))
			for i, f := range fields {
				msgs[i] = f.String()
			}
			e.Message = strings.Join(msgs, " | ")
			e.Details = fields
			return e
		}
	}
	if eb.Message != "" {
		e.Message = eb.Message
		return e
	}
	if eb.Err != "" {
		e.Message = eb.Err
		return e
	}
	return e
}

func statusMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("%d %s", status, text)
	}
	return fmt.Sprintf("HTTP %d", status)
}

// transportError maps a client-side request failure to a status-0 *Error,
// keeping timeouts distinguishable from unreachable hosts.
func transportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Status: 0, Message: MsgTimeout}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &Error{Status: 0, Message: MsgTimeout}
	}
	return &Error{Status: 0, Message: MsgUnreachable}
}
