// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "accessgate/cli/internal/errors"
)

// Result is the uniform outcome of a transport call. Exactly one of Data
// (when Success is true) or Error (when false) is meaningful; use Succeed and
// Fail to build one.
type Result[T any] struct {
	Success bool
	Data    T
	// Error is the server's `error` field, the whole server body, or a
	// NetworkError for calls that never completed.
	Error any
}

// Succeed builds a success Result.
func Succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failure Result. A nil error value is replaced with an empty
// object so the failure variant is always populated.
func Fail[T any](err any) Result[T] {
	if err == nil {
		err = map[string]any{}
	}
	return Result[T]{Error: err}
}

// NetworkError is the failure value synthesized when a request could not be
// built or did not complete.
type NetworkError struct {
	Message string `json:"message"`
	Cause   string `json:"cause"`
}

func newNetworkError(err error) NetworkError {
	return NetworkError{Message: "Network error", Cause: err.Error()}
}

// Err converts a failed Result into a Go error; it is nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	if ne, ok := r.Error.(NetworkError); ok {
		return apperrors.Wrap(apperrors.NetworkFailure, ne.Message, fmt.Errorf("%s", ne.Cause))
	}
	return apperrors.New(apperrors.ServerFailure, ErrorMessage(r.Error))
}

// MarshalJSON emits {"success":true,"data":...} or {"success":false,"error":...}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Data    T    `json:"data"`
		}{true, r.Data})
	}
	return json.Marshal(struct {
		Success bool `json:"success"`
		Error   any  `json:"error"`
	}{false, r.Error})
}

// ErrorMessage extracts a human-readable message from an opaque failure value.
func ErrorMessage(v any) string {
	switch e := v.(type) {
	case nil:
		return "unknown error"
	case string:
		return e
	case NetworkError:
		return e.Message + ": " + e.Cause
	case error:
		return e.Error()
	case map[string]any:
		var parts []string
		for _, k := range []string{"title", "message"} {
			if s, ok := e[k].(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ": ")
		}
		if inner, ok := e["error"]; ok && truthy(inner) {
			return ErrorMessage(inner)
		}
	}
	b, err := json.Marshal(v)
	if err != nil || string(b) == "{}" {
		return "request failed"
	}
	return string(b)
}
