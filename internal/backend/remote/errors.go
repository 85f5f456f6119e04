// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method  string
	URL     string
	Code    int
	Message string
}

func newStatusError(method, url string, code int, body []byte) *StatusError {
	msg := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		if m := gjson.GetBytes(body, "message"); m.Exists() {
			msg = m.String()
		} else if m := gjson.GetBytes(body, "error"); m.Exists() {
			msg = m.String()
		}
	}
	return &StatusError{Method: method, URL: url, Code: code, Message: msg}
}

func (e *StatusError) Error() string {
	s := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// ErrorContext names what was being attempted when an error occurred.
type ErrorContext struct {
	Host      string
	Category  string
	Operation string
}

// FriendlyError turns transport and status errors into a single line a user
// can act on. Other errors are returned as-is.
func FriendlyError(err error, ec ErrorContext) error {
	if err == nil {
		return nil
	}

	where := ec.Operation
	if ec.Category != "" {
		where += " in " + ec.Category
	}

	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: not found on %s: %w", where, ec.Host, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: not authorized on %s (check --token): %w", where, ec.Host, err)
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			if se.Message != "" {
				return fmt.Errorf("%s: rejected by %s: %s: %w", where, ec.Host, se.Message, err)
			}
		}
		if se.Code >= 500 {
			return fmt.Errorf("%s: server error from %s: %w", where, ec.Host, err)
		}
		return fmt.Errorf("%s: %w", where, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %s did not answer in time: %w", where, ec.Host, err)
	}

	var ue *url.Error
	var oe *net.OpError
	if errors.As(err, &oe) || errors.As(err, &ue) {
		return fmt.Errorf("%s: cannot reach %s: %w", where, ec.Host, err)
	}

	return err
}
