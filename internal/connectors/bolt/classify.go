package bolt

import (
	"bytes"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
)

// Class is the verdict of the transient-error classifier.
type Class int

const (
	// ClassOK means the body can be used.
	ClassOK Class = iota

	// ClassRetryable means the request should be retried after a backoff.
	ClassRetryable

	// ClassFatalAuth means the token was rejected.
	ClassFatalAuth

	// ClassFatalOther means the request failed and retrying will not help.
	ClassFatalOther
)

// String returns the string representation.
func (c Class) String() string {
	switch c {
	case ClassOK:
		return "ok"
	case ClassRetryable:
		return "retryable"
	case ClassFatalAuth:
		return "fatal-auth"
	case ClassFatalOther:
		return "fatal-other"
	default:
		return "unknown"
	}
}

// Retry reasons, also used as metric labels.
const (
	ReasonRateLimited      = "rate limited"
	ReasonDatetime         = "datetime conversion"
	ReasonServerError      = "server error"
	ReasonServerNonJSON    = "server error (non-JSON body)"
	ReasonMalformed        = "malformed JSON body"
	ReasonUnexpectedStatus = "unexpected status"
)

// datetimeMarker appears in the exception of a 500 caused by null date
// fields in the upstream data.
const datetimeMarker = "to_datetime"

// Classification is the classifier's verdict.
type Classification struct {
	Class Class

	// Reason is one of the Reason constants.
	Reason string

	// Detail is the upstream's own description, when it sent one.
	Detail string
}

// String returns the reason with its detail.
func (c Classification) String() string {
	if c.Detail == "" {
		return c.Reason
	}
	return c.Reason + ": " + c.Detail
}

// serverError is the JSON body of an upstream 500.
type serverError struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

// Classify inspects a response and decides what to do with it.
// Rules apply in order:
//
//  1. 429 is retryable.
//  2. 401 is a fatal authentication failure.
//  3. 500 is retryable, whatever its body.
//  4. Any other status >= 400 is fatal.
//  5. Anything else is usable if the body is JSON or empty.
func Classify(status int, body []byte) Classification {
	switch {
	case status == http.StatusTooManyRequests:
		return Classification{Class: ClassRetryable, Reason: ReasonRateLimited}

	case status == http.StatusUnauthorized:
		return Classification{Class: ClassFatalAuth, Reason: "authentication failed"}

	case status == http.StatusInternalServerError:
		return classifyServerError(body)

	case status >= http.StatusBadRequest:
		return Classification{Class: ClassFatalOther, Reason: ReasonUnexpectedStatus}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return Classification{Class: ClassOK}
	}
	if !json.Valid(body) {
		return Classification{Class: ClassFatalOther, Reason: ReasonMalformed}
	}
	return Classification{Class: ClassOK}
}

func classifyServerError(body []byte) Classification {
	var se serverError
	if err := json.Unmarshal(body, &se); err != nil {
		return Classification{Class: ClassRetryable, Reason: ReasonServerNonJSON}
	}

	if strings.Contains(se.Exception, datetimeMarker) || strings.Contains(se.Error, datetimeMarker) {
		return Classification{Class: ClassRetryable, Reason: ReasonDatetime, Detail: se.Exception}
	}

	return Classification{Class: ClassRetryable, Reason: ReasonServerError, Detail: se.Message}
}
