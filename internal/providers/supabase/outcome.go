package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"donorsetup/internal/domain"
)

// OutcomeKind tags the result of a remote call.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeConflict
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeConflict:
		return "conflict"
	default:
		return "failure"
	}
}

// Outcome is decided once per response by classify. Status is zero when the
// request never produced an HTTP response.
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Body   []byte
	Detail string
	Cause  error
}

// APIError is returned for failures that are neither success nor conflict.
type APIError struct {
	Status int
	Detail string
	Cause  error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("supabase: %s", e.Detail)
	}
	return fmt.Sprintf("supabase: status %d: %s", e.Status, e.Detail)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// Err converts a non-success outcome into an error. Conflicts wrap
// domain.ErrConflict.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeConflict:
		return fmt.Errorf("supabase: %s: %w", o.Detail, domain.ErrConflict)
	default:
		return &APIError{Status: o.Status, Detail: o.Detail, Cause: o.Cause}
	}
}

func transportFailure(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Detail: err.Error(), Cause: err}
}

// errorBody covers both GoTrue and PostgREST error shapes. GoTrue sends a
// numeric code plus error_code; PostgREST sends the SQLSTATE as a string.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	Details          string          `json:"details"`
}

func (b errorBody) sqlState() string {
	var s string
	if err := json.Unmarshal(b.Code, &s); err != nil {
		return ""
	}
	return s
}

func (b errorBody) text() string {
	for _, v := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var conflictErrorCodes = map[string]struct{}{
	"email_exists":        {},
	"user_already_exists": {},
	"phone_exists":        {},
}

var conflictPhrases = []string{
	"already been registered",
	"already registered",
	"already exists",
	"duplicate key value",
}

func classify(status int, raw []byte) Outcome {
	if status >= 200 && status < 300 {
		return Outcome{Kind: OutcomeSuccess, Status: status, Body: raw}
	}

	var body errorBody
	_ = json.Unmarshal(raw, &body)
	detail := body.text()
	if detail == "" {
		detail = strings.TrimSpace(string(raw))
	}
	if detail == "" {
		detail = http.StatusText(status)
	}

	out := Outcome{Kind: OutcomeFailure, Status: status, Body: raw, Detail: detail}
	if isConflict(status, body, detail) {
		out.Kind = OutcomeConflict
	}
	return out
}

// isConflict treats a PostgREST SQLSTATE as authoritative: only a unique
// violation is a conflict, so a 409 carrying 23503 (foreign key) fails.
func isConflict(status int, body errorBody, detail string) bool {
	if state := body.sqlState(); state != "" {
		return state == "23505"
	}
	if status == http.StatusConflict {
		return true
	}
	if _, ok := conflictErrorCodes[body.ErrorCode]; ok {
		return true
	}
	if status != http.StatusUnprocessableEntity && status != http.StatusBadRequest {
		return false
	}
	lower := strings.ToLower(detail)
	for _, phrase := range conflictPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
