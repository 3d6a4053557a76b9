// Package issue defines the structured failure returned to API callers for
// every broken domain rule. An Issue carries a human-readable message, a list
// of detail strings and a Kind that decides the response status.
package issue

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an Issue.
type Kind int

const (
	// KindRuleViolation is a broken domain invariant on well-formed input.
	KindRuleViolation Kind = iota + 1
	// KindObjectNotFound is a reference to an entity that does not exist.
	KindObjectNotFound
	// KindForbidden is an authenticated caller acting on a resource it does not own.
	KindForbidden
	// KindInvalidCredentials is a failed authentication attempt.
	KindInvalidCredentials
	// KindValidation is a malformed request field.
	KindValidation
	// KindUnauthenticated is a protected operation called without identity.
	KindUnauthenticated
)

var kindNames = map[Kind]string{
	KindRuleViolation:      "rule violation",
	KindObjectNotFound:     "object not found",
	KindForbidden:          "forbidden",
	KindInvalidCredentials: "invalid credentials",
	KindValidation:         "validation",
	KindUnauthenticated:    "unauthenticated",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status class for the kind.
func (k Kind) Status() int {
	switch k {
	case KindObjectNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindRuleViolation, KindInvalidCredentials, KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Issue is a domain failure. It is returned as an error and survives
// wrapping, so callers match it with errors.As or KindOf.
type Issue struct {
	Kind    Kind     `json:"-"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (i *Issue) Error() string {
	if len(i.Details) == 0 {
		return i.Message
	}
	return i.Message + ": " + strings.Join(i.Details, "; ")
}

// New builds an Issue of the given kind. Details are never nil so the
// response always encodes an array.
func New(kind Kind, message string, details ...string) *Issue {
	if details == nil {
		details = []string{}
	}
	return &Issue{Kind: kind, Message: message, Details: details}
}

// RuleViolation reports a broken domain invariant.
func RuleViolation(message string, details ...string) *Issue {
	return New(KindRuleViolation, message, details...)
}

// ObjectNotFound reports a missing entity.
func ObjectNotFound(message string, details ...string) *Issue {
	return New(KindObjectNotFound, message, details...)
}

// Forbidden reports a caller that does not own the target resource.
func Forbidden(message string, details ...string) *Issue {
	return New(KindForbidden, message, details...)
}

// InvalidCredentials reports a failed authentication attempt. The message is
// shared by unknown email and wrong password.
func InvalidCredentials() *Issue {
	return New(KindInvalidCredentials, "Bad request", "invalid email or password")
}

// Validation reports malformed request fields.
func Validation(details ...string) *Issue {
	return New(KindValidation, "Invalid request", details...)
}

// Unauthenticated reports a protected operation without identity.
func Unauthenticated() *Issue {
	return New(KindUnauthenticated, "Authentication required")
}

// As extracts an Issue from err.
func As(err error) (*Issue, bool) {
	var is *Issue
	if errors.As(err, &is) {
		return is, true
	}
	return nil, false
}

// KindOf returns the kind of the Issue inside err, or zero if err is not an Issue.
func KindOf(err error) Kind {
	if is, ok := As(err); ok {
		return is.Kind
	}
	return 0
}
