// Package domain defines typed identifiers shared across modules.
//
// IDs are distinct named types so the compiler rejects cross-type
// assignment (a UserID can never be passed where a BehaviorID is
// expected). Validation happens at trust boundaries via the Parse
// functions; internal code works with the typed values.
package domain

import (
	dErrors "github.com/ICELANF/behavioral-health-project-sub001/pkg/domain-errors"
)

// UserID identifies a platform user. Upstream systems issue opaque
// string identifiers, so no particular format is enforced beyond
// non-emptiness.
type UserID string

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id cannot be empty")
	}
	return UserID(s), nil
}

// IsNil returns true when the ID is unset.
func (u UserID) IsNil() bool { return u == "" }

// String returns the string representation.
func (u UserID) String() string { return string(u) }

// BehaviorID identifies one concrete action instance, used to
// deduplicate repeats of the same behavior.
type BehaviorID string

// ParseBehaviorID validates and returns a BehaviorID.
func ParseBehaviorID(s string) (BehaviorID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "behavior id cannot be empty")
	}
	return BehaviorID(s), nil
}

// IsNil returns true when the ID is unset.
func (b BehaviorID) IsNil() bool { return b == "" }

// String returns the string representation.
func (b BehaviorID) String() string { return string(b) }
