package entity

import "errors"

// ErrNotFound reports a legitimately absent record, as opposed to a failed
// store operation. Callers fall back to defaults on ErrNotFound and treat
// any other error as transient.
var ErrNotFound = errors.New("not found")

// ErrAlreadyCredited reports that a referral credit marker for the same
// (referrer, referee) pair already exists.
var ErrAlreadyCredited = errors.New("referral already credited")
