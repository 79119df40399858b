package domain

import "errors"

// Sentinel errors distinguishing failure kinds inside the core. Handlers
// collapse them into the public {success:false} shape; internal callers keep
// the distinction so that, e.g., a payout scheduler can tell "already
// scheduled" from "store unavailable".
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidState = errors.New("invalid state for operation")
	ErrDuplicate    = errors.New("record already exists")
)
