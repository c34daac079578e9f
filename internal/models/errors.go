package models

import "errors"

// Validation failures surfaced to the presentation layer. The message texts
// match the original product copy.
var (
	ErrPromptRequired     = errors.New("prompt is required")
	ErrNoDraft            = errors.New("no active manifestation")
	ErrCredentialMismatch = errors.New("Mismatch. Access denied.")
	ErrEmailTaken         = errors.New("Identity already bound.")
	ErrResultNotFound     = errors.New("record not found")
	ErrAdminOnly          = errors.New("admin access required")
)
