package domain

import dErrors "sevsizer/pkg/domain-errors"

// FingerName identifies one of the five fingers of a hand.
// Invariant: the value must be one of the five supported names.
//
// Usage: construct via ParseFingerName at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type FingerName string

const (
	FingerThumb  FingerName = "thumb"
	FingerIndex  FingerName = "index"
	FingerMiddle FingerName = "middle"
	FingerRing   FingerName = "ring"
	FingerPinky  FingerName = "pinky"
)

// FingerOrder is the canonical thumb-to-pinky ordering. Profile composition,
// missing-finger reporting and set comparison all iterate in this order.
var FingerOrder = [5]FingerName{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky}

// validFingerNames is the single source of truth for valid finger names.
var validFingerNames = map[FingerName]bool{
	FingerThumb:  true,
	FingerIndex:  true,
	FingerMiddle: true,
	FingerRing:   true,
	FingerPinky:  true,
}

// ParseFingerName constructs a FingerName from external input.
//
// Errors: returns CodeValidation when the value is empty or not one of the
// five fingers; no other errors are expected.
func ParseFingerName(s string) (FingerName, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "finger cannot be empty")
	}
	f := FingerName(s)
	if !f.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid finger %q", s)
	}
	return f, nil
}

// IsValid checks if the finger name is one of the supported enum values.
func (f FingerName) IsValid() bool {
	return validFingerNames[f]
}

// String returns the string representation of the finger name.
func (f FingerName) String() string {
	return string(f)
}
