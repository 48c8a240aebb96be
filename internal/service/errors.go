package service

import "errors"

var ErrValidation = errors.New("validation error")

// FieldErrors carries per-field messages for form re-rendering. It
// unwraps to ErrValidation so callers can keep matching the sentinel.
type FieldErrors map[string]string

func (e FieldErrors) Error() string { return "validation error" }

func (e FieldErrors) Unwrap() error { return ErrValidation }
