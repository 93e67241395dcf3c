package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("unavailable")
)

// Recognition error kinds.
var (
	ErrSelfRecognition   = errors.New("self recognition")
	ErrAlreadyRecognized = errors.New("already recognized")
	ErrEvidenceMismatch  = errors.New("evidence mismatch")
	ErrNoSuchEdge        = errors.New("no such edge")
	ErrCooldownActive    = errors.New("cooldown active")
	ErrNotChallengeable  = errors.New("not challengeable")
	ErrEmptyText         = errors.New("empty text")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// CooldownError reports a calendar gate that has not elapsed yet.
type CooldownError struct {
	Action    string
	Until     time.Time
	Remaining time.Duration
}

// NewCooldownError builds a CooldownError relative to now.
func NewCooldownError(action string, until, now time.Time) *CooldownError {
	return &CooldownError{
		Action:    action,
		Until:     until,
		Remaining: until.Sub(now),
	}
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: cooldown active for another %s", e.Action, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrCooldownActive }
