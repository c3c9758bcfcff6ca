package domain

import "errors"

var (
	// ErrNotFound is returned when a week/day/exercise path does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrNoPlan means there is no active plan, or the active plan is exhausted.
	ErrNoPlan = errors.New("no workout plan available")
	// ErrInvalidPlanData is returned when an external plan document breaks structural rules.
	ErrInvalidPlanData = errors.New("invalid plan data")
	// ErrTransientIO marks store or network failures that may succeed on retry.
	ErrTransientIO = errors.New("transient i/o failure")
	// ErrInvalidTransition is returned for a plan status change that is not allowed.
	ErrInvalidTransition = errors.New("invalid plan status transition")
	// ErrInvalidEdit is returned for an unknown exercise field or an unparsable value.
	ErrInvalidEdit = errors.New("invalid exercise edit")
	// ErrValidation is returned for rejected user input.
	ErrValidation = errors.New("validation failed")
)
