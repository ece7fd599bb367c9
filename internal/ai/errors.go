package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrAIDisabled is returned before any work when the AI capability is switched off.
	ErrAIDisabled = errors.New("ai itinerary generation is disabled")
	// ErrTimeout is returned when the provider does not answer within the deadline.
	ErrTimeout = errors.New("ai itinerary generation timed out")
)

// InvalidJSONError reports a response that could not be decoded even after repair.
type InvalidJSONError struct {
	Path   string
	Detail string
}

func (e *InvalidJSONError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid itinerary json: %s", e.Detail)
	}
	return fmt.Sprintf("invalid itinerary json at %s: %s", e.Path, e.Detail)
}

// GenerationError wraps a provider failure.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "ai generation failed: " + e.Reason
	}
	return fmt.Sprintf("ai generation failed: %s: %v", e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
