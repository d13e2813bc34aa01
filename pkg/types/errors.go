package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrConfiguration indicates an invalid parameter, detected before any computation
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyResult indicates the chosen parameters do not produce results
	ErrEmptyResult = errors.New("no results for given parameters")

	// ErrDataInconsistency indicates the input tables disagree with each other
	ErrDataInconsistency = errors.New("inconsistent input data")
)

// ConfigurationError reports an invalid parameter value.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Is implements errors.Is support for ConfigurationError.
// Both errors.Is(err, ErrConfiguration) and errors.Is(err, &ConfigurationError{}) match.
func (e *ConfigurationError) Is(target error) bool {
	if target == ErrConfiguration {
		return true
	}
	_, ok := target.(*ConfigurationError)
	return ok
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(field string, value interface{}, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

// EmptyResultError is a recoverable outcome: the pipeline ran but the
// parameters were too strict to yield anything. Params holds the values used
// so callers can retry with relaxed settings.
type EmptyResultError struct {
	Stage  string
	Params map[string]interface{}
}

func (e *EmptyResultError) Error() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("no results for given parameters (stage %s)", e.Stage)
	}

	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Params[k]))
	}
	return fmt.Sprintf("no results for given parameters (stage %s): %s", e.Stage, strings.Join(parts, " "))
}

// Is implements errors.Is support for EmptyResultError.
func (e *EmptyResultError) Is(target error) bool {
	if target == ErrEmptyResult {
		return true
	}
	_, ok := target.(*EmptyResultError)
	return ok
}

// NewEmptyResultError creates a new empty result error for the given stage
func NewEmptyResultError(stage string, params map[string]interface{}) *EmptyResultError {
	return &EmptyResultError{Stage: stage, Params: params}
}

// DataInconsistencyError reports a term or sentence referenced by one input
// table but missing from another. It is fatal for the pipeline.
type DataInconsistencyError struct {
	Term     string
	Sentence int
	Reason   string
}

func (e *DataInconsistencyError) Error() string {
	if e.Term == "" {
		return fmt.Sprintf("data inconsistency at sentence %d: %s", e.Sentence, e.Reason)
	}
	return fmt.Sprintf("data inconsistency for term %q at sentence %d: %s", e.Term, e.Sentence, e.Reason)
}

// Is implements errors.Is support for DataInconsistencyError.
func (e *DataInconsistencyError) Is(target error) bool {
	if target == ErrDataInconsistency {
		return true
	}
	_, ok := target.(*DataInconsistencyError)
	return ok
}

// NewDataInconsistencyError creates a new data inconsistency error
func NewDataInconsistencyError(term string, sentence int, reason string) *DataInconsistencyError {
	return &DataInconsistencyError{Term: term, Sentence: sentence, Reason: reason}
}
