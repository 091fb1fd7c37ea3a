package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeInput represents malformed import input or request values
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeImport represents failures partway through an import run
	ErrorTypeImport ErrorType = "import"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrUnknownIdentifier is returned when a label or relationship type is not
// part of the vocabulary reported by the store
type ErrUnknownIdentifier struct {
	*BaseError
	Kind  string // "label" or "relationship type"
	Value string
}

func NewUnknownIdentifier(kind, value string) *ErrUnknownIdentifier {
	return &ErrUnknownIdentifier{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("unknown %s: %q", kind, value), nil),
		Kind:      kind,
		Value:     value,
	}
}

// ErrNodeNotFound is returned when no node carries the requested id property
type ErrNodeNotFound struct {
	*BaseError
	NodeID string
}

func NewNodeNotFound(nodeID string) *ErrNodeNotFound {
	return &ErrNodeNotFound{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("node not found: %s", nodeID), nil),
		NodeID:    nodeID,
	}
}

// Input Errors

// ErrInputInvalid is returned when an import descriptor or request value is malformed
type ErrInputInvalid struct {
	*BaseError
	Kind  string // "node", "relationship", "document", "request"
	Index int    // descriptor position, -1 when not applicable
	Field string
}

func NewInputInvalid(kind string, index int, field, reason string) *ErrInputInvalid {
	msg := fmt.Sprintf("invalid %s: %s %s", kind, field, reason)
	if index >= 0 {
		msg = fmt.Sprintf("invalid %s #%d: %s %s", kind, index, field, reason)
	}
	return &ErrInputInvalid{
		BaseError: NewBaseError(ErrorTypeInput, msg, nil),
		Kind:      kind,
		Index:     index,
		Field:     field,
	}
}

// ErrImportFileNotFound is returned when the import file does not exist
type ErrImportFileNotFound struct {
	*BaseError
	Path string
}

func NewImportFileNotFound(path string, err error) *ErrImportFileNotFound {
	return &ErrImportFileNotFound{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("file not found: %s", path), err),
		Path:      path,
	}
}

// Import Errors

// ErrImportAborted is returned when an import stops partway. Records applied
// before the failure stay applied.
type ErrImportAborted struct {
	*BaseError
	Phase                string
	Index                int
	NodesApplied         int64
	RelationshipsApplied int64
}

func NewImportAborted(phase string, index int, nodesApplied, relsApplied int64, err error) *ErrImportAborted {
	return &ErrImportAborted{
		BaseError:            NewBaseError(ErrorTypeImport, fmt.Sprintf("import aborted at %s #%d", phase, index), err),
		Phase:                phase,
		Index:                index,
		NodesApplied:         nodesApplied,
		RelationshipsApplied: relsApplied,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// typed is satisfied by every error in this package through the embedded *BaseError
type typed interface {
	error
	errorType() ErrorType
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if t, ok := err.(typed); ok && t.errorType() == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
