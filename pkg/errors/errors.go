// Package errors provides structured error types for the mcl compiler.
//
// This package defines error codes and types that enable:
//   - Machine-readable codes shared by compile diagnostics and infrastructure failures
//   - User-friendly error messages for the CLI and the HTTP service
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Two families of codes live here. Infrastructure codes (INVALID_*, FILE_*,
// INTERNAL_*) describe failures around a compilation: unreadable input,
// undecodable syntax trees, cache or render failures. Diagnostic codes
// (UNKNOWN_FIELD, INCOMPATIBLE_NODE_TYPE, ...) classify the semantic errors
// a compilation reports against source spans.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "no microcontroller in %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Infrastructure error codes.
const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// ErrCodeCompileFailed marks a compilation that produced error diagnostics.
	ErrCodeCompileFailed Code = "COMPILE_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Diagnostic codes reported by semantic analysis.
const (
	// Lexical and syntactic codes are produced upstream by the parser and are
	// only carried through when a tree embeds them.
	ErrCodeInvalidToken    Code = "INVALID_TOKEN"
	ErrCodeUnexpectedToken Code = "UNEXPECTED_TOKEN"

	// Declaration errors
	ErrCodeUnknownField           Code = "UNKNOWN_FIELD"
	ErrCodeInvalidAssignment      Code = "INVALID_ASSIGNMENT"
	ErrCodeOutOfBounds            Code = "OUT_OF_BOUNDS"
	ErrCodeLiteralExpected        Code = "LITERAL_EXPECTED"
	ErrCodeUnknownType            Code = "UNKNOWN_TYPE"
	ErrCodeFieldAlreadyDeclared   Code = "FIELD_ALREADY_DECLARED"
	ErrCodeElementAlreadyDeclared Code = "ELEMENT_ALREADY_DECLARED"
	ErrCodePositionCollision      Code = "POSITION_COLLISION"

	// Type errors
	ErrCodeIncompatibleType     Code = "INCOMPATIBLE_TYPE"
	ErrCodeIncompatibleNodeType Code = "INCOMPATIBLE_NODE_TYPE"
	ErrCodeNodeDoesNotExist     Code = "NODE_DOES_NOT_EXIST"

	// Logic errors
	ErrCodeStringInLogic         Code = "STRING_IN_LOGIC"
	ErrCodeFieldAccessOnly       Code = "FIELD_ACCESS_ONLY"
	ErrCodeOutputsInExpression   Code = "OUTPUTS_IN_EXPRESSION"
	ErrCodeUnknownName           Code = "UNKNOWN_NAME"
	ErrCodeUnknownFunction       Code = "UNKNOWN_FUNCTION"
	ErrCodeArgumentCount         Code = "ARGUMENT_COUNT"
	ErrCodeOutputAlreadyAssigned Code = "OUTPUT_ALREADY_ASSIGNED"
	ErrCodeUnsupportedExpression Code = "UNSUPPORTED_EXPRESSION"
)

// Title returns the short human-readable heading for a diagnostic code,
// e.g. "Unknown Field". Codes without a heading return the code itself.
func (c Code) Title() string {
	if t, ok := titles[c]; ok {
		return t
	}
	return string(c)
}

var titles = map[Code]string{
	ErrCodeInvalidToken:           "Invalid Token",
	ErrCodeUnexpectedToken:        "Unexpected Token",
	ErrCodeUnknownField:           "Unknown Field",
	ErrCodeInvalidAssignment:      "Invalid Assignment",
	ErrCodeIncompatibleType:       "Incompatible Types",
	ErrCodeOutOfBounds:            "Out of Bounds",
	ErrCodeLiteralExpected:        "Literal Expected",
	ErrCodeUnknownType:            "Unknown Type",
	ErrCodeFieldAlreadyDeclared:   "Field Already Declared",
	ErrCodeElementAlreadyDeclared: "Element Already Declared",
	ErrCodePositionCollision:      "Position Collision",
	ErrCodeStringInLogic:          "String in Logic",
	ErrCodeFieldAccessOnly:        "Field Access Only",
	ErrCodeOutputsInExpression:    "Outputs in Expression",
	ErrCodeNodeDoesNotExist:       "Node Does Not Exist",
	ErrCodeIncompatibleNodeType:   "Incompatible Node Type",
	ErrCodeUnknownName:            "Unknown Name",
	ErrCodeUnknownFunction:        "Unknown Function",
	ErrCodeArgumentCount:          "Argument Count",
	ErrCodeOutputAlreadyAssigned:  "Output Already Assigned",
	ErrCodeUnsupportedExpression:  "Unsupported Expression",
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coder is implemented by error types that carry their own code without
// being an *Error, such as pipeline.CompileError.
type coder interface {
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a code-carrying error
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
