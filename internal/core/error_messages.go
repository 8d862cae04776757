// Package core provides the contact domain.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When operators encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Storage Errors (DB001-DB099)
//
//	DB001 - Not found: No contact has this ID
//	        Action: Run "list" to see existing contact IDs
//	        Matches: ErrNotFound
//
//	DB002 - Connection refused: Unable to connect to database
//	        Action: Check DATABASE_URL and that the server is running
//	        Patterns: "connection refused", "no such host"
//
//	DB003 - Authentication: Database rejected the credentials
//	        Action: Check the user and password in DATABASE_URL
//	        Patterns: "password authentication failed"
//
//	DB004 - Storage failure: The database rejected the operation
//	        Action: Check the logs for the underlying database error
//	        Matches: ErrStorage
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found: The import file could not be read
//	          Action: Check the path and file permissions
//	          Matches: ErrFileNotFound
//
//	FILE002 - Write failure: The export file could not be written
//	          Action: Check that the directory exists and is writable
//	          Matches: ErrWriteFailure
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded", "timeout"
//
//	REQ003 - Invalid input: The request could not be understood
//	         Matches: ErrInvalidInput
//
//	REQ004 - Busy: Another import is still running
//	         Action: Retry once it has finished
//	         Matches: ErrBusy
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
//
// # Matching
//
// Sentinel matches (errors.Is) are checked first, in order. Patterns are then
// matched case-insensitively using strings.Contains; the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorTarget maps a sentinel error to its user message.
type errorTarget struct {
	target error
	msg    UserMessage
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgNotFound = UserMessage{
		Message: "No contact has this ID",
		Action:  `Run "list" to see existing contact IDs`,
		Code:    "DB001",
	}
	msgConnRefused = UserMessage{
		Message: "Unable to connect to database",
		Action:  "Check DATABASE_URL and that the server is running",
		Code:    "DB002",
	}
	msgRequestTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ002",
	}
)

// errorTargets is checked before errorPatterns. Specific sentinels come
// before ErrStorage because a StorageError may wrap a connection error.
var errorTargets = []errorTarget{
	{target: ErrNotFound, msg: msgNotFound},
	{
		target: ErrFileNotFound,
		msg: UserMessage{
			Message: "The import file could not be read",
			Action:  "Check the path and file permissions",
			Code:    "FILE001",
		},
	},
	{
		target: ErrInvalidInput,
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the request body and parameters",
			Code:    "REQ003",
		},
	},
	{
		target: ErrBusy,
		msg: UserMessage{
			Message: "Another import is still running",
			Action:  "Retry once it has finished",
			Code:    "REQ004",
		},
	},
	{
		target: ErrWriteFailure,
		msg: UserMessage{
			Message: "The export file could not be written",
			Action:  "Check that the directory exists and is writable",
			Code:    "FILE002",
		},
	},
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Connection Errors (DB002-DB003)
	// =========================================================================
	{pattern: "connection refused", msg: msgConnRefused},
	{pattern: "no such host", msg: msgConnRefused},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user and password in DATABASE_URL",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{pattern: "context deadline exceeded", msg: msgRequestTimeout},
	{pattern: "timeout", msg: msgRequestTimeout},
}

// storageMessage is used for storage failures no pattern explains.
var storageMessage = UserMessage{
	Message: "The database rejected the operation",
	Action:  "Check the logs for the underlying database error",
	Code:    "DB004",
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := st.Get(ctx, 42)
//	msg := MapError(err)
//	// msg.Code == "DB001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, et := range errorTargets {
		if errors.Is(err, et.target) {
			return et.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	if errors.Is(err, ErrStorage) {
		return storageMessage
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
