// Package core provides the lookup logic for merged roll data.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Users can quote the code when reporting a problem.
//
// # Merge Errors (KEY001-KEY099, DS001-DS099)
//
//	KEY001 - Missing ID: Both files must contain an 'ID' column
//	         Action: Add an ID column with matching values to both files
//	         Patterns: "missing required column id"
//
//	DS001  - No dataset: No merged dataset is loaded
//	         Action: Upload both files to generate the merged dataset
//	         Patterns: "no dataset loaded"
//
//	SRCH001 - Bad criteria: A search field could not be parsed
//	          Action: Enter serial numbers as plain numbers
//	          Patterns: "invalid criteria"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure file is comma-separated with consistent quoting
//	          Patterns: "invalid csv"
//
//	FILE004 - No file: A file was not provided
//	          Action: Select both CSV files before merging
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Upload a CSV file with a header row
//	          Patterns: "empty file"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Query failed: The database source could not be read
//	         Patterns: "source query"
//
// # Translation (TRN001)
//
//	TRN001 - Translation unavailable: Name queries are matched as typed
//	         Patterns: "translation unavailable"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the original technical error.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains against the
// error text. The first matching pattern wins, so specific patterns come
// before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Merge
	{
		pattern: "missing required column id",
		msg: UserMessage{
			Message: "Both files must contain an 'ID' column",
			Action:  "Add an ID column with matching values to both files",
			Code:    "KEY001",
		},
	},
	{
		pattern: "no dataset loaded",
		msg: UserMessage{
			Message: "No merged dataset is loaded",
			Action:  "Upload both files to generate the merged dataset",
			Code:    "DS001",
		},
	},

	{
		pattern: "invalid criteria",
		msg: UserMessage{
			Message: "Search fields could not be read",
			Action:  "Enter serial numbers as plain numbers",
			Code:    "SRCH001",
		},
	},

	// Files
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent quoting",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "A file was not provided",
			Action:  "Select both CSV files before merging",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV file with a header row",
			Code:    "FILE005",
		},
	},

	// Uploads and requests
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "Too many uploads in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},

	// Sources
	{
		pattern: "source query",
		msg: UserMessage{
			Message: "The database source could not be read",
			Action:  "Check the query and database connection settings",
			Code:    "SRC001",
		},
	},

	// Translation
	{
		pattern: "translation unavailable",
		msg: UserMessage{
			Message: "Translation unavailable",
			Action:  "Names are matched as typed; type them in Gujarati for best results",
			Code:    "TRN001",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the ERR000 fallback when no pattern matches and a zero
// UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-ERR000) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
