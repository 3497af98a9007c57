// Package core provides the business logic for catalog export operations.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When operators hit an error, they can quote the code to whoever maintains
// the catalog tooling.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
// Errors related to locating and reading the source export:
//
//	FILE001 - No source: No source file was selected
//	          Action: Choose the catalog CSV exported from the inventory tool
//	          Patterns: "no source file"
//
//	FILE002 - Missing file: The source file could not be found
//	          Action: Check the path and try again
//	          Patterns: "no such file"
//
//	FILE003 - Permission denied: The file could not be opened
//	          Action: Close the file in other programs and check permissions
//	          Patterns: "permission denied"
//
//	FILE004 - Invalid CSV: File is not a valid CSV
//	          Action: Re-export the catalog as comma-separated values
//	          Patterns: "invalid csv"
//
//	FILE005 - Encoding error: File could not be decoded
//	          Action: Set SOURCE_ENCODING to latin-1, windows-1252 or utf-8
//	          Patterns: "encoding error"
//
//	FILE006 - Empty file: The file has no data rows
//	          Action: Re-export the catalog with at least one lot
//	          Patterns: "empty file"
//
// # Schema Errors (SCH001-SCH099)
//
// Errors in the column assignment made before a run:
//
//	SCH001 - Column count: Assigned headers do not match the file's columns
//	         Action: Assign one header per column, using [Ignore] for unused columns
//	         Patterns: "mismatched header/column count"
//
//	SCH002 - Unknown header: A column was assigned an unknown field
//	         Action: Pick a field name from the catalogue
//	         Patterns: "unknown column header"
//
//	SCH003 - Duplicate header: A field was assigned to two columns
//	         Action: Assign each field once; use [Ignore] for the extra column
//	         Patterns: "duplicate column header"
//
//	SCH004 - Description fragments: Only some description columns were assigned
//	         Action: Assign all of Desc. 1 through Desc. 5, or none
//	         Patterns: "description fragments"
//
// # Validation Errors (VAL001-VAL099)
//
// Errors that stop a marketplace export:
//
//	VAL001 - Missing column: A column the marketplace requires is not assigned
//	         Action: Assign the column or enable computed starting bids
//	         Patterns: "missing required column"
//
//	VAL002 - Non-numeric value: A price or quantity is not a number
//	         Action: Fix the listed lots in the inventory tool and re-export
//	         Patterns: "non-numeric value"
//
//	VAL003 - Malformed lot: A lot number has letters before its end
//	         Action: Renumber the lot as digits with at most one trailing letter
//	         Patterns: "unexpected alpha character"
//
//	VAL004 - Invalid settings: The export settings are inconsistent
//	         Action: Review the boilerplate and starting bid options
//	         Patterns: "invalid settings"
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Cancelled: The export was cancelled
//	         Action: Start a new export when ready
//	         Patterns: "context canceled"
//
//	RUN002 - Timed out: The export did not finish in time
//	         Action: Please try again
//	         Patterns: "context deadline exceeded"
//
// # General Errors (ERR000)
//
//	ERR000 - Unknown: An unexpected error occurred
//	         Action: Please try again or check the application log
//	         (Default fallback when no pattern matches)
//
// # Pattern Matching
//
// Errors are matched case-insensitively with strings.Contains. The first
// matching pattern wins.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "no source file",
		msg: UserMessage{
			Message: "No source file was selected",
			Action:  "Choose the catalog CSV exported from the inventory tool",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "The source file could not be found",
			Action:  "Check the path and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file could not be opened",
			Action:  "Close the file in other programs and check permissions",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Re-export the catalog as comma-separated values",
			Code:    "FILE004",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File could not be decoded",
			Action:  "Set SOURCE_ENCODING to latin-1, windows-1252 or utf-8",
			Code:    "FILE005",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no data rows",
			Action:  "Re-export the catalog with at least one lot",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Schema Errors (SCH001-SCH004)
	// =========================================================================
	{
		pattern: "mismatched header/column count",
		msg: UserMessage{
			Message: "Assigned headers do not match the file's columns",
			Action:  "Assign one header per column, using [Ignore] for unused columns",
			Code:    "SCH001",
		},
	},
	{
		pattern: "unknown column header",
		msg: UserMessage{
			Message: "A column was assigned an unknown field",
			Action:  "Pick a field name from the catalogue",
			Code:    "SCH002",
		},
	},
	{
		pattern: "duplicate column header",
		msg: UserMessage{
			Message: "A field was assigned to two columns",
			Action:  "Assign each field once; use [Ignore] for the extra column",
			Code:    "SCH003",
		},
	},
	{
		pattern: "description fragments",
		msg: UserMessage{
			Message: "Only some description columns were assigned",
			Action:  "Assign all of Desc. 1 through Desc. 5, or none",
			Code:    "SCH004",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "A column the marketplace requires is not assigned",
			Action:  "Assign the column or enable computed starting bids",
			Code:    "VAL001",
		},
	},
	{
		pattern: "non-numeric value",
		msg: UserMessage{
			Message: "A price or quantity is not a number",
			Action:  "Fix the listed lots in the inventory tool and re-export",
			Code:    "VAL002",
		},
	},
	{
		pattern: "unexpected alpha character",
		msg: UserMessage{
			Message: "A lot number has letters before its end",
			Action:  "Renumber the lot as digits with at most one trailing letter",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid settings",
		msg: UserMessage{
			Message: "The export settings are inconsistent",
			Action:  "Review the boilerplate and starting bid options",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// Run Errors (RUN001-RUN002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The export was cancelled",
			Action:  "Start a new export when ready",
			Code:    "RUN001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The export did not finish in time",
			Action:  "Please try again",
			Code:    "RUN002",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// the application log for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	msg := MapError(ErrMissingRequired)
//	// msg.Code == "VAL001"
//	// msg.Message == "A column the marketplace requires is not assigned"
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "File is not a valid CSV (Code: FILE004). Re-export the catalog as comma-separated values"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(err)
//	log.Error(ue.Technical)           // Log original error
//	fmt.Println(ue.Error())           // Show "File is not a valid CSV"
//	fmt.Println(ue.User.Code)         // Show "FILE004"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
