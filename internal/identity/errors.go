package identity

import (
	"errors"
	"fmt"
)

// Code classifies an authentication failure. Backend-specific failures are
// mapped into this closed set; anything unmapped collapses to CodeUnknown.
type Code string

const (
	CodeNoCurrentUser     Code = "no_current_user"
	CodeInvalidEmail      Code = "invalid_email"
	CodeEmailAlreadyInUse Code = "email_already_in_use"
	CodeWrongPassword     Code = "wrong_password"
	CodeWrongCredential   Code = "wrong_credential"
	CodeUserNotFound      Code = "user_not_found"
	CodeMissingName       Code = "missing_name"
	CodeMissingSurname    Code = "missing_surname"
	CodeMissingIDToken    Code = "missing_id_token"
	CodeBadServerResponse Code = "bad_server_response"
	CodeUnknownProvider   Code = "unknown_provider"
	CodeUnknown           Code = "unknown"
)

var codeMessages = map[Code]string{
	CodeNoCurrentUser:     "There is no currently signed-in user.",
	CodeInvalidEmail:      "The email address is badly formatted.",
	CodeEmailAlreadyInUse: "The email address is already in use by another account.",
	CodeWrongPassword:     "Incorrect password. Please try again.",
	CodeWrongCredential:   "Incorrect email or password. Please try again.",
	CodeUserNotFound:      "No user found with this email. Please check the email or sign up.",
	CodeMissingName:       "The user's name is missing from the sign-in tokens.",
	CodeMissingSurname:    "The user's surname is missing from the sign-in tokens.",
	CodeMissingIDToken:    "The ID token is missing from the sign-in result.",
	CodeBadServerResponse: "Bad server response.",
	CodeUnknownProvider:   "Provider option not found.",
	CodeUnknown:           "An unknown error occurred. Please try again.",
}

// Error is a coded authentication failure
type Error struct {
	Code   Code
	Detail string // optional, e.g. the offending provider id
}

func (e *Error) Error() string {
	msg, ok := codeMessages[e.Code]
	if !ok {
		msg = codeMessages[CodeUnknown]
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	return msg
}

// NewError builds a coded error
func NewError(code Code) *Error {
	return &Error{Code: code}
}

// UnknownProviderError reports a provider id outside the recognized set
func UnknownProviderError(providerID string) *Error {
	return &Error{Code: CodeUnknownProvider, Detail: providerID}
}

// CodeOf extracts the code from an error chain, CodeUnknown otherwise
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
