package auth

import (
	"errors"
	"fmt"
)

// Code is an authentication failure code as returned by the identity backend.
type Code string

const (
	CodeEmailInUse         Code = "auth/email-already-in-use"
	CodeInvalidEmail       Code = "auth/invalid-email"
	CodeWeakPassword       Code = "auth/weak-password"
	CodeUserNotFound       Code = "auth/user-not-found"
	CodeWrongPassword      Code = "auth/wrong-password"
	CodePopupClosed        Code = "auth/popup-closed-by-user"
	CodePopupBlocked       Code = "auth/popup-blocked"
	CodeUnauthorizedDomain Code = "auth/unauthorized-domain"
	CodeInvalidToken       Code = "auth/invalid-token"
)

// Flow distinguishes email/password sign-in from federated sign-in; the
// two use different fallback messages.
type Flow int

const (
	FlowEmail Flow = iota
	FlowProvider
)

const MsgMissingFields = "Please fill in all fields"

var ErrMissingFields = errors.New("email and password are required")

// Message maps a failure code to the text shown to the user.
func Message(code Code, flow Flow) string {
	switch code {
	case CodeEmailInUse:
		return "An account with this email already exists"
	case CodeInvalidEmail:
		return "Invalid email address"
	case CodeWeakPassword:
		return "Password should be at least 6 characters"
	case CodeUserNotFound, CodeWrongPassword:
		return "Invalid email or password"
	case CodePopupClosed:
		return "Sign-in was cancelled. Please try again."
	case CodePopupBlocked:
		return "Pop-up was blocked. Please allow pop-ups for this site and try again."
	case CodeUnauthorizedDomain:
		return "This domain is not authorized. Please contact support."
	}
	if flow == FlowProvider {
		return "Failed to sign in. Please check your internet connection and try again."
	}
	return "Failed to authenticate. Please try again."
}

// Error is an authentication failure. Code is empty when the failure did
// not come with a recognised code (network errors, unexpected responses).
type Error struct {
	Code Code
	Flow Flow
	Err  error
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("authentication failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("authentication failed (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("authentication failed (%s)", e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) UserMessage() string {
	if errors.Is(e.Err, ErrMissingFields) {
		return MsgMissingFields
	}
	return Message(e.Code, e.Flow)
}
