package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/timetable/internal/logger"
)

// userFacing is implemented by errors that carry a message meant for the
// person at the terminal rather than for the log.
type userFacing interface {
	UserMessage() string
}

// Message returns the user-facing text of err. Errors anywhere in the chain
// that carry a user message win over the raw error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var uf userFacing
	if stderrors.As(err, &uf) {
		return uf.UserMessage()
	}
	return err.Error()
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Message(err))
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
