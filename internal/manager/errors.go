package manager

import (
	"errors"
	"fmt"
)

// notFoundError signals an unknown streamer or file (404).
type notFoundError struct{ name string }

func (e notFoundError) Error() string { return "not found: " + e.name }

// ErrNotFound returns an error for a missing streamer or file.
func ErrNotFound(name string) error { return notFoundError{name: name} }

// IsNotFound reports whether err indicates a missing streamer or file.
func IsNotFound(err error) bool {
	var e notFoundError
	return errors.As(err, &e)
}

// notAwaitingError rejects a manual trigger for a streamer that is not
// waiting for confirmation.
type notAwaitingError struct{ name string }

func (e notAwaitingError) Error() string { return "streamer is not awaiting confirmation: " + e.name }

// IsNotAwaiting reports whether err rejected a manual trigger.
func IsNotAwaiting(err error) bool {
	var e notAwaitingError
	return errors.As(err, &e)
}

// alreadyActiveError rejects a second capture start for the same streamer.
type alreadyActiveError struct{ name string }

func (e alreadyActiveError) Error() string { return "capture already active: " + e.name }

// IsAlreadyActive reports whether err rejected a duplicate capture start.
func IsAlreadyActive(err error) bool {
	var e alreadyActiveError
	return errors.As(err, &e)
}

// notRecordingError rejects a stop for a streamer without an active capture.
type notRecordingError struct{ name string }

func (e notRecordingError) Error() string { return "no active capture: " + e.name }

// IsNotRecording reports whether err rejected a stop command.
func IsNotRecording(err error) bool {
	var e notRecordingError
	return errors.As(err, &e)
}

// invalidError signals a malformed command (400).
type invalidError struct{ msg string }

func (e invalidError) Error() string { return "invalid command: " + e.msg }

func errInvalid(format string, a ...any) error { return invalidError{msg: fmt.Sprintf(format, a...)} }

// IsInvalid reports whether err rejected a malformed command.
func IsInvalid(err error) bool {
	var e invalidError
	return errors.As(err, &e)
}

// IsRejected reports whether err is any rejected-command error; rejected
// commands never mutate state.
func IsRejected(err error) bool {
	return IsNotFound(err) || IsNotAwaiting(err) || IsAlreadyActive(err) || IsNotRecording(err) || IsInvalid(err)
}
