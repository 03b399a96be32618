package capture

import "errors"

var (
	// ErrNoImage means a processing run was requested with no image selected.
	ErrNoImage = errors.New("no image selected")
	// ErrProcessingInFlight means the session already has a pipeline running;
	// the workflow is not reentrant.
	ErrProcessingInFlight = errors.New("processing already in progress")
	// ErrInvalidStep means the requested action is not allowed from the
	// session's current step.
	ErrInvalidStep = errors.New("action not allowed in current step")
	// ErrSessionClosed means the session was closed and can take no actions.
	ErrSessionClosed = errors.New("capture session closed")
	// ErrConfirmRequired means closing while processing needs explicit
	// confirmation.
	ErrConfirmRequired = errors.New("processing is in progress, confirmation required to close")
	// ErrSessionNotFound means no session exists for the id and user.
	ErrSessionNotFound = errors.New("capture session not found")
)
