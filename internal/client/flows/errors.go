package flows

import "errors"

var (
	// ErrSubmissionPending is returned when a flow is asked to submit while
	// an earlier submission has not completed.
	ErrSubmissionPending = errors.New("a submission is already in progress")
	// ErrIllegalTransition is returned for a submission the current step
	// does not accept.
	ErrIllegalTransition = errors.New("action not available at this step")
	// ErrStale is returned when a response arrives for a flow that has since
	// been closed or moved back. The response has no effect.
	ErrStale = errors.New("response discarded: flow was abandoned")
)
