package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/dmitrijs2005/authflow/internal/client/flows"
)

// Level is the severity of a notification.
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	default:
		return "error"
	}
}

// Notifier is the toast area: the one place where outcomes become visible
// to the user.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier writes notifications to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Notify shows msg at level l.
func (n *Notifier) Notify(l Level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", l, msg)
}

// Fail shows exactly one notification for err.
func (n *Notifier) Fail(err error) {
	if err == nil {
		return
	}
	n.Notify(levelOf(err), authapi.UserMessage(err))
}

// levelOf picks the severity for err. Input problems are warnings, except
// a password mismatch which is reported as an error.
func levelOf(err error) Level {
	switch {
	case errors.Is(err, flows.ErrStale):
		return LevelInfo
	case errors.Is(err, authapi.ErrValidation):
		if authapi.UserMessage(err) == flows.MsgPasswordsDontMatch {
			return LevelError
		}
		return LevelWarning
	case errors.Is(err, flows.ErrSubmissionPending), errors.Is(err, flows.ErrIllegalTransition):
		return LevelWarning
	default:
		return LevelError
	}
}
