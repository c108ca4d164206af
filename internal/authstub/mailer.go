package authstub

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/authflow/internal/logging"
)

// Mail is an out-of-band message to a user.
type Mail struct {
	To      string
	Subject string
	// Code is the one-time code, if the mail carries one.
	Code string
	// Link is the reset path, if the mail carries one.
	Link string
}

// Mailer delivers mail.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer writes mail to the log. Codes and links are logged on purpose:
// this is how a developer reads them when running the stub locally.
type LogMailer struct {
	Log logging.Logger
}

func (l LogMailer) Send(ctx context.Context, m Mail) error {
	logging.OrNop(l.Log).Info(ctx, "mail", "to", m.To, "subject", m.Subject, "code", m.Code, "link", m.Link)
	return nil
}

// Outbox records mail in memory.
type Outbox struct {
	mu   sync.Mutex
	sent []Mail
}

func (o *Outbox) Send(_ context.Context, m Mail) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

// Last returns the most recent mail sent to addr.
func (o *Outbox) Last(addr string) (Mail, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == addr {
			return o.sent[i], true
		}
	}
	return Mail{}, false
}

// Len reports how many mails were sent.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sent)
}
