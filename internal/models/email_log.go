package models

import "time"

// Outbound mail statuses.
const (
	EmailQueued = "queued"
	EmailSent   = "sent"
	EmailFailed = "failed"
)

// Mailable entity tags.
const (
	MailableProject = "project"
	MailableInvoice = "invoice"
)

// EmailRetryBackoff is the fixed retry schedule for failed sends, indexed
// by the number of attempts already made. After the last slot the log stays
// failed until reset manually.
var EmailRetryBackoff = []time.Duration{
	60 * time.Second,
	300 * time.Second,
	900 * time.Second,
}

// EmailLog records an outbound mail decision. The core only enqueues;
// the actual transport runs in an external worker.
type EmailLog struct {
	ID            int        `json:"id"`
	UserID        int        `json:"user_id"`
	MailableType  string     `json:"mailable_type"`
	MailableID    int        `json:"mailable_id"`
	Recipient     string     `json:"recipient"`
	Subject       string     `json:"subject"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastError     *string    `json:"last_error,omitempty"`
	NextAttemptAt *time.Time `json:"next_attempt_at,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NextRetryAt returns when a failed send may be retried, or false once the
// backoff schedule is exhausted.
func (l EmailLog) NextRetryAt(now time.Time) (time.Time, bool) {
	if l.Attempts >= len(EmailRetryBackoff) {
		return time.Time{}, false
	}
	return now.Add(EmailRetryBackoff[l.Attempts]), true
}
