package services

import (
	"context"
	"log"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/timeutil"
)

// Sender delivers one outbound mail. The production wiring plugs an SMTP
// transport in here; tests and development use LogSender.
type Sender interface {
	Send(ctx context.Context, mail models.EmailLog) error
}

// LogSender writes the would-be delivery to the info log instead of
// sending.
type LogSender struct {
	InfoLog *log.Logger
}

func (s LogSender) Send(ctx context.Context, mail models.EmailLog) error {
	if s.InfoLog != nil {
		s.InfoLog.Printf("mail to %s: %s", mail.Recipient, mail.Subject)
	}
	return nil
}

type EmailService struct {
	EmailLogRepo *repositories.EmailLogRepository
	Sender       Sender
	ErrorLog     *log.Logger
}

func (s *EmailService) GetEmailLogs(ctx context.Context, scope repositories.Scope) ([]models.EmailLog, error) {
	return s.EmailLogRepo.GetEmailLogs(ctx, scope)
}

func (s *EmailService) Retry(ctx context.Context, scope repositories.Scope, id int) error {
	return s.EmailLogRepo.ResetForRetry(ctx, scope, id)
}

// ProcessQueue attempts delivery for every dispatchable row. A failed send
// is recorded with its next retry time and the pass keeps going.
func (s *EmailService) ProcessQueue(ctx context.Context) (int, error) {
	now := timeutil.Now()
	logs, err := s.EmailLogRepo.GetDispatchable(ctx, now)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, mail := range logs {
		if err := s.Sender.Send(ctx, mail); err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("send mail %d to %s: %v", mail.ID, mail.Recipient, err)
			}
			if markErr := s.EmailLogRepo.MarkFailed(ctx, mail, err.Error(), now); markErr != nil && s.ErrorLog != nil {
				s.ErrorLog.Printf("mark mail %d failed: %v", mail.ID, markErr)
			}
			continue
		}
		if err := s.EmailLogRepo.MarkSent(ctx, mail.ID, now); err != nil {
			if s.ErrorLog != nil {
				s.ErrorLog.Printf("mark mail %d sent: %v", mail.ID, err)
			}
			continue
		}
		sent++
	}
	return sent, nil
}
