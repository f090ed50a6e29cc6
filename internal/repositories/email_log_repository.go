package repositories

import (
	"context"
	"time"

	"fibuBack/internal/models"
)

type EmailLogRepository struct {
	DB DBTX
}

// Enqueue records the decision to send a mail. The transport worker picks
// queued rows up outside this core.
func (r *EmailLogRepository) Enqueue(ctx context.Context, log models.EmailLog) (models.EmailLog, error) {
	log.Status = models.EmailQueued
	query := `INSERT INTO email_logs (user_id, mailable_type, mailable_id, recipient, subject, status, attempts, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, 0, NOW())`
	res, err := r.DB.ExecContext(ctx, query, log.UserID, log.MailableType, log.MailableID, log.Recipient, log.Subject, log.Status)
	if err != nil {
		return models.EmailLog{}, err
	}
	id, _ := res.LastInsertId()
	log.ID = int(id)
	return log, nil
}

func (r *EmailLogRepository) MarkSent(ctx context.Context, id int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE email_logs SET status = 'sent', sent_at = ?, last_error = NULL, next_attempt_at = NULL WHERE id = ?`, at, id)
	return err
}

// MarkFailed bumps the attempt counter and schedules the next retry per the
// fixed backoff table; after the last slot the row stays failed with no
// retry time.
func (r *EmailLogRepository) MarkFailed(ctx context.Context, log models.EmailLog, errMsg string, now time.Time) error {
	log.Attempts++
	var nextAttempt *time.Time
	if at, ok := log.NextRetryAt(now); ok {
		nextAttempt = &at
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE email_logs SET status = 'failed', attempts = ?, last_error = ?, next_attempt_at = ? WHERE id = ?`,
		log.Attempts, errMsg, nextAttempt, log.ID)
	return err
}

// ResetForRetry requeues a failed log without touching the attempt counter.
func (r *EmailLogRepository) ResetForRetry(ctx context.Context, scope Scope, id int) error {
	query := `UPDATE email_logs SET status = 'queued', next_attempt_at = NULL WHERE id = ? AND status = 'failed'`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// GetDispatchable returns the rows the transport worker should attempt
// now: everything queued, plus failed rows whose retry time has come.
func (r *EmailLogRepository) GetDispatchable(ctx context.Context, now time.Time) ([]models.EmailLog, error) {
	query := `SELECT id, user_id, mailable_type, mailable_id, recipient, subject, status, attempts, last_error,
	          next_attempt_at, sent_at, created_at FROM email_logs
	          WHERE status = 'queued' OR (status = 'failed' AND next_attempt_at IS NOT NULL AND next_attempt_at <= ?)
	          ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.MailableType, &l.MailableID, &l.Recipient, &l.Subject, &l.Status,
			&l.Attempts, &l.LastError, &l.NextAttemptAt, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *EmailLogRepository) GetEmailLogs(ctx context.Context, scope Scope) ([]models.EmailLog, error) {
	query := `SELECT id, user_id, mailable_type, mailable_id, recipient, subject, status, attempts, last_error,
	          next_attempt_at, sent_at, created_at FROM email_logs WHERE 1 = 1`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY created_at DESC`
	args = append(args, scopeArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.EmailLog
	for rows.Next() {
		var l models.EmailLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.MailableType, &l.MailableID, &l.Recipient, &l.Subject, &l.Status,
			&l.Attempts, &l.LastError, &l.NextAttemptAt, &l.SentAt, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
