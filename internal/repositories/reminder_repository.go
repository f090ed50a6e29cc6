package repositories

import (
	"context"
	"database/sql"
	"errors"

	"fibuBack/internal/models"
)

type ReminderRepository struct {
	DB DBTX
}

const reminderColumns = `id, user_id, title, description, due_at, snoozed_until, completed_at, recurrence, priority,
	is_system, system_type, remindable_type, remindable_id, created_at, updated_at`

func scanReminder(row interface{ Scan(...any) error }) (models.Reminder, error) {
	var rem models.Reminder
	err := row.Scan(&rem.ID, &rem.UserID, &rem.Title, &rem.Description, &rem.DueAt, &rem.SnoozedUntil, &rem.CompletedAt,
		&rem.Recurrence, &rem.Priority, &rem.IsSystem, &rem.SystemType, &rem.RemindableType, &rem.RemindableID,
		&rem.CreatedAt, &rem.UpdatedAt)
	return rem, err
}

func (r *ReminderRepository) CreateReminder(ctx context.Context, rem models.Reminder) (models.Reminder, error) {
	query := `INSERT INTO reminders (user_id, title, description, due_at, recurrence, priority, is_system, system_type,
	          remindable_type, remindable_id, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, rem.UserID, rem.Title, rem.Description, rem.DueAt, rem.Recurrence,
		rem.Priority, rem.IsSystem, rem.SystemType, rem.RemindableType, rem.RemindableID)
	if err != nil {
		return models.Reminder{}, err
	}
	id, _ := res.LastInsertId()
	rem.ID = int(id)
	return rem, nil
}

func (r *ReminderRepository) GetReminderByID(ctx context.Context, scope Scope, id int) (models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	rem, err := scanReminder(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, models.ErrReminderNotFound
	}
	return rem, err
}

func (r *ReminderRepository) GetReminders(ctx context.Context, scope Scope) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE 1 = 1`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY COALESCE(snoozed_until, due_at)`
	args = append(args, scopeArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func (r *ReminderRepository) UpdateReminder(ctx context.Context, scope Scope, rem models.Reminder) (models.Reminder, error) {
	query := `UPDATE reminders SET title = ?, description = ?, due_at = ?, snoozed_until = ?, completed_at = ?,
	          recurrence = ?, priority = ?, updated_at = NOW() WHERE id = ?`
	args := []any{rem.Title, rem.Description, rem.DueAt, rem.SnoozedUntil, rem.CompletedAt, rem.Recurrence, rem.Priority, rem.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Reminder{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Reminder{}, models.ErrReminderNotFound
	}
	return rem, nil
}

func (r *ReminderRepository) DeleteReminder(ctx context.Context, scope Scope, id int) error {
	query := `DELETE FROM reminders WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrReminderNotFound
	}
	return nil
}
