package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fibuBack/internal/models"
)

type RecurringTaskRepository struct {
	DB DBTX
}

const recurringTaskColumns = `id, user_id, client_id, title, description, frequency, amount, next_due_at, last_run_at,
	started_at, ends_at, active, created_at, updated_at`

func scanRecurringTask(row interface{ Scan(...any) error }) (models.RecurringTask, error) {
	var t models.RecurringTask
	err := row.Scan(&t.ID, &t.UserID, &t.ClientID, &t.Title, &t.Description, &t.Frequency, &t.Amount,
		&t.NextDueAt, &t.LastRunAt, &t.StartedAt, &t.EndsAt, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *RecurringTaskRepository) CreateRecurringTask(ctx context.Context, task models.RecurringTask) (models.RecurringTask, error) {
	query := `INSERT INTO recurring_tasks (user_id, client_id, title, description, frequency, amount, next_due_at,
	          started_at, ends_at, active, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, task.UserID, task.ClientID, task.Title, task.Description, task.Frequency,
		task.Amount, task.NextDueAt, task.StartedAt, task.EndsAt, task.Active)
	if err != nil {
		return models.RecurringTask{}, err
	}
	id, _ := res.LastInsertId()
	task.ID = int(id)
	return task, nil
}

func (r *RecurringTaskRepository) GetRecurringTaskByID(ctx context.Context, scope Scope, id int) (models.RecurringTask, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM recurring_tasks WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	t, err := scanRecurringTask(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.RecurringTask{}, models.ErrRecurringTaskNotFound
	}
	return t, err
}

func (r *RecurringTaskRepository) GetRecurringTasks(ctx context.Context, scope Scope) ([]models.RecurringTask, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM recurring_tasks WHERE 1 = 1`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY next_due_at`
	args = append(args, scopeArgs...)

	return r.queryTasks(ctx, query, args...)
}

func (r *RecurringTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]models.RecurringTask, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.RecurringTask
	for rows.Next() {
		t, err := scanRecurringTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SaveSchedule persists the scheduling state mutated by Advance, Pause and
// Resume.
func (r *RecurringTaskRepository) SaveSchedule(ctx context.Context, scope Scope, task models.RecurringTask) error {
	query := `UPDATE recurring_tasks SET next_due_at = ?, last_run_at = ?, active = ?, updated_at = NOW() WHERE id = ?`
	args := []any{task.NextDueAt, task.LastRunAt, task.Active, task.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrRecurringTaskNotFound
	}
	return nil
}

func (r *RecurringTaskRepository) UpdateRecurringTask(ctx context.Context, scope Scope, task models.RecurringTask) (models.RecurringTask, error) {
	query := `UPDATE recurring_tasks SET client_id = ?, title = ?, description = ?, frequency = ?, amount = ?,
	          next_due_at = ?, ends_at = ?, updated_at = NOW() WHERE id = ?`
	args := []any{task.ClientID, task.Title, task.Description, task.Frequency, task.Amount, task.NextDueAt, task.EndsAt, task.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.RecurringTask{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.RecurringTask{}, models.ErrRecurringTaskNotFound
	}
	return task, nil
}

func (r *RecurringTaskRepository) DeleteRecurringTask(ctx context.Context, scope Scope, id int) error {
	query := `DELETE FROM recurring_tasks WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrRecurringTaskNotFound
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM recurring_task_logs WHERE task_id = ?`, id)
	return err
}

// GetDueTasks returns the tasks the scheduler must process now: active,
// due, and not past their end date.
func (r *RecurringTaskRepository) GetDueTasks(ctx context.Context, scope Scope, now time.Time) ([]models.RecurringTask, error) {
	query := `SELECT ` + recurringTaskColumns + ` FROM recurring_tasks
	          WHERE active = 1 AND next_due_at <= ? AND (ends_at IS NULL OR ends_at >= ?)`
	args := []any{now, now}
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY next_due_at`
	args = append(args, scopeArgs...)

	return r.queryTasks(ctx, query, args...)
}

// GetActiveWithoutPendingReminder returns active tasks with no open
// reminder attached, candidates for advance notices.
func (r *RecurringTaskRepository) GetActiveWithoutPendingReminder(ctx context.Context, scope Scope) ([]models.RecurringTask, error) {
	query := `SELECT ` + columnsWithPrefix(recurringTaskColumns, "t") + ` FROM recurring_tasks t
	          LEFT JOIN reminders rem ON rem.remindable_type = 'recurring_task' AND rem.remindable_id = t.id AND rem.completed_at IS NULL
	          WHERE t.active = 1 AND rem.id IS NULL`
	var args []any
	clause, scopeArgs := scope.and("t.user_id")
	query += clause + ` ORDER BY t.next_due_at`
	args = append(args, scopeArgs...)

	return r.queryTasks(ctx, query, args...)
}

// AppendLog writes one append-only audit record.
func (r *RecurringTaskRepository) AppendLog(ctx context.Context, log models.RecurringTaskLog) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO recurring_task_logs (task_id, action, reason, created_at) VALUES (?, ?, ?, NOW())`,
		log.TaskID, log.Action, log.Reason)
	return err
}

func (r *RecurringTaskRepository) GetLogs(ctx context.Context, taskID int) ([]models.RecurringTaskLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, task_id, action, reason, created_at FROM recurring_task_logs WHERE task_id = ? ORDER BY created_at`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.RecurringTaskLog
	for rows.Next() {
		var l models.RecurringTaskLog
		if err := rows.Scan(&l.ID, &l.TaskID, &l.Action, &l.Reason, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
