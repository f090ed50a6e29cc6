package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"fibuBack/internal/models"
)

type TimeEntryRepository struct {
	DB DBTX
}

const timeEntryColumns = `id, user_id, project_id, description, started_at, ended_at, duration_minutes, billable, invoice_id, created_at, updated_at`

func scanTimeEntry(row interface{ Scan(...any) error }) (models.TimeEntry, error) {
	var e models.TimeEntry
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &e.Description, &e.StartedAt, &e.EndedAt,
		&e.DurationMinutes, &e.Billable, &e.InvoiceID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *TimeEntryRepository) CreateTimeEntry(ctx context.Context, entry models.TimeEntry) (models.TimeEntry, error) {
	query := `INSERT INTO time_entries (user_id, project_id, description, started_at, ended_at, duration_minutes, billable, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, entry.UserID, entry.ProjectID, entry.Description, entry.StartedAt,
		entry.EndedAt, entry.DurationMinutes, entry.Billable)
	if err != nil {
		return models.TimeEntry{}, err
	}
	id, _ := res.LastInsertId()
	entry.ID = int(id)
	return entry, nil
}

func (r *TimeEntryRepository) GetTimeEntryByID(ctx context.Context, scope Scope, id int) (models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	e, err := scanTimeEntry(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TimeEntry{}, models.ErrTimeEntryNotFound
	}
	return e, err
}

func (r *TimeEntryRepository) GetTimeEntriesByProject(ctx context.Context, scope Scope, projectID int) ([]models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE project_id = ?`
	args := []any{projectID}
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY started_at`
	args = append(args, scopeArgs...)

	return r.queryEntries(ctx, query, args...)
}

func (r *TimeEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]models.TimeEntry, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *TimeEntryRepository) UpdateTimeEntry(ctx context.Context, scope Scope, entry models.TimeEntry) (models.TimeEntry, error) {
	query := `UPDATE time_entries SET description = ?, started_at = ?, ended_at = ?, duration_minutes = ?, billable = ?, updated_at = NOW()
	          WHERE id = ? AND invoice_id IS NULL`
	args := []any{entry.Description, entry.StartedAt, entry.EndedAt, entry.DurationMinutes, entry.Billable, entry.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.TimeEntry{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.TimeEntry{}, models.ErrTimeEntryNotFound
	}
	return entry, nil
}

func (r *TimeEntryRepository) DeleteTimeEntry(ctx context.Context, scope Scope, id int) error {
	query := `DELETE FROM time_entries WHERE id = ? AND invoice_id IS NULL`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrTimeEntryNotFound
	}
	return nil
}

// GetRunningTimeEntry returns the user's open timer, if any.
func (r *TimeEntryRepository) GetRunningTimeEntry(ctx context.Context, userID int) (models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = ? AND ended_at IS NULL LIMIT 1`
	e, err := scanTimeEntry(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TimeEntry{}, models.ErrTimeEntryNotFound
	}
	return e, err
}

// GetUnbilledForProject returns the billable, not yet invoiced entries of a
// project ordered by start time. These are the entries a new invoice rolls
// up.
func (r *TimeEntryRepository) GetUnbilledForProject(ctx context.Context, projectID int) ([]models.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries
	          WHERE project_id = ? AND billable = 1 AND invoice_id IS NULL AND ended_at IS NOT NULL
	          ORDER BY started_at`
	return r.queryEntries(ctx, query, projectID)
}

// AttachInvoice stamps the invoice id onto the given entries. The
// attribution is permanent; entries already invoiced are left untouched.
func (r *TimeEntryRepository) AttachInvoice(ctx context.Context, entryIDs []int, invoiceID int) error {
	if len(entryIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(entryIDs)), ", ")
	args := []any{invoiceID}
	for _, id := range entryIDs {
		args = append(args, id)
	}
	query := `UPDATE time_entries SET invoice_id = ?, updated_at = NOW() WHERE id IN (` + placeholders + `) AND invoice_id IS NULL`
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}
