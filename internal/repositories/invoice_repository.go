package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fibuBack/internal/models"
)

type InvoiceRepository struct {
	DB DBTX
}

const invoiceColumns = `id, user_id, client_id, project_id, number, status, issued_at, due_at, sent_at, paid_at,
	payment_method, service_period_start, service_period_end, subtotal, vat_rate, vat_amount, total, notes, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.ProjectID, &inv.Number, &inv.Status, &inv.IssuedAt,
		&inv.DueAt, &inv.SentAt, &inv.PaidAt, &inv.PaymentMethod, &inv.ServicePeriodStart, &inv.ServicePeriodEnd,
		&inv.Subtotal, &inv.VATRate, &inv.VATAmount, &inv.Total, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	return inv, err
}

// NextNumber produces the next year-scoped invoice number ("2026-001").
// The SELECT ... FOR UPDATE over the year's rows serializes concurrent
// invoice creation, so two requests never read the same maximum. Numbers
// are scanned globally, deleted numbers are never reused, and gaps are not
// filled. Must run inside the creation transaction.
func (r *InvoiceRepository) NextNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("%d-", year)
	rows, err := r.DB.QueryContext(ctx, `SELECT number FROM invoices WHERE number LIKE ? FOR UPDATE`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	maxSeq := 0
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return "", err
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, maxSeq+1), nil
}

func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice) (models.Invoice, error) {
	query := `INSERT INTO invoices (user_id, client_id, project_id, number, status, issued_at, due_at,
	          service_period_start, service_period_end, subtotal, vat_rate, vat_amount, total, notes, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, inv.UserID, inv.ClientID, inv.ProjectID, inv.Number, inv.Status,
		inv.IssuedAt, inv.DueAt, inv.ServicePeriodStart, inv.ServicePeriodEnd,
		inv.Subtotal, inv.VATRate, inv.VATAmount, inv.Total, inv.Notes)
	if err != nil {
		return models.Invoice{}, err
	}
	id, _ := res.LastInsertId()
	inv.ID = int(id)

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if err := r.insertItem(ctx, &inv.Items[i]); err != nil {
			return models.Invoice{}, err
		}
	}
	return inv, nil
}

func (r *InvoiceRepository) insertItem(ctx context.Context, item *models.InvoiceItem) error {
	query := `INSERT INTO invoice_items (invoice_id, description, quantity, unit, unit_price, vat_rate, position)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, item.InvoiceID, item.Description, item.Quantity, item.Unit, item.UnitPrice, item.VATRate, item.Position)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	item.ID = int(id)
	return nil
}

func (r *InvoiceRepository) GetInvoiceByID(ctx context.Context, scope Scope, id int) (models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	inv, err := scanInvoice(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items, err = r.loadItems(ctx, inv.ID)
	return inv, err
}

func (r *InvoiceRepository) loadItems(ctx context.Context, invoiceID int) ([]models.InvoiceItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, invoice_id, description, quantity, unit, unit_price, vat_rate, position FROM invoice_items WHERE invoice_id = ? ORDER BY position`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Description, &item.Quantity, &item.Unit, &item.UnitPrice, &item.VATRate, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InvoiceRepository) GetInvoices(ctx context.Context, scope Scope) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1 = 1`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY number DESC`
	args = append(args, scopeArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// UpdateDraft saves structural fields and replaces the item list. Callers
// must have verified the invoice is still a draft.
func (r *InvoiceRepository) UpdateDraft(ctx context.Context, scope Scope, inv models.Invoice) (models.Invoice, error) {
	query := `UPDATE invoices SET client_id = ?, project_id = ?, issued_at = ?, due_at = ?,
	          service_period_start = ?, service_period_end = ?, subtotal = ?, vat_rate = ?, vat_amount = ?, total = ?,
	          notes = ?, updated_at = NOW() WHERE id = ? AND status = 'draft'`
	args := []any{inv.ClientID, inv.ProjectID, inv.IssuedAt, inv.DueAt, inv.ServicePeriodStart, inv.ServicePeriodEnd,
		inv.Subtotal, inv.VATRate, inv.VATAmount, inv.Total, inv.Notes, inv.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Invoice{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Invoice{}, models.ErrInvoiceNotFound
	}

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, inv.ID); err != nil {
		return models.Invoice{}, err
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if err := r.insertItem(ctx, &inv.Items[i]); err != nil {
			return models.Invoice{}, err
		}
	}
	return inv, nil
}

// ApplyTransition persists a status change with its timestamp side effects,
// guarded on the previous status.
func (r *InvoiceRepository) ApplyTransition(ctx context.Context, scope Scope, inv models.Invoice, fromStatus string) error {
	query := `UPDATE invoices SET status = ?, sent_at = ?, paid_at = ?, payment_method = ?, updated_at = NOW()
	          WHERE id = ? AND status = ?`
	args := []any{inv.Status, inv.SentAt, inv.PaidAt, inv.PaymentMethod, inv.ID, fromStatus}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *InvoiceRepository) DeleteInvoice(ctx context.Context, scope Scope, id int) error {
	query := `DELETE FROM invoices WHERE id = ? AND status = 'draft'`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrInvoiceNotFound
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, id)
	return err
}

// SweepOverdue flips every sent invoice whose due date lies before the
// given day start to overdue, across all users. Date-only comparison: an
// invoice due earlier today is not yet overdue.
func (r *InvoiceRepository) SweepOverdue(ctx context.Context, startOfToday time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE invoices SET status = 'overdue', updated_at = NOW() WHERE status = 'sent' AND due_at < ?`, startOfToday)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
