package repositories

import (
	"context"
	"database/sql"
	"errors"

	"fibuBack/internal/models"
)

type ClientRepository struct {
	DB DBTX
}

const clientColumns = `id, user_id, type, company_name, first_name, last_name, email, phone, street, postal_code, city, country, vat_id, notes, created_at, updated_at, deleted_at`

func scanClient(row interface{ Scan(...any) error }) (models.Client, error) {
	var c models.Client
	err := row.Scan(&c.ID, &c.UserID, &c.Type, &c.CompanyName, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Street, &c.PostalCode, &c.City, &c.Country, &c.VATID, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

func (r *ClientRepository) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	query := `INSERT INTO clients (user_id, type, company_name, first_name, last_name, email, phone, street, postal_code, city, country, vat_id, notes, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, client.UserID, client.Type, client.CompanyName, client.FirstName, client.LastName,
		client.Email, client.Phone, client.Street, client.PostalCode, client.City, client.Country, client.VATID, client.Notes)
	if err != nil {
		return models.Client{}, err
	}
	id, _ := res.LastInsertId()
	client.ID = int(id)
	return client, nil
}

func (r *ClientRepository) GetClientByID(ctx context.Context, scope Scope, id int) (models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ? AND deleted_at IS NULL`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	c, err := scanClient(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, models.ErrClientNotFound
	}
	return c, err
}

func (r *ClientRepository) GetClients(ctx context.Context, scope Scope) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE deleted_at IS NULL`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY company_name, last_name, first_name`
	args = append(args, scopeArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepository) UpdateClient(ctx context.Context, scope Scope, client models.Client) (models.Client, error) {
	query := `UPDATE clients SET type = ?, company_name = ?, first_name = ?, last_name = ?, email = ?, phone = ?,
	          street = ?, postal_code = ?, city = ?, country = ?, vat_id = ?, notes = ?, updated_at = NOW()
	          WHERE id = ? AND deleted_at IS NULL`
	args := []any{client.Type, client.CompanyName, client.FirstName, client.LastName, client.Email, client.Phone,
		client.Street, client.PostalCode, client.City, client.Country, client.VATID, client.Notes, client.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Client{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Client{}, models.ErrClientNotFound
	}
	return client, nil
}

// SoftDeleteClient marks a client deleted without touching referencing
// projects or invoices.
func (r *ClientRepository) SoftDeleteClient(ctx context.Context, scope Scope, id int) error {
	query := `UPDATE clients SET deleted_at = NOW() WHERE id = ? AND deleted_at IS NULL`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrClientNotFound
	}
	return nil
}

// HasBillingRecords reports whether any project or invoice references the
// client. Deletion is blocked at the API boundary while this holds.
func (r *ClientRepository) HasBillingRecords(ctx context.Context, id int) (bool, error) {
	var count int
	query := `SELECT (SELECT COUNT(*) FROM projects WHERE client_id = ?) + (SELECT COUNT(*) FROM invoices WHERE client_id = ?)`
	if err := r.DB.QueryRowContext(ctx, query, id, id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
