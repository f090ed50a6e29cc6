package repositories

import (
	"context"
	"database/sql"
	"errors"

	"fibuBack/internal/models"
)

type ProjectRepository struct {
	DB DBTX
}

const projectColumns = `id, user_id, client_id, title, description, type, fixed_price, hourly_rate, status,
	offer_valid_until, offer_sent_at, offer_accepted_at, start_date, end_date, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.UserID, &p.ClientID, &p.Title, &p.Description, &p.Type, &p.FixedPrice, &p.HourlyRate,
		&p.Status, &p.OfferValidUntil, &p.OfferSentAt, &p.OfferAcceptedAt, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProjectRepository) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	query := `INSERT INTO projects (user_id, client_id, title, description, type, fixed_price, hourly_rate, status,
	          offer_valid_until, start_date, end_date, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())`
	res, err := r.DB.ExecContext(ctx, query, project.UserID, project.ClientID, project.Title, project.Description,
		project.Type, project.FixedPrice, project.HourlyRate, project.Status, project.OfferValidUntil,
		project.StartDate, project.EndDate)
	if err != nil {
		return models.Project{}, err
	}
	id, _ := res.LastInsertId()
	project.ID = int(id)

	for i := range project.Items {
		project.Items[i].ProjectID = project.ID
		if err := r.insertItem(ctx, &project.Items[i]); err != nil {
			return models.Project{}, err
		}
	}
	return project, nil
}

func (r *ProjectRepository) insertItem(ctx context.Context, item *models.ProjectItem) error {
	query := `INSERT INTO project_items (project_id, description, quantity, unit, unit_price, position)
	          VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, item.ProjectID, item.Description, item.Quantity, item.Unit, item.UnitPrice, item.Position)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	item.ID = int(id)
	return nil
}

func (r *ProjectRepository) GetProjectByID(ctx context.Context, scope Scope, id int) (models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	p, err := scanProject(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.ErrProjectNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	p.Items, err = r.loadItems(ctx, p.ID)
	return p, err
}

func (r *ProjectRepository) loadItems(ctx context.Context, projectID int) ([]models.ProjectItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, project_id, description, quantity, unit, unit_price, position FROM project_items WHERE project_id = ? ORDER BY position`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ProjectItem
	for rows.Next() {
		var item models.ProjectItem
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.Description, &item.Quantity, &item.Unit, &item.UnitPrice, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ProjectRepository) GetProjects(ctx context.Context, scope Scope) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE 1 = 1`
	var args []any
	clause, scopeArgs := scope.and("user_id")
	query += clause + ` ORDER BY created_at DESC`
	args = append(args, scopeArgs...)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject saves the editable fields. Status and the transition
// timestamps are owned by ApplyTransition.
func (r *ProjectRepository) UpdateProject(ctx context.Context, scope Scope, project models.Project) (models.Project, error) {
	query := `UPDATE projects SET client_id = ?, title = ?, description = ?, type = ?, fixed_price = ?, hourly_rate = ?,
	          offer_valid_until = ?, start_date = ?, end_date = ?, updated_at = NOW() WHERE id = ?`
	args := []any{project.ClientID, project.Title, project.Description, project.Type, project.FixedPrice,
		project.HourlyRate, project.OfferValidUntil, project.StartDate, project.EndDate, project.ID}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Project{}, err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.Project{}, models.ErrProjectNotFound
	}
	return project, nil
}

// ReplaceItems swaps the full ordered item list of a project.
func (r *ProjectRepository) ReplaceItems(ctx context.Context, projectID int, items []models.ProjectItem) ([]models.ProjectItem, error) {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM project_items WHERE project_id = ?`, projectID); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ProjectID = projectID
		if err := r.insertItem(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// ApplyTransition persists a status change together with its timestamp side
// effects, guarded optimistically on the previous status so concurrent
// writers cannot double-fire a transition.
func (r *ProjectRepository) ApplyTransition(ctx context.Context, scope Scope, project models.Project, fromStatus string) error {
	query := `UPDATE projects SET status = ?, offer_sent_at = ?, offer_accepted_at = ?, start_date = ?, end_date = ?, updated_at = NOW()
	          WHERE id = ? AND status = ?`
	args := []any{project.Status, project.OfferSentAt, project.OfferAcceptedAt, project.StartDate, project.EndDate, project.ID, fromStatus}
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

func (r *ProjectRepository) DeleteProject(ctx context.Context, scope Scope, id int) error {
	query := `DELETE FROM projects WHERE id = ?`
	args := []any{id}
	clause, scopeArgs := scope.and("user_id")
	query += clause
	args = append(args, scopeArgs...)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return models.ErrProjectNotFound
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM project_items WHERE project_id = ?`, id)
	return err
}
