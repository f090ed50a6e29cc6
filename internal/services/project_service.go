package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"fibuBack/internal/fsm"
	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
	"fibuBack/internal/timeutil"
)

type ProjectService struct {
	ProjectRepo  *repositories.ProjectRepository
	ClientRepo   *repositories.ClientRepository
	EmailLogRepo *repositories.EmailLogRepository
	ErrorLog     *log.Logger
}

func newProjectServiceTx(db repositories.DBTX) *ProjectService {
	return &ProjectService{
		ProjectRepo:  &repositories.ProjectRepository{DB: db},
		ClientRepo:   &repositories.ClientRepository{DB: db},
		EmailLogRepo: &repositories.EmailLogRepository{DB: db},
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, project models.Project) (models.Project, error) {
	if project.Title == "" {
		return models.Project{}, models.NewAPIError(models.CodeValidation, "project title is required")
	}
	switch project.Type {
	case models.ProjectTypeFixed:
		if project.HourlyRate != nil {
			return models.Project{}, models.NewAPIError(models.CodeValidation, "fixed-price projects cannot carry an hourly rate")
		}
	case models.ProjectTypeHourly:
		if project.FixedPrice != nil {
			return models.Project{}, models.NewAPIError(models.CodeValidation, "hourly projects cannot carry a fixed price")
		}
	default:
		return models.Project{}, models.NewAPIError(models.CodeValidation, "project type must be fixed or hourly")
	}
	if _, err := s.ClientRepo.GetClientByID(ctx, repositories.ScopeUser(project.UserID), project.ClientID); err != nil {
		return models.Project{}, err
	}
	project.Status = fsm.ProjectDraft
	for i := range project.Items {
		if project.Items[i].Position == 0 {
			project.Items[i].Position = i + 1
		}
	}
	return s.ProjectRepo.CreateProject(ctx, project)
}

func (s *ProjectService) GetProjectByID(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	return s.ProjectRepo.GetProjectByID(ctx, scope, id)
}

func (s *ProjectService) GetProjects(ctx context.Context, scope repositories.Scope) ([]models.Project, error) {
	return s.ProjectRepo.GetProjects(ctx, scope)
}

func (s *ProjectService) UpdateProject(ctx context.Context, scope repositories.Scope, project models.Project) (models.Project, error) {
	current, err := s.ProjectRepo.GetProjectByID(ctx, scope, project.ID)
	if err != nil {
		return models.Project{}, err
	}
	project.UserID = current.UserID
	project.Status = current.Status
	if _, err := s.ProjectRepo.UpdateProject(ctx, scope, project); err != nil {
		return models.Project{}, err
	}
	if project.Items != nil {
		for i := range project.Items {
			if project.Items[i].Position == 0 {
				project.Items[i].Position = i + 1
			}
		}
		if project.Items, err = s.ProjectRepo.ReplaceItems(ctx, project.ID, project.Items); err != nil {
			return models.Project{}, err
		}
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, scope repositories.Scope, id int) error {
	return s.ProjectRepo.DeleteProject(ctx, scope, id)
}

// applyProjectTransition mutates the project per the named side effects of
// a status change, after validating it against the transition table. The
// optional explicit date overrides "now" for start/completion.
func applyProjectTransition(p *models.Project, target string, now time.Time, date *time.Time) error {
	if !fsm.IsProjectStatus(target) {
		return models.NewAPIError(models.CodeInvalidStatus, fmt.Sprintf("unknown project status %q", target))
	}
	if !fsm.ProjectCanTransition(p.Status, target) {
		return models.NewInvalidTransition("project", p.Status, target)
	}
	effective := now
	if date != nil {
		effective = *date
	}
	switch target {
	case fsm.ProjectSent:
		p.OfferSentAt = &now
	case fsm.ProjectAccepted:
		p.OfferAcceptedAt = &now
	case fsm.ProjectInProgress:
		if p.Status == fsm.ProjectCompleted {
			// Reopen: the project keeps running, the end date no longer holds.
			p.EndDate = nil
		} else {
			p.StartDate = &effective
		}
	case fsm.ProjectCompleted:
		p.EndDate = &effective
	}
	p.Status = target
	return nil
}

func (s *ProjectService) transition(ctx context.Context, scope repositories.Scope, id int, target string, date *time.Time) (models.Project, error) {
	p, err := s.ProjectRepo.GetProjectByID(ctx, scope, id)
	if err != nil {
		return models.Project{}, err
	}
	from := p.Status
	if err := applyProjectTransition(&p, target, timeutil.Now(), date); err != nil {
		return models.Project{}, err
	}
	if err := s.ProjectRepo.ApplyTransition(ctx, scope, p, from); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, models.NewInvalidTransition("project", from, target)
		}
		return models.Project{}, err
	}
	return p, nil
}

// SendOffer moves a draft offer to sent and queues the offer mail.
func (s *ProjectService) SendOffer(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	p, err := s.transition(ctx, scope, id, fsm.ProjectSent, nil)
	if err != nil {
		return models.Project{}, err
	}
	if client, err := s.ClientRepo.GetClientByID(ctx, scope, p.ClientID); err == nil && client.Email != "" {
		s.queueOfferMail(ctx, client, p)
	}
	return p, nil
}

// queueOfferMail records the offer mail for the dispatcher. A failed
// enqueue never fails the transition; it is logged and the offer stays
// sent.
func (s *ProjectService) queueOfferMail(ctx context.Context, client models.Client, p models.Project) {
	_, err := s.EmailLogRepo.Enqueue(ctx, models.EmailLog{
		UserID:       p.UserID,
		MailableType: models.MailableProject,
		MailableID:   p.ID,
		Recipient:    client.Email,
		Subject:      "Angebot: " + p.Title,
	})
	if err != nil && s.ErrorLog != nil {
		s.ErrorLog.Printf("queue offer mail for project %d: %v", p.ID, err)
	}
}

func (s *ProjectService) AcceptOffer(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	return s.transition(ctx, scope, id, fsm.ProjectAccepted, nil)
}

func (s *ProjectService) DeclineOffer(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	return s.transition(ctx, scope, id, fsm.ProjectDeclined, nil)
}

func (s *ProjectService) StartProject(ctx context.Context, scope repositories.Scope, id int, date *time.Time) (models.Project, error) {
	return s.transition(ctx, scope, id, fsm.ProjectInProgress, date)
}

func (s *ProjectService) CompleteProject(ctx context.Context, scope repositories.Scope, id int, date *time.Time) (models.Project, error) {
	return s.transition(ctx, scope, id, fsm.ProjectCompleted, date)
}

// ReopenProject is the single backward move in the machine: a completed
// project returns to in_progress and loses its end date.
func (s *ProjectService) ReopenProject(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	p, err := s.ProjectRepo.GetProjectByID(ctx, scope, id)
	if err != nil {
		return models.Project{}, err
	}
	if p.Status != fsm.ProjectCompleted {
		return models.Project{}, models.NewInvalidTransition("project", p.Status, fsm.ProjectInProgress)
	}
	return s.transition(ctx, scope, id, fsm.ProjectInProgress, nil)
}

func (s *ProjectService) CancelProject(ctx context.Context, scope repositories.Scope, id int) (models.Project, error) {
	return s.transition(ctx, scope, id, fsm.ProjectCancelled, nil)
}

// TransitionTo is the generic transition entry point used by the batch
// engine: it validates the target against the table and applies the same
// side effects as the named operations.
func (s *ProjectService) TransitionTo(ctx context.Context, scope repositories.Scope, id int, target string, date *time.Time) (models.Project, error) {
	if target == fsm.ProjectSent {
		return s.SendOffer(ctx, scope, id)
	}
	return s.transition(ctx, scope, id, target, date)
}
