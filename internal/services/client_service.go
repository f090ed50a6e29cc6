package services

import (
	"context"

	"fibuBack/internal/models"
	"fibuBack/internal/repositories"
)

type ClientService struct {
	ClientRepo *repositories.ClientRepository
}

func newClientServiceTx(db repositories.DBTX) *ClientService {
	return &ClientService{ClientRepo: &repositories.ClientRepository{DB: db}}
}

func (s *ClientService) CreateClient(ctx context.Context, client models.Client) (models.Client, error) {
	if client.Type == "" {
		client.Type = models.ClientTypeIndividual
	}
	if client.Type != models.ClientTypeCompany && client.Type != models.ClientTypeIndividual {
		return models.Client{}, models.NewAPIError(models.CodeValidation, "client type must be company or individual")
	}
	return s.ClientRepo.CreateClient(ctx, client)
}

func (s *ClientService) GetClientByID(ctx context.Context, scope repositories.Scope, id int) (models.Client, error) {
	return s.ClientRepo.GetClientByID(ctx, scope, id)
}

func (s *ClientService) GetClients(ctx context.Context, scope repositories.Scope) ([]models.Client, error) {
	return s.ClientRepo.GetClients(ctx, scope)
}

func (s *ClientService) UpdateClient(ctx context.Context, scope repositories.Scope, client models.Client) (models.Client, error) {
	if client.Type != models.ClientTypeCompany && client.Type != models.ClientTypeIndividual {
		return models.Client{}, models.NewAPIError(models.CodeValidation, "client type must be company or individual")
	}
	return s.ClientRepo.UpdateClient(ctx, scope, client)
}

// DeleteClient soft-deletes a client. Clients still referenced by projects
// or invoices cannot be removed; the check runs here at the API boundary,
// not in the data layer.
func (s *ClientService) DeleteClient(ctx context.Context, scope repositories.Scope, id int) error {
	if _, err := s.ClientRepo.GetClientByID(ctx, scope, id); err != nil {
		return err
	}
	referenced, err := s.ClientRepo.HasBillingRecords(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return models.NewAPIError(models.CodeValidation,
			"client has projects or invoices and cannot be deleted",
			"archive or reassign the client's projects and invoices first")
	}
	return s.ClientRepo.SoftDeleteClient(ctx, scope, id)
}
