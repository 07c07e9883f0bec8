package service

import (
	"context"
	"fmt"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/models"
)

// clientService implements [ClientService].
type clientService struct {
	clients store.ClientRepository
	clock   Clock
	logger  *logger.Logger
}

// NewClientService constructs a [ClientService].
func NewClientService(clients store.ClientRepository, clock Clock, log *logger.Logger) ClientService {
	log.Debug().Msg("creating client service")
	return &clientService{
		clients: clients,
		clock:   clock,
		logger:  log,
	}
}

func (s *clientService) CreateClient(ctx context.Context, principal models.Principal, client *models.Client) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if client.FirstName == "" || client.LastName == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrValidation)
	}
	if client.DateOfBirth.IsZero() {
		return fmt.Errorf("%w: dateOfBirth is required", ErrValidation)
	}
	if client.DateOfBirth.After(s.clock()) {
		return fmt.Errorf("%w: dateOfBirth cannot be in the future", ErrValidation)
	}

	client.CreatedAt = s.clock()
	return s.clients.SaveClient(ctx, client)
}

func (s *clientService) GetClient(ctx context.Context, id int64) (models.Client, error) {
	return s.clients.GetClient(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context) ([]models.Client, error) {
	return s.clients.ListClients(ctx)
}

func (s *clientService) ListClientsByHouse(ctx context.Context, houseID int64) ([]models.Client, error) {
	return s.clients.ListClientsByHouse(ctx, houseID)
}

func (s *clientService) UpdateClient(ctx context.Context, principal models.Principal, id int64, patch models.ClientPatch) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if patch.FirstName != nil && *patch.FirstName == "" {
		return fmt.Errorf("%w: firstName cannot be emptied", ErrValidation)
	}
	if patch.LastName != nil && *patch.LastName == "" {
		return fmt.Errorf("%w: lastName cannot be emptied", ErrValidation)
	}
	if patch.DateOfBirth != nil && patch.DateOfBirth.After(s.clock()) {
		return fmt.Errorf("%w: dateOfBirth cannot be in the future", ErrValidation)
	}

	return s.clients.UpdateClient(ctx, id, patch, s.clock())
}

func (s *clientService) AssignClientToHouse(ctx context.Context, principal models.Principal, clientID, houseID int64) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}
	if houseID <= 0 {
		return fmt.Errorf("%w: houseId is required", ErrValidation)
	}

	return s.clients.AssignClientToHouse(ctx, clientID, houseID, s.clock())
}

func (s *clientService) DetachClientFromHouse(ctx context.Context, principal models.Principal, clientID int64) error {
	if !principal.IsAdmin() {
		return ErrForbidden
	}

	return s.clients.DetachClientFromHouse(ctx, clientID, s.clock())
}
