package service

import (
	"github.com/oakstead/careledger/internal/blob"
	"github.com/oakstead/careledger/internal/config"
	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/mail"
	"github.com/oakstead/careledger/internal/metrics"
	"github.com/oakstead/careledger/internal/store"
	"github.com/oakstead/careledger/internal/utils"
)

// Services bundles every service behind one constructor so the HTTP layer
// receives a single dependency.
type Services struct {
	Auth      AuthService
	Users     UserService
	Houses    HouseService
	Clients   ClientService
	Incidents IncidentService
	Notes     NoteService
	Documents DocumentService
}

// Deps carries the infrastructure the services are built on.
type Deps struct {
	Storages *store.Storages
	Blob     blob.Store
	Mail     mail.Sender
	Metrics  *metrics.Metrics
	Config   *config.StructuredConfig
	Logger   *logger.Logger

	// Clock defaults to [SystemClock] when nil.
	Clock Clock
}

// NewServices wires all services over the shared dependencies.
func NewServices(deps Deps) *Services {
	deps.Logger.Debug().Msg("creating services")

	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	uuidGen := utils.NewUUIDGenerator()

	return &Services{
		Auth:      NewAuthService(deps.Storages.Users, deps.Mail, deps.Config.App, uuidGen, deps.Clock, deps.Logger),
		Users:     NewUserService(deps.Storages.Users, deps.Clock, deps.Logger),
		Houses:    NewHouseService(deps.Storages.Houses, deps.Clock, deps.Logger),
		Clients:   NewClientService(deps.Storages.Clients, deps.Clock, deps.Logger),
		Incidents: NewIncidentService(deps.Storages.Incidents, deps.Clock, deps.Logger),
		Notes:     NewNoteService(deps.Storages.Notes, deps.Metrics, deps.Clock, deps.Logger),
		Documents: NewDocumentService(deps.Storages.Documents, deps.Blob, deps.Config.Blob, uuidGen, deps.Clock, deps.Logger),
	}
}
