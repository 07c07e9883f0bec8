package store

import "github.com/oakstead/careledger/internal/logger"

// Storages bundles every repository behind one constructor so the service
// layer receives a single dependency.
type Storages struct {
	Users     UserRepository
	Houses    HouseRepository
	Clients   ClientRepository
	Incidents IncidentRepository
	Notes     NoteRepository
	Documents DocumentRepository
}

// NewStorages constructs all repositories over the shared database
// connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	logger.Debug().Msg("creating storages")
	return &Storages{
		Users:     NewUserRepository(db, logger),
		Houses:    NewHouseRepository(db, logger),
		Clients:   NewClientRepository(db, logger),
		Incidents: NewIncidentRepository(db, logger),
		Notes:     NewNoteRepository(db, logger),
		Documents: NewDocumentRepository(db, logger),
	}
}
