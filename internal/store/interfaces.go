package store

import (
	"context"
	"time"

	"github.com/oakstead/careledger/models"
)

// UserRepository persists staff accounts and password-reset state.
type UserRepository interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role models.Role, stamp time.Time) error
	SetResetToken(ctx context.Context, userID int64, token string, expires time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string, stamp time.Time) error
}

// HouseRepository persists supported-accommodation residences.
type HouseRepository interface {
	SaveHouse(ctx context.Context, house *models.House) error
	GetHouse(ctx context.Context, id int64) (models.House, error)
	ListHouses(ctx context.Context) ([]models.House, error)
	UpdateHouse(ctx context.Context, id int64, patch models.HousePatch, stamp time.Time) error
	DeleteHouse(ctx context.Context, id int64) error
}

// ClientRepository persists support-service clients and their house
// assignment.
type ClientRepository interface {
	SaveClient(ctx context.Context, client *models.Client) error
	GetClient(ctx context.Context, id int64) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListClientsByHouse(ctx context.Context, houseID int64) ([]models.Client, error)
	UpdateClient(ctx context.Context, id int64, patch models.ClientPatch, stamp time.Time) error
	AssignClientToHouse(ctx context.Context, clientID, houseID int64, stamp time.Time) error
	DetachClientFromHouse(ctx context.Context, clientID int64, stamp time.Time) error
}

// IncidentRepository persists incidents and their reviews.
type IncidentRepository interface {
	SaveIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id int64) (models.Incident, error)
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	EscalateIncident(ctx context.Context, id int64, escalatedTo string, stamp time.Time) error
	CloseIncident(ctx context.Context, id int64, closedBy string, stamp time.Time) error
	SaveIncidentReview(ctx context.Context, review *models.IncidentReview) error
}

// NoteRepository persists the five versioned note types. All mutations are
// guarded by the lastUpdatedAt watermark: the caller passes the watermark it
// last observed plus the stamp for the new revision, and the update applies
// only when the stored watermark still matches.
type NoteRepository interface {
	SaveBowelNote(ctx context.Context, note *models.BowelNote) error
	GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error)
	ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error)
	UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, expected, stamp time.Time) error
	SoftDeleteBowelNote(ctx context.Context, id int64, expected, stamp time.Time) error

	SaveFoodDiaryNote(ctx context.Context, note *models.FoodDiaryNote) error
	GetFoodDiaryNote(ctx context.Context, id int64) (models.FoodDiaryNote, error)
	ListFoodDiaryNotes(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error)
	UpdateFoodDiaryNote(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, expected, stamp time.Time) error
	SoftDeleteFoodDiaryNote(ctx context.Context, id int64, expected, stamp time.Time) error

	SaveNightReport(ctx context.Context, report *models.NightReport) error
	GetNightReport(ctx context.Context, id int64) (models.NightReport, error)
	ListNightReports(ctx context.Context, clientID int64) ([]models.NightReport, error)
	UpdateNightReport(ctx context.Context, id int64, patch models.NightReportPatch, expected, stamp time.Time) error

	SaveSleepTrackerNote(ctx context.Context, note *models.SleepTrackerNote) error
	GetSleepTrackerNote(ctx context.Context, id int64) (models.SleepTrackerNote, error)
	ListSleepTrackerNotes(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error)
	UpdateSleepTrackerNote(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, expected, stamp time.Time) error

	SaveCaseNote(ctx context.Context, note *models.CaseNote) error
	GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error)
	ListCaseNotes(ctx context.Context, clientID int64) ([]models.CaseNote, error)
	UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, expected, stamp time.Time) error
	SoftDeleteCaseNote(ctx context.Context, id int64, expected, stamp time.Time) error
}

// DocumentRepository persists uploaded-document metadata. The binary content
// lives in the blob store.
type DocumentRepository interface {
	SaveDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id int64) (models.Document, error)
	ListDocuments(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}
