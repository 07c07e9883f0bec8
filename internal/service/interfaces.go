package service

import (
	"context"
	"io"
	"time"

	"github.com/oakstead/careledger/models"
)

// AuthService authenticates staff and manages session and password-reset
// tokens.
type AuthService interface {
	// Login verifies credentials and issues a signed session token.
	Login(ctx context.Context, email, password string) (models.Token, error)

	// ParseToken validates a compact token string and returns its claims.
	ParseToken(tokenString string) (models.Token, error)

	// RequestPasswordReset issues a reset token and emails it to the user.
	// Unknown emails are not reported to the caller.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset exchanges a valid reset token for a new password.
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

// UserService manages staff accounts. Mutations require an administrative
// principal.
type UserService interface {
	CreateUser(ctx context.Context, principal models.Principal, user *models.User, password string) error
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context, principal models.Principal) ([]models.User, error)
	ChangeUserRole(ctx context.Context, principal models.Principal, id int64, role models.Role) error
}

// HouseService manages residences. Reads are open to all staff; mutations
// require an administrative principal.
type HouseService interface {
	CreateHouse(ctx context.Context, principal models.Principal, house *models.House) error
	GetHouse(ctx context.Context, id int64) (models.House, error)
	ListHouses(ctx context.Context) ([]models.House, error)
	UpdateHouse(ctx context.Context, principal models.Principal, id int64, patch models.HousePatch) error
	DeleteHouse(ctx context.Context, principal models.Principal, id int64) error
}

// ClientService manages clients and their house assignment. Reads are open
// to all staff; mutations require an administrative principal.
type ClientService interface {
	CreateClient(ctx context.Context, principal models.Principal, client *models.Client) error
	GetClient(ctx context.Context, id int64) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	ListClientsByHouse(ctx context.Context, houseID int64) ([]models.Client, error)
	UpdateClient(ctx context.Context, principal models.Principal, id int64, patch models.ClientPatch) error
	AssignClientToHouse(ctx context.Context, principal models.Principal, clientID, houseID int64) error
	DetachClientFromHouse(ctx context.Context, principal models.Principal, clientID int64) error
}

// IncidentService runs the incident lifecycle. Any staff member can report,
// escalate and close; reviews require an administrative principal.
type IncidentService interface {
	ReportIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id int64) (models.Incident, error)
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	EscalateIncident(ctx context.Context, id int64, escalatedTo string) error
	CloseIncident(ctx context.Context, id int64, closedBy string) error
	ReviewIncident(ctx context.Context, principal models.Principal, review *models.IncidentReview) error
}

// NoteService owns the versioned note catalog. Every update and delete is
// guarded: the caller echoes back the lastUpdatedAt watermark it last read,
// and the mutation is accepted only when the stored watermark still matches.
type NoteService interface {
	CreateBowelNote(ctx context.Context, note *models.BowelNote) error
	GetBowelNote(ctx context.Context, id int64) (models.BowelNote, error)
	ListBowelNotes(ctx context.Context, clientID int64) ([]models.BowelNote, error)
	UpdateBowelNote(ctx context.Context, id int64, patch models.BowelNotePatch, observed time.Time) (models.BowelNote, error)
	DeleteBowelNote(ctx context.Context, id int64, observed time.Time) error

	CreateFoodDiaryNote(ctx context.Context, note *models.FoodDiaryNote) error
	GetFoodDiaryNote(ctx context.Context, id int64) (models.FoodDiaryNote, error)
	ListFoodDiaryNotes(ctx context.Context, clientID int64, reportDate time.Time) ([]models.FoodDiaryNote, error)
	UpdateFoodDiaryNote(ctx context.Context, id int64, patch models.FoodDiaryNotePatch, observed time.Time) (models.FoodDiaryNote, error)
	DeleteFoodDiaryNote(ctx context.Context, id int64, observed time.Time) error

	CreateNightReport(ctx context.Context, report *models.NightReport) error
	GetNightReport(ctx context.Context, id int64) (models.NightReport, error)
	ListNightReports(ctx context.Context, clientID int64) ([]models.NightReport, error)
	UpdateNightReport(ctx context.Context, id int64, patch models.NightReportPatch, observed time.Time) (models.NightReport, error)

	CreateSleepTrackerNote(ctx context.Context, note *models.SleepTrackerNote) error
	GetSleepTrackerNote(ctx context.Context, id int64) (models.SleepTrackerNote, error)
	ListSleepTrackerNotes(ctx context.Context, clientID int64) ([]models.SleepTrackerNote, error)
	UpdateSleepTrackerNote(ctx context.Context, id int64, patch models.SleepTrackerNotePatch, observed time.Time) (models.SleepTrackerNote, error)

	CreateCaseNote(ctx context.Context, note *models.CaseNote) error
	GetCaseNote(ctx context.Context, id int64) (models.CaseNote, error)
	ListCaseNotes(ctx context.Context, clientID int64) ([]models.CaseNote, error)
	UpdateCaseNote(ctx context.Context, id int64, patch models.CaseNotePatch, observed time.Time) (models.CaseNote, error)
	DeleteCaseNote(ctx context.Context, id int64, observed time.Time) error
}

// DocumentService stores uploaded documents and photos: bytes in the object
// store, metadata in the database.
type DocumentService interface {
	Upload(ctx context.Context, principal models.Principal, doc *models.Document, content io.Reader) error
	Get(ctx context.Context, id int64) (models.Document, error)
	List(ctx context.Context, clientID int64, category models.DocumentCategory) ([]models.Document, error)

	// DownloadURL returns a time-limited signed URL for the document's
	// content.
	DownloadURL(ctx context.Context, id int64) (string, error)

	Delete(ctx context.Context, principal models.Principal, id int64) error
}
