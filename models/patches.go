package models

import "time"

// Patch structs describe partial updates to versioned notes. A nil field
// means "leave the stored value alone"; a non-nil field overwrites it.
// Each note type gets its own explicit struct so the null-vs-absent
// semantics stay auditable and statically checkable. There is no
// reflective field copying anywhere.

// BowelNotePatch is a partial update to a BowelNote.
type BowelNotePatch struct {
	RecordedAt  *time.Time `json:"recordedAt,omitempty"`
	BristolType *int       `json:"bristolType,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

// FoodDiaryNotePatch is a partial update to a FoodDiaryNote. The owning
// client, report date and meal type are identity, not content, and cannot be
// patched.
type FoodDiaryNotePatch struct {
	Food  *string `json:"food,omitempty"`
	Drink *string `json:"drink,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// NightReportPatch is a partial update to a NightReport.
type NightReportPatch struct {
	HourlyChecks *string `json:"hourlyChecks,omitempty"`
	SleepQuality *string `json:"sleepQuality,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// SleepTrackerNotePatch is a partial update to a SleepTrackerNote.
type SleepTrackerNotePatch struct {
	BedTime   *time.Time `json:"bedTime,omitempty"`
	WakeTime  *time.Time `json:"wakeTime,omitempty"`
	WakeCount *int       `json:"wakeCount,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
}

// CaseNotePatch is a partial update to a CaseNote.
type CaseNotePatch struct {
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
	Category   *string    `json:"category,omitempty"`
	Content    *string    `json:"content,omitempty"`
}

// HousePatch is a partial update to a House.
type HousePatch struct {
	Name        *string `json:"name,omitempty"`
	AddressLine *string `json:"addressLine,omitempty"`
	Postcode    *string `json:"postcode,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// ClientPatch is a partial update to a Client. House assignment is a
// separate operation (assign/detach), not a patch field, so that "set to
// null" never has to be encoded through JSON pointer semantics.
type ClientPatch struct {
	FirstName      *string    `json:"firstName,omitempty"`
	LastName       *string    `json:"lastName,omitempty"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	SupportPlanRef *string    `json:"supportPlanRef,omitempty"`
}
