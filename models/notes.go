package models

import "time"

// WatermarkPrecision is the canonical precision of every lastUpdatedAt
// watermark. Timestamps are truncated to this precision before they are
// persisted and before they are compared, so the storage layer and the wire
// format always agree.
const WatermarkPrecision = time.Millisecond

// TruncWatermark normalises a timestamp to the canonical watermark precision.
func TruncWatermark(t time.Time) time.Time {
	return t.Truncate(WatermarkPrecision)
}

// MealType is the meal slot a food diary entry records.
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealSnack     MealType = "SNACK"
)

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// BowelNote records a single bowel movement observation for a client.
// Soft-deletable: rows are flagged, never removed.
type BowelNote struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	RecordedAt    time.Time `json:"recordedAt"`
	BristolType   int       `json:"bristolType"` // Bristol stool scale, 1..7
	Notes         string    `json:"notes,omitempty"`
	Deleted       bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// FoodDiaryNote records what a client ate and drank at one meal slot.
// At most one entry exists per (client, report date, meal type).
// Soft-deletable.
type FoodDiaryNote struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	ReportDate    time.Time `json:"reportDate"` // date only, midnight UTC
	MealType      MealType  `json:"mealType"`
	Food          string    `json:"food,omitempty"`
	Drink         string    `json:"drink,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Deleted       bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// NightReport is the overnight summary written by the sleepover staff member.
// At most one report exists per (client, report date).
type NightReport struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	ReportDate    time.Time `json:"reportDate"`
	HourlyChecks  string    `json:"hourlyChecks,omitempty"`
	SleepQuality  string    `json:"sleepQuality,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// SleepTrackerNote records bed time, wake time and overnight wake count for
// one night.
type SleepTrackerNote struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	ReportDate    time.Time `json:"reportDate"`
	BedTime       time.Time `json:"bedTime"`
	WakeTime      time.Time `json:"wakeTime"`
	WakeCount     int       `json:"wakeCount"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// CaseNote is a free-form dated note on a client's file. Soft-deletable.
type CaseNote struct {
	ID            int64     `json:"id"`
	ClientID      int64     `json:"clientId"`
	OccurredAt    time.Time `json:"occurredAt"`
	Category      string    `json:"category,omitempty"`
	Content       string    `json:"content"`
	Deleted       bool      `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
