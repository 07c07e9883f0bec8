package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// Guarded update requests carry the patch fields plus the watermark the
// caller observed when it last read the note. The server accepts the update
// only when the stored watermark still matches; otherwise the caller gets
// 409 and must re-read.

type bowelNoteUpdateRequest struct {
	models.BowelNotePatch
	CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
}

type foodDiaryNoteUpdateRequest struct {
	models.FoodDiaryNotePatch
	CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
}

type nightReportUpdateRequest struct {
	models.NightReportPatch
	CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
}

type sleepTrackerNoteUpdateRequest struct {
	models.SleepTrackerNotePatch
	CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
}

type caseNoteUpdateRequest struct {
	models.CaseNotePatch
	CurrentLastUpdatedAt time.Time `json:"currentLastUpdatedAt"`
}

// decodeJSON decodes the request body and writes 400 on malformed input. A
// false return means the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return false
	}
	return true
}

// ─────────────────────────────────────────────
// Bowel notes
// ─────────────────────────────────────────────

func (h *Handler) createBowelNote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var note models.BowelNote
	if !decodeJSON(w, r, &note) {
		return
	}
	note.ClientID = clientID

	if err := h.services.Notes.CreateBowelNote(r.Context(), &note); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

func (h *Handler) getBowelNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.services.Notes.GetBowelNote(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) listBowelNotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	notes, err := h.services.Notes.ListBowelNotes(r.Context(), clientID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) updateBowelNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req bowelNoteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.services.Notes.UpdateBowelNote(r.Context(), id, req.BowelNotePatch, req.CurrentLastUpdatedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteBowelNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}
	watermark, ok := queryWatermark(w, r)
	if !ok {
		return
	}

	if err := h.services.Notes.DeleteBowelNote(r.Context(), id, watermark); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Food diary notes
// ─────────────────────────────────────────────

func (h *Handler) createFoodDiaryNote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var note models.FoodDiaryNote
	if !decodeJSON(w, r, &note) {
		return
	}
	note.ClientID = clientID

	if err := h.services.Notes.CreateFoodDiaryNote(r.Context(), &note); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

func (h *Handler) getFoodDiaryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.services.Notes.GetFoodDiaryNote(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) listFoodDiaryNotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var reportDate time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		reportDate = parsed
	}

	notes, err := h.services.Notes.ListFoodDiaryNotes(r.Context(), clientID, reportDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) updateFoodDiaryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req foodDiaryNoteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.services.Notes.UpdateFoodDiaryNote(r.Context(), id, req.FoodDiaryNotePatch, req.CurrentLastUpdatedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteFoodDiaryNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}
	watermark, ok := queryWatermark(w, r)
	if !ok {
		return
	}

	if err := h.services.Notes.DeleteFoodDiaryNote(r.Context(), id, watermark); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Night reports
// ─────────────────────────────────────────────

func (h *Handler) createNightReport(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var report models.NightReport
	if !decodeJSON(w, r, &report) {
		return
	}
	report.ClientID = clientID

	if err := h.services.Notes.CreateNightReport(r.Context(), &report); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, report, http.StatusCreated)
}

func (h *Handler) getNightReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	report, err := h.services.Notes.GetNightReport(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

func (h *Handler) listNightReports(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	reports, err := h.services.Notes.ListNightReports(r.Context(), clientID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, reports, http.StatusOK)
}

func (h *Handler) updateNightReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req nightReportUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.services.Notes.UpdateNightReport(r.Context(), id, req.NightReportPatch, req.CurrentLastUpdatedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

// ─────────────────────────────────────────────
// Sleep tracker notes
// ─────────────────────────────────────────────

func (h *Handler) createSleepTrackerNote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var note models.SleepTrackerNote
	if !decodeJSON(w, r, &note) {
		return
	}
	note.ClientID = clientID

	if err := h.services.Notes.CreateSleepTrackerNote(r.Context(), &note); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

func (h *Handler) getSleepTrackerNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.services.Notes.GetSleepTrackerNote(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) listSleepTrackerNotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	notes, err := h.services.Notes.ListSleepTrackerNotes(r.Context(), clientID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) updateSleepTrackerNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req sleepTrackerNoteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.services.Notes.UpdateSleepTrackerNote(r.Context(), id, req.SleepTrackerNotePatch, req.CurrentLastUpdatedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

// ─────────────────────────────────────────────
// Case notes
// ─────────────────────────────────────────────

func (h *Handler) createCaseNote(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var note models.CaseNote
	if !decodeJSON(w, r, &note) {
		return
	}
	note.ClientID = clientID

	if err := h.services.Notes.CreateCaseNote(r.Context(), &note); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusCreated)
}

func (h *Handler) getCaseNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	note, err := h.services.Notes.GetCaseNote(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) listCaseNotes(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	notes, err := h.services.Notes.ListCaseNotes(r.Context(), clientID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, notes, http.StatusOK)
}

func (h *Handler) updateCaseNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}

	var req caseNoteUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.services.Notes.UpdateCaseNote(r.Context(), id, req.CaseNotePatch, req.CurrentLastUpdatedAt)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, note, http.StatusOK)
}

func (h *Handler) deleteCaseNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "noteID")
	if !ok {
		return
	}
	watermark, ok := queryWatermark(w, r)
	if !ok {
		return
	}

	if err := h.services.Notes.DeleteCaseNote(r.Context(), id, watermark); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
