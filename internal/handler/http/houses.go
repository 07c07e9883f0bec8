package http

import (
	"encoding/json"
	"net/http"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

func (h *Handler) createHouse(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var house models.House
	if err := json.NewDecoder(r.Body).Decode(&house); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Houses.CreateHouse(r.Context(), principal, &house); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, house, http.StatusCreated)
}

func (h *Handler) getHouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "houseID")
	if !ok {
		return
	}

	house, err := h.services.Houses.GetHouse(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, house, http.StatusOK)
}

func (h *Handler) listHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.services.Houses.ListHouses(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, houses, http.StatusOK)
}

func (h *Handler) updateHouse(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "houseID")
	if !ok {
		return
	}

	var patch models.HousePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Houses.UpdateHouse(r.Context(), principal, id, patch); err != nil {
		respondError(w, r, err)
		return
	}

	house, err := h.services.Houses.GetHouse(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, house, http.StatusOK)
}

func (h *Handler) deleteHouse(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "houseID")
	if !ok {
		return
	}

	if err := h.services.Houses.DeleteHouse(r.Context(), principal, id); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
