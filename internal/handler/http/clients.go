package http

import (
	"encoding/json"
	"net/http"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Clients.CreateClient(r.Context(), principal, &client); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, client, http.StatusCreated)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	client, err := h.services.Clients.GetClient(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, client, http.StatusOK)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.services.Clients.ListClients(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, clients, http.StatusOK)
}

func (h *Handler) listClientsByHouse(w http.ResponseWriter, r *http.Request) {
	houseID, ok := pathID(w, r, "houseID")
	if !ok {
		return
	}

	clients, err := h.services.Clients.ListClientsByHouse(r.Context(), houseID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, clients, http.StatusOK)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var patch models.ClientPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Clients.UpdateClient(r.Context(), principal, id, patch); err != nil {
		respondError(w, r, err)
		return
	}

	client, err := h.services.Clients.GetClient(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, client, http.StatusOK)
}

type assignHouseRequest struct {
	HouseID int64 `json:"houseId"`
}

func (h *Handler) assignClientToHouse(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	var req assignHouseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Clients.AssignClientToHouse(r.Context(), principal, clientID, req.HouseID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) detachClientFromHouse(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}

	if err := h.services.Clients.DetachClientFromHouse(r.Context(), principal, clientID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
