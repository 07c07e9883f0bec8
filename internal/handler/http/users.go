package http

import (
	"encoding/json"
	"net/http"

	"github.com/oakstead/careledger/internal/logger"
	"github.com/oakstead/careledger/internal/utils"
	"github.com/oakstead/careledger/models"
)

// principalFrom retrieves the authenticated caller placed in the context by
// the auth middleware. A false return means the response has already been
// written; it only happens when a route is wired outside the auth group by
// mistake.
func principalFrom(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return models.Principal{}, false
	}
	return principal, true
}

type createUserRequest struct {
	models.User
	Password string `json:"password"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Users.CreateUser(ctx, principal, &req.User, req.Password); err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, req.User, http.StatusCreated)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.services.Users.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	users, err := h.services.Users.ListUsers(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

type changeRoleRequest struct {
	Role models.Role `json:"role"`
}

func (h *Handler) changeUserRole(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.Users.ChangeUserRole(r.Context(), principal, id, req.Role); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
