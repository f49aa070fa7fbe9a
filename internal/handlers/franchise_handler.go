package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pizza-service/internal/middleware"
	"pizza-service/internal/models"
	"pizza-service/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type FranchiseHandler struct {
	franchiseService *services.FranchiseService
	logger           zerolog.Logger
}

func NewFranchiseHandler(franchiseService *services.FranchiseService, logger zerolog.Logger) *FranchiseHandler {
	return &FranchiseHandler{
		franchiseService: franchiseService,
		logger:           logger,
	}
}

// List handles GET /api/franchise. The listing is public.
func (h *FranchiseHandler) List(w http.ResponseWriter, r *http.Request) {
	franchises, err := h.franchiseService.List()
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, franchises)
}

// ListForUser handles GET /api/franchise/{userId}: the franchises the user
// administers. Callers may view their own; admins may view anyone's.
func (h *FranchiseHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}
	if user.ID != userID && !user.HasRole(models.RoleAdmin) {
		respondWithError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
		return
	}

	franchises, err := h.franchiseService.ListForUser(userID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, franchises)
}

// Create handles POST /api/franchise. Admin only, enforced by the router.
func (h *FranchiseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFranchiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	franchise, err := h.franchiseService.Create(&req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Franchise creation failed")
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, franchise)
}

// Delete handles DELETE /api/franchise/{id}. Admin only, enforced by the
// router.
func (h *FranchiseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_franchise_id", "Invalid franchise ID")
		return
	}

	if err := h.franchiseService.Delete(franchiseID); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "franchise deleted",
	})
}

// CreateStore handles POST /api/franchise/{id}/store. Allowed for platform
// admins and for admins of that franchise.
func (h *FranchiseHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	franchiseID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_franchise_id", "Invalid franchise ID")
		return
	}

	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}
	if !user.HasRole(models.RoleAdmin) && !user.IsFranchiseAdmin(franchiseID) {
		respondWithError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
		return
	}

	var req models.CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	store, err := h.franchiseService.CreateStore(franchiseID, req.Name)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, store)
}

// DeleteStore handles DELETE /api/franchise/{id}/store/{storeId}.
func (h *FranchiseHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	franchiseID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_franchise_id", "Invalid franchise ID")
		return
	}
	storeID, err := strconv.Atoi(vars["storeId"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_store_id", "Invalid store ID")
		return
	}

	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}
	if !user.HasRole(models.RoleAdmin) && !user.IsFranchiseAdmin(franchiseID) {
		respondWithError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
		return
	}

	if err := h.franchiseService.DeleteStore(franchiseID, storeID); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "store deleted",
	})
}
