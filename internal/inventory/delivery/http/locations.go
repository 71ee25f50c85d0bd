package http

import (
	"net/http"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
)

type createLocationRequest struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Kind        domain.LocationKind `json:"kind"`
}

type updateLocationRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Kind        *domain.LocationKind `json:"kind"`
}

type permissionRequest struct {
	UserID uint `json:"user_id"`
}

// ListLocations handles GET /api/locations
func (h *InventoryHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.queries.ListLocations.Handle(r.Context(), query.ListLocationsQuery{
		Actor: ActorFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    locations,
	})
}

// CreateLocation handles POST /api/locations
func (h *InventoryHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	location, err := h.commands.CreateLocation.Handle(r.Context(), command.CreateLocationCommand{
		Actor:       ActorFromContext(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Location created successfully",
		Data:    location,
	})
}

// UpdateLocation handles PATCH /api/locations/{id}
func (h *InventoryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	location, err := h.commands.UpdateLocation.Handle(r.Context(), command.UpdateLocationCommand{
		Actor:       ActorFromContext(r.Context()),
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Kind:        req.Kind,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Location updated successfully",
		Data:    location,
	})
}

// GetLocationPermissions handles GET /api/locations/{id}/permissions
func (h *InventoryHandler) GetLocationPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	userIDs, err := h.queries.GetLocationPermissions.Handle(r.Context(), query.GetLocationPermissionsQuery{
		Actor:      ActorFromContext(r.Context()),
		LocationID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string][]uint{"user_ids": userIDs},
	})
}

// AddLocationPermission handles POST /api/locations/{id}/permissions
func (h *InventoryHandler) AddLocationPermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req permissionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userIDs, err := h.commands.AddLocationPermission.Handle(r.Context(), command.LocationPermissionCommand{
		Actor:      ActorFromContext(r.Context()),
		LocationID: id,
		UserID:     req.UserID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Permission granted",
		Data:    map[string][]uint{"user_ids": userIDs},
	})
}

// RemoveLocationPermission handles DELETE /api/locations/{id}/permissions/{user_id}
func (h *InventoryHandler) RemoveLocationPermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	userIDs, err := h.commands.RemoveLocationPermission.Handle(r.Context(), command.LocationPermissionCommand{
		Actor:      ActorFromContext(r.Context()),
		LocationID: id,
		UserID:     userID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Permission revoked",
		Data:    map[string][]uint{"user_ids": userIDs},
	})
}
