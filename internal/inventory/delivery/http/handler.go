package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
	"github.com/tair/field-inventory/pkg/logger"
)

// Commands groups the write side handlers
type Commands struct {
	CreateItem               *command.CreateItemHandler
	UpdateItem               *command.UpdateItemHandler
	DeleteItem               *command.DeleteItemHandler
	CreateCategory           *command.CreateCategoryHandler
	CreateLocation           *command.CreateLocationHandler
	UpdateLocation           *command.UpdateLocationHandler
	AddLocationPermission    *command.AddLocationPermissionHandler
	RemoveLocationPermission *command.RemoveLocationPermissionHandler
	PlaceStock               *command.PlaceStockHandler
	TransferStock            *command.TransferStockHandler
	WriteOffStock            *command.WriteOffStockHandler
	CreatePickingOrder       *command.CreatePickingOrderHandler
	StartPicking             *command.StartPickingHandler
	FulfillPickingOrder      *command.FulfillPickingOrderHandler
	CancelPickingOrder       *command.CancelPickingOrderHandler
}

// Queries groups the read side handlers
type Queries struct {
	GetItem                *query.GetItemHandler
	ListItems              *query.ListItemsHandler
	ListLowStock           *query.ListLowStockHandler
	GetItemStock           *query.GetItemStockHandler
	ListAuditLog           *query.ListAuditLogHandler
	ListCategories         *query.ListCategoriesHandler
	ListLocations          *query.ListLocationsHandler
	GetLocationPermissions *query.GetLocationPermissionsHandler
	ListPickingOrders      *query.ListPickingOrdersHandler
	GetPickingOrder        *query.GetPickingOrderHandler
}

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// InventoryHandler handles HTTP requests for the inventory service using CQRS pattern
type InventoryHandler struct {
	commands Commands
	queries  Queries
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(commands Commands, queries Queries) *InventoryHandler {
	return &InventoryHandler{commands: commands, queries: queries}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers all inventory routes behind the auth middleware
func (h *InventoryHandler) RegisterRoutes(router *mux.Router, auth func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth)

	api.HandleFunc("/items", h.ListCatalog).Methods("GET")
	api.HandleFunc("/items", h.CreateItem).Methods("POST")
	api.HandleFunc("/items/available", h.ListAvailableStock).Methods("GET")
	api.HandleFunc("/items/low-stock", h.ListLowStock).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", h.GetItem).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}", h.UpdateItem).Methods("PATCH")
	api.HandleFunc("/items/{id:[0-9]+}", h.DeleteItem).Methods("DELETE")
	api.HandleFunc("/items/{id:[0-9]+}/stock", h.GetItemStock).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}/audit", h.ListAuditLog).Methods("GET")
	api.HandleFunc("/items/{id:[0-9]+}/place", h.PlaceStock).Methods("POST")
	api.HandleFunc("/items/{id:[0-9]+}/transfer", h.TransferStock).Methods("POST")
	api.HandleFunc("/items/{id:[0-9]+}/write-off", h.WriteOffStock).Methods("POST")

	api.HandleFunc("/categories", h.ListCategories).Methods("GET")
	api.HandleFunc("/categories", h.CreateCategory).Methods("POST")

	api.HandleFunc("/locations", h.ListLocations).Methods("GET")
	api.HandleFunc("/locations", h.CreateLocation).Methods("POST")
	api.HandleFunc("/locations/{id:[0-9]+}", h.UpdateLocation).Methods("PATCH")
	api.HandleFunc("/locations/{id:[0-9]+}/permissions", h.GetLocationPermissions).Methods("GET")
	api.HandleFunc("/locations/{id:[0-9]+}/permissions", h.AddLocationPermission).Methods("POST")
	api.HandleFunc("/locations/{id:[0-9]+}/permissions/{user_id:[0-9]+}", h.RemoveLocationPermission).Methods("DELETE")

	api.HandleFunc("/picking-orders", h.ListPickingOrders).Methods("GET")
	api.HandleFunc("/picking-orders", h.CreatePickingOrder).Methods("POST")
	api.HandleFunc("/picking-orders/{id:[0-9]+}", h.GetPickingOrder).Methods("GET")
	api.HandleFunc("/picking-orders/{id:[0-9]+}/start", h.StartPicking).Methods("POST")
	api.HandleFunc("/picking-orders/{id:[0-9]+}/fulfill", h.FulfillPickingOrder).Methods("POST")
	api.HandleFunc("/picking-orders/{id:[0-9]+}/cancel", h.CancelPickingOrder).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, check HealthCheck) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := check(r.Context()); err != nil {
			logger.Error(r.Context()).Err(err).Msg("Health check failed")
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Inventory service is healthy",
		})
	}).Methods("GET")
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidOperation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrContention):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal errors are logged and hidden.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	switch status {
	case http.StatusInternalServerError:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request failed")
		message = "Internal server error"
	case http.StatusServiceUnavailable:
		logger.Warn(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request hit lock contention")
		w.Header().Set("Retry-After", "1")
	default:
		logger.Debug(r.Context()).Err(err).Int("status", status).Msg("Request rejected")
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decodeJSON rejects unknown fields so computed values like total_quantity
// cannot be written
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", domain.ErrValidation, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return uint(id), nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrValidation, name)
	}
	return v, nil
}
