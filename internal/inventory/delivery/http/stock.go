package http

import (
	"net/http"

	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
)

type placeStockRequest struct {
	LocationID uint   `json:"location_id"`
	Quantity   int    `json:"quantity"`
	Details    string `json:"details"`
}

type transferStockRequest struct {
	FromLocationID uint   `json:"from_location_id"`
	ToLocationID   uint   `json:"to_location_id"`
	Quantity       int    `json:"quantity"`
	Details        string `json:"details"`
}

type writeOffRequest struct {
	LocationID uint   `json:"location_id"`
	Quantity   int    `json:"quantity"`
	Reason     string `json:"reason"`
}

// GetItemStock handles GET /api/items/{id}/stock
func (h *InventoryHandler) GetItemStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows, err := h.queries.GetItemStock.Handle(r.Context(), query.GetItemStockQuery{
		Actor:  ActorFromContext(r.Context()),
		ItemID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    rows,
	})
}

// PlaceStock handles POST /api/items/{id}/place
func (h *InventoryHandler) PlaceStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req placeStockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	row, err := h.commands.PlaceStock.Handle(r.Context(), command.PlaceStockCommand{
		Actor:      ActorFromContext(r.Context()),
		ItemID:     id,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Details:    req.Details,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock placed successfully",
		Data:    row,
	})
}

// TransferStock handles POST /api/items/{id}/transfer
func (h *InventoryHandler) TransferStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req transferStockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.commands.TransferStock.Handle(r.Context(), command.TransferStockCommand{
		Actor:          ActorFromContext(r.Context()),
		ItemID:         id,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		Details:        req.Details,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock transferred successfully",
		Data:    result,
	})
}

// WriteOffStock handles POST /api/items/{id}/write-off
func (h *InventoryHandler) WriteOffStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req writeOffRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	row, err := h.commands.WriteOffStock.Handle(r.Context(), command.WriteOffStockCommand{
		Actor:      ActorFromContext(r.Context()),
		ItemID:     id,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock written off successfully",
		Data:    row,
	})
}
