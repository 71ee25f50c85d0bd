package http

import (
	"net/http"

	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
)

type pickingOrderItemRequest struct {
	InventoryItemID   *uint  `json:"inventory_item_id"`
	Description       string `json:"description"`
	RequestedQuantity int    `json:"requested_quantity"`
}

type createPickingOrderRequest struct {
	DestinationLocationID uint                      `json:"destination_location_id"`
	SourceLocationID      *uint                     `json:"source_location_id"`
	Notes                 string                    `json:"notes"`
	Items                 []pickingOrderItemRequest `json:"items"`
}

type fulfillLineRequest struct {
	PickingOrderItemID uint  `json:"picking_order_item_id"`
	PickedQuantity     int   `json:"picked_quantity"`
	SourceLocationID   *uint `json:"source_location_id"`
	InventoryItemID    *uint `json:"inventory_item_id"`
}

type fulfillPickingOrderRequest struct {
	Lines []fulfillLineRequest `json:"lines"`
}

// ListPickingOrders handles GET /api/picking-orders?scope=mine|all
func (h *InventoryHandler) ListPickingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.queries.ListPickingOrders.Handle(r.Context(), query.ListPickingOrdersQuery{
		Actor: ActorFromContext(r.Context()),
		Scope: r.URL.Query().Get("scope"),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    orders,
	})
}

// GetPickingOrder handles GET /api/picking-orders/{id}
func (h *InventoryHandler) GetPickingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.queries.GetPickingOrder.Handle(r.Context(), query.GetPickingOrderQuery{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    order,
	})
}

// CreatePickingOrder handles POST /api/picking-orders
func (h *InventoryHandler) CreatePickingOrder(w http.ResponseWriter, r *http.Request) {
	var req createPickingOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]command.PickingOrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = command.PickingOrderItemInput{
			InventoryItemID:   item.InventoryItemID,
			Description:       item.Description,
			RequestedQuantity: item.RequestedQuantity,
		}
	}

	order, err := h.commands.CreatePickingOrder.Handle(r.Context(), command.CreatePickingOrderCommand{
		Actor:                 ActorFromContext(r.Context()),
		DestinationLocationID: req.DestinationLocationID,
		SourceLocationID:      req.SourceLocationID,
		Notes:                 req.Notes,
		Items:                 items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Picking order created successfully",
		Data:    order,
	})
}

// StartPicking handles POST /api/picking-orders/{id}/start
func (h *InventoryHandler) StartPicking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.commands.StartPicking.Handle(r.Context(), command.StartPickingCommand{
		Actor:   ActorFromContext(r.Context()),
		OrderID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Picking started",
		Data:    order,
	})
}

// FulfillPickingOrder handles POST /api/picking-orders/{id}/fulfill
func (h *InventoryHandler) FulfillPickingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req fulfillPickingOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	lines := make([]command.FulfillLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = command.FulfillLine{
			PickingOrderItemID: line.PickingOrderItemID,
			PickedQuantity:     line.PickedQuantity,
			SourceLocationID:   line.SourceLocationID,
			InventoryItemID:    line.InventoryItemID,
		}
	}

	order, err := h.commands.FulfillPickingOrder.Handle(r.Context(), command.FulfillPickingOrderCommand{
		Actor:   ActorFromContext(r.Context()),
		OrderID: id,
		Lines:   lines,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Picking order fulfilled",
		Data:    order,
	})
}

// CancelPickingOrder handles POST /api/picking-orders/{id}/cancel
func (h *InventoryHandler) CancelPickingOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.commands.CancelPickingOrder.Handle(r.Context(), command.CancelPickingOrderCommand{
		Actor:   ActorFromContext(r.Context()),
		OrderID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Picking order cancelled",
		Data:    order,
	})
}
