package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tair/field-inventory/internal/inventory/usecase/command"
	"github.com/tair/field-inventory/internal/inventory/usecase/query"
)

type createItemRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	EAN               *string         `json:"ean"`
	AlternateSKU      *string         `json:"alternate_sku"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold *int            `json:"low_stock_threshold"`
	Monitored         bool            `json:"monitored"`
	CategoryIDs       []uint          `json:"category_ids"`
}

type updateItemRequest struct {
	SKU               *string          `json:"sku"`
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	EAN               *string          `json:"ean"`
	AlternateSKU      *string          `json:"alternate_sku"`
	Price             *decimal.Decimal `json:"price"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	Monitored         *bool            `json:"monitored"`
	CategoryIDs       *[]uint          `json:"category_ids"`
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListCatalog handles GET /api/items
func (h *InventoryHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, false)
}

// ListAvailableStock handles GET /api/items/available
func (h *InventoryHandler) ListAvailableStock(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, true)
}

func (h *InventoryHandler) listItems(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, r, err)
		return
	}
	categoryID, err := queryInt(r, "category_id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.queries.ListItems.Handle(r.Context(), query.ListItemsQuery{
		Actor:         ActorFromContext(r.Context()),
		Search:        r.URL.Query().Get("search"),
		CategoryID:    uint(categoryID),
		Limit:         limit,
		Offset:        offset,
		AvailableOnly: availableOnly,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// ListLowStock handles GET /api/items/low-stock
func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListLowStock.Handle(r.Context(), query.ListLowStockQuery{
		Actor: ActorFromContext(r.Context()),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    items,
	})
}

// GetItem handles GET /api/items/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.queries.GetItem.Handle(r.Context(), query.GetItemQuery{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    item,
	})
}

// CreateItem handles POST /api/items
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.commands.CreateItem.Handle(r.Context(), command.CreateItemCommand{
		Actor:             ActorFromContext(r.Context()),
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		EAN:               req.EAN,
		AlternateSKU:      req.AlternateSKU,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
		Monitored:         req.Monitored,
		CategoryIDs:       req.CategoryIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Item created successfully",
		Data:    item,
	})
}

// UpdateItem handles PATCH /api/items/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.commands.UpdateItem.Handle(r.Context(), command.UpdateItemCommand{
		Actor:             ActorFromContext(r.Context()),
		ID:                id,
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		EAN:               req.EAN,
		AlternateSKU:      req.AlternateSKU,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
		Monitored:         req.Monitored,
		CategoryIDs:       req.CategoryIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item updated successfully",
		Data:    item,
	})
}

// DeleteItem handles DELETE /api/items/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.commands.DeleteItem.Handle(r.Context(), command.DeleteItemCommand{
		Actor: ActorFromContext(r.Context()),
		ID:    id,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Item deleted successfully",
	})
}

// ListAuditLog handles GET /api/items/{id}/audit
func (h *InventoryHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	entries, err := h.queries.ListAuditLog.Handle(r.Context(), query.ListAuditLogQuery{
		Actor:  ActorFromContext(r.Context()),
		ItemID: id,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// ListCategories handles GET /api/categories
func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories.Handle(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    categories,
	})
}

// CreateCategory handles POST /api/categories
func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	category, err := h.commands.CreateCategory.Handle(r.Context(), command.CreateCategoryCommand{
		Actor:       ActorFromContext(r.Context()),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}
