package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the Field Inventory Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListCatalog godoc
// @Summary List the catalog
// @Description Every item with the quantity the caller can reach. Admins and owners also get total_quantity.
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches SKU, alternate SKU, EAN, name or description"
// @Param category_id query int false "Category ID"
// @Param limit query int false "Limit (default 10, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/items [get]
func (h *InventoryHandler) ListCatalogDoc() {}

// ListAvailableStock godoc
// @Summary List available stock
// @Description Like the catalog, but members only see items with stock in their locations
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param search query string false "Search"
// @Param category_id query int false "Category ID"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/items/available [get]
func (h *InventoryHandler) ListAvailableStockDoc() {}

// ListLowStock godoc
// @Summary List low stock
// @Description Monitored items whose total is below the threshold (Admin/Owner only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/items/low-stock [get]
func (h *InventoryHandler) ListLowStockDoc() {}

// CreateItem godoc
// @Summary Create item
// @Description Create a catalog item (Admin/Owner only). Quantities are placed separately.
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{sku=string,name=string,description=string,ean=string,alternate_sku=string,price=string,low_stock_threshold=int,monitored=bool,category_ids=[]int} true "Item data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/items [post]
func (h *InventoryHandler) CreateItemDoc() {}

// GetItem godoc
// @Summary Get item
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/items/{id} [get]
func (h *InventoryHandler) GetItemDoc() {}

// UpdateItem godoc
// @Summary Update item
// @Description Partial update (Admin/Owner only). total_quantity is rejected.
// @Tags Items
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{sku=string,name=string,price=string,monitored=bool} true "Changed fields"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/items/{id} [patch]
func (h *InventoryHandler) UpdateItemDoc() {}

// DeleteItem godoc
// @Summary Delete item
// @Description Refused while any location still holds the item (Admin/Owner only)
// @Tags Items
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/items/{id} [delete]
func (h *InventoryHandler) DeleteItemDoc() {}

// GetItemStock godoc
// @Summary Per-location stock
// @Description Quantities of the item in each location the caller is authorized for
// @Tags Stock
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/items/{id}/stock [get]
func (h *InventoryHandler) GetItemStockDoc() {}

// PlaceStock godoc
// @Summary Place stock
// @Description Add quantity to a storage location
// @Tags Stock
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{location_id=int,quantity=int,details=string} true "Placement"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/items/{id}/place [post]
func (h *InventoryHandler) PlaceStockDoc() {}

// TransferStock godoc
// @Summary Transfer stock
// @Description Move quantity between two locations atomically
// @Tags Stock
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{from_location_id=int,to_location_id=int,quantity=int,details=string} true "Transfer"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /api/items/{id}/transfer [post]
func (h *InventoryHandler) TransferStockDoc() {}

// WriteOffStock godoc
// @Summary Write off stock
// @Description Remove damaged or missing quantity with a reason (Admin/Owner only)
// @Tags Stock
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param request body object{location_id=int,quantity=int,reason=string} true "Write-off"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/items/{id}/write-off [post]
func (h *InventoryHandler) WriteOffStockDoc() {}

// ListAuditLog godoc
// @Summary Item audit trail
// @Description Newest first, limited to the caller's locations
// @Tags Audit
// @Security BearerAuth
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/items/{id}/audit [get]
func (h *InventoryHandler) ListAuditLogDoc() {}

// ListLocations godoc
// @Summary List locations
// @Tags Locations
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/locations [get]
func (h *InventoryHandler) ListLocationsDoc() {}

// CreateLocation godoc
// @Summary Create location
// @Description kind is storage (default) or consumption (Admin/Owner only)
// @Tags Locations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,kind=string} true "Location"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Router /api/locations [post]
func (h *InventoryHandler) CreateLocationDoc() {}

// GetLocationPermissions godoc
// @Summary Users granted a location
// @Tags Locations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Location ID"
// @Success 200 {object} object{success=bool,data=object{user_ids=[]int}}
// @Router /api/locations/{id}/permissions [get]
func (h *InventoryHandler) GetLocationPermissionsDoc() {}

// AddLocationPermission godoc
// @Summary Grant a location
// @Tags Locations
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Location ID"
// @Param request body object{user_id=int} true "User"
// @Success 200 {object} object{success=bool,data=object{user_ids=[]int}}
// @Router /api/locations/{id}/permissions [post]
func (h *InventoryHandler) AddLocationPermissionDoc() {}

// RemoveLocationPermission godoc
// @Summary Revoke a location
// @Tags Locations
// @Security BearerAuth
// @Produce json
// @Param id path int true "Location ID"
// @Param user_id path int true "User ID"
// @Success 200 {object} object{success=bool,data=object{user_ids=[]int}}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/locations/{id}/permissions/{user_id} [delete]
func (h *InventoryHandler) RemoveLocationPermissionDoc() {}

// ListPickingOrders godoc
// @Summary List picking orders
// @Tags Picking
// @Security BearerAuth
// @Produce json
// @Param scope query string false "mine (default) or all"
// @Success 200 {object} object{success=bool,data=object{uncompleted=array,completed=array}}
// @Router /api/picking-orders [get]
func (h *InventoryHandler) ListPickingOrdersDoc() {}

// CreatePickingOrder godoc
// @Summary Request material
// @Tags Picking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{destination_location_id=int,source_location_id=int,notes=string,items=array} true "Order"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Router /api/picking-orders [post]
func (h *InventoryHandler) CreatePickingOrderDoc() {}

// FulfillPickingOrder godoc
// @Summary Fulfill picking order
// @Description Moves every picked line in one transaction and completes the order
// @Tags Picking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body object{lines=array} true "Picked lines"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/picking-orders/{id}/fulfill [post]
func (h *InventoryHandler) FulfillPickingOrderDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
