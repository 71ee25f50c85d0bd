package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type itemRepo struct{ st *state }

func (r *itemRepo) Create(_ context.Context, item *domain.InventoryItem) error {
	for _, existing := range r.st.items {
		if existing.SKU == item.SKU {
			return fmt.Errorf("%w: sku %q already exists", domain.ErrValidation, item.SKU)
		}
	}
	now := time.Now()
	item.ID = r.st.nextID()
	item.CreatedAt, item.UpdatedAt = now, now
	r.st.items[item.ID] = copyItem(*item)
	return nil
}

func (r *itemRepo) Update(_ context.Context, item *domain.InventoryItem) error {
	if current, ok := r.st.items[item.ID]; !ok || current.DeletedAt.Valid {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, item.ID)
	}
	for id, existing := range r.st.items {
		if id != item.ID && existing.SKU == item.SKU {
			return fmt.Errorf("%w: sku %q already exists", domain.ErrValidation, item.SKU)
		}
	}
	item.UpdatedAt = time.Now()
	r.st.items[item.ID] = copyItem(*item)
	return nil
}

// Delete soft deletes like gorm: the row keeps its SKU reserved and stays
// referenced by stock, picking and audit rows.
func (r *itemRepo) Delete(_ context.Context, id uint) error {
	item, ok := r.st.items[id]
	if !ok || item.DeletedAt.Valid {
		return fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	item.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.st.items[id] = item
	return nil
}

func (r *itemRepo) FindByID(_ context.Context, id uint) (*domain.InventoryItem, error) {
	item, ok := r.st.items[id]
	if !ok || item.DeletedAt.Valid {
		return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, id)
	}
	item = copyItem(item)
	return &item, nil
}

func (r *itemRepo) FindBySKU(_ context.Context, sku string) (*domain.InventoryItem, error) {
	for _, item := range r.st.items {
		if item.SKU == sku && !item.DeletedAt.Valid {
			item = copyItem(item)
			return &item, nil
		}
	}
	return nil, fmt.Errorf("%w: item with sku %s", domain.ErrNotFound, sku)
}

func (r *itemRepo) FindAll(_ context.Context, filter domain.ItemFilter) ([]domain.InventoryItem, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	items := make([]domain.InventoryItem, 0, len(r.st.items))
	for _, item := range r.st.items {
		if item.DeletedAt.Valid {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if filter.CategoryID != 0 && !hasCategory(item, filter.CategoryID) {
			continue
		}
		if filter.InStockAt != nil && !r.inStock(item.ID, filter.InStockAt) {
			continue
		}
		items = append(items, copyItem(item))
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].ID < items[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []domain.InventoryItem{}, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *itemRepo) inStock(itemID uint, locationIDs []uint) bool {
	for _, locationID := range locationIDs {
		if r.st.stock[domain.StockKey{ItemID: itemID, LocationID: locationID}].Quantity > 0 {
			return true
		}
	}
	return false
}

func matchesSearch(item domain.InventoryItem, search string) bool {
	fields := []string{item.SKU, item.Name}
	if item.EAN != nil {
		fields = append(fields, *item.EAN)
	}
	if item.AlternateSKU != nil {
		fields = append(fields, *item.AlternateSKU)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func hasCategory(item domain.InventoryItem, categoryID uint) bool {
	for _, c := range item.Categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

type categoryRepo struct{ st *state }

func (r *categoryRepo) Create(_ context.Context, category *domain.Category) error {
	for _, existing := range r.st.categories {
		if existing.Name == category.Name {
			return fmt.Errorf("%w: category %q already exists", domain.ErrValidation, category.Name)
		}
	}
	now := time.Now()
	category.ID = r.st.nextID()
	category.CreatedAt, category.UpdatedAt = now, now
	r.st.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.Category, error) {
	categories := []domain.Category{}
	for _, id := range ids {
		if c, ok := r.st.categories[id]; ok {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *categoryRepo) FindAll(_ context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(r.st.categories))
	for _, c := range r.st.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

type locationRepo struct{ st *state }

func (r *locationRepo) Create(_ context.Context, location *domain.Location) error {
	for _, existing := range r.st.locations {
		if existing.Name == location.Name {
			return fmt.Errorf("%w: location %q already exists", domain.ErrValidation, location.Name)
		}
	}
	if location.Kind == "" {
		location.Kind = domain.LocationStorage
	}
	now := time.Now()
	location.ID = r.st.nextID()
	location.CreatedAt, location.UpdatedAt = now, now
	r.st.locations[location.ID] = *location
	return nil
}

func (r *locationRepo) Update(_ context.Context, location *domain.Location) error {
	if _, ok := r.st.locations[location.ID]; !ok {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, location.ID)
	}
	for id, existing := range r.st.locations {
		if id != location.ID && existing.Name == location.Name {
			return fmt.Errorf("%w: location %q already exists", domain.ErrValidation, location.Name)
		}
	}
	location.UpdatedAt = time.Now()
	r.st.locations[location.ID] = *location
	return nil
}

func (r *locationRepo) FindByID(_ context.Context, id uint) (*domain.Location, error) {
	location, ok := r.st.locations[id]
	if !ok {
		return nil, fmt.Errorf("%w: location %d", domain.ErrNotFound, id)
	}
	return &location, nil
}

func (r *locationRepo) FindAll(_ context.Context) ([]domain.Location, error) {
	locations := make([]domain.Location, 0, len(r.st.locations))
	for _, l := range r.st.locations {
		locations = append(locations, l)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].Name < locations[j].Name })
	return locations, nil
}

func (r *locationRepo) ListPermissions(_ context.Context, locationID uint) ([]uint, error) {
	userIDs := []uint{}
	for k := range r.st.permissions {
		if k.locationID == locationID {
			userIDs = append(userIDs, k.userID)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	return userIDs, nil
}

func (r *locationRepo) AddPermission(_ context.Context, locationID, userID uint) error {
	if _, ok := r.st.locations[locationID]; !ok {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, locationID)
	}
	key := permissionKey{locationID: locationID, userID: userID}
	if _, ok := r.st.permissions[key]; !ok {
		r.st.permissions[key] = time.Now()
		r.st.scopeVersions[userID]++
	}
	return nil
}

func (r *locationRepo) RemovePermission(_ context.Context, locationID, userID uint) error {
	key := permissionKey{locationID: locationID, userID: userID}
	if _, ok := r.st.permissions[key]; !ok {
		return fmt.Errorf("%w: user %d has no permission on location %d", domain.ErrNotFound, userID, locationID)
	}
	delete(r.st.permissions, key)
	r.st.scopeVersions[userID]++
	return nil
}

func (r *locationRepo) ScopeVersion(_ context.Context, userID uint) (uint64, error) {
	return r.st.scopeVersions[userID], nil
}

func (r *locationRepo) LocationIDsForUser(_ context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	for k := range r.st.permissions {
		if k.userID == userID {
			ids = append(ids, k.locationID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type stockRepo struct{ st *state }

func (r *stockRepo) LockForUpdate(_ context.Context, keys []domain.StockKey) (map[domain.StockKey]*domain.LocationStock, error) {
	keys = domain.SortStockKeys(keys)
	result := make(map[domain.StockKey]*domain.LocationStock, len(keys))
	for _, k := range keys {
		row, ok := r.st.stock[k]
		if !ok {
			if _, exists := r.st.items[k.ItemID]; !exists {
				return nil, fmt.Errorf("%w: item %d", domain.ErrNotFound, k.ItemID)
			}
			if _, exists := r.st.locations[k.LocationID]; !exists {
				return nil, fmt.Errorf("%w: location %d", domain.ErrNotFound, k.LocationID)
			}
			row = domain.LocationStock{ItemID: k.ItemID, LocationID: k.LocationID, UpdatedAt: time.Now()}
			r.st.stock[k] = row
		}
		locked := row
		result[k] = &locked
	}
	return result, nil
}

func (r *stockRepo) Save(_ context.Context, stock *domain.LocationStock) error {
	key := domain.StockKey{ItemID: stock.ItemID, LocationID: stock.LocationID}
	if _, ok := r.st.stock[key]; !ok {
		return fmt.Errorf("%w: stock row item %d location %d", domain.ErrNotFound, stock.ItemID, stock.LocationID)
	}
	if stock.Quantity < 0 {
		return fmt.Errorf("%w: constraint chk_location_stock_quantity violated", domain.ErrInvalidOperation)
	}
	stock.UpdatedAt = time.Now()
	r.st.stock[key] = *stock
	return nil
}

func (r *stockRepo) FindByItem(_ context.Context, itemID uint) ([]domain.LocationStock, error) {
	rows := []domain.LocationStock{}
	for k, row := range r.st.stock {
		if k.ItemID == itemID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LocationID < rows[j].LocationID })
	return rows, nil
}

func (r *stockRepo) SumByItems(_ context.Context, itemIDs []uint, locationIDs []uint) (map[uint]int, error) {
	totals := make(map[uint]int, len(itemIDs))
	wantItem := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		wantItem[id] = true
	}
	var wantLocation map[uint]bool
	if locationIDs != nil {
		wantLocation = make(map[uint]bool, len(locationIDs))
		for _, id := range locationIDs {
			wantLocation[id] = true
		}
	}

	for k, row := range r.st.stock {
		if !wantItem[k.ItemID] {
			continue
		}
		if wantLocation != nil && !wantLocation[k.LocationID] {
			continue
		}
		totals[k.ItemID] += row.Quantity
	}
	return totals, nil
}

func (r *stockRepo) CountNonZeroByItem(_ context.Context, itemID uint) (int64, error) {
	var count int64
	for k, row := range r.st.stock {
		if k.ItemID == itemID && row.Quantity > 0 {
			count++
		}
	}
	return count, nil
}

type pickingRepo struct{ st *state }

func (r *pickingRepo) Create(_ context.Context, order *domain.PickingOrder) error {
	if _, ok := r.st.locations[order.DestinationLocationID]; !ok {
		return fmt.Errorf("%w: location %d", domain.ErrNotFound, order.DestinationLocationID)
	}
	now := time.Now()
	order.ID = r.st.nextID()
	order.CreatedAt, order.UpdatedAt = now, now
	if order.Status == "" {
		order.Status = domain.PickingNew
	}
	for i := range order.Items {
		order.Items[i].ID = r.st.nextID()
		order.Items[i].PickingOrderID = order.ID
	}
	r.st.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *pickingRepo) FindByID(_ context.Context, id uint) (*domain.PickingOrder, error) {
	order, ok := r.st.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: picking order %d", domain.ErrNotFound, id)
	}
	order = copyOrder(order)
	return &order, nil
}

// FindByIDForUpdate needs no extra locking: the whole store is held by the transaction.
func (r *pickingRepo) FindByIDForUpdate(ctx context.Context, id uint) (*domain.PickingOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *pickingRepo) Update(_ context.Context, order *domain.PickingOrder) error {
	if _, ok := r.st.orders[order.ID]; !ok {
		return fmt.Errorf("%w: picking order %d", domain.ErrNotFound, order.ID)
	}
	order.UpdatedAt = time.Now()
	r.st.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *pickingRepo) FindAll(_ context.Context, filter domain.PickingOrderFilter) ([]domain.PickingOrder, error) {
	orders := []domain.PickingOrder{}
	for _, order := range r.st.orders {
		if filter.UserID != nil && !order.Involves(*filter.UserID) {
			continue
		}
		orders = append(orders, copyOrder(order))
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

type auditRepo struct{ st *state }

func (r *auditRepo) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	entry.ID = r.st.nextID()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	r.st.audit = append(r.st.audit, *entry)
	return nil
}

func (r *auditRepo) FindByItem(_ context.Context, itemID uint) ([]domain.AuditLogEntry, error) {
	entries := []domain.AuditLogEntry{}
	for _, e := range r.st.audit {
		if e.InventoryItemID != nil && *e.InventoryItemID == itemID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}
