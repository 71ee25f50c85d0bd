// Package access computes which locations an actor may read or mutate.
// Every quantity read and every ledger write goes through a Resolver instead
// of checking roles ad hoc.
package access

import (
	"context"
	"fmt"
	"sort"

	"github.com/tair/field-inventory/internal/inventory/domain"
	"github.com/tair/field-inventory/pkg/logger"
)

// Scope is the set of locations an actor is authorized for
type Scope struct {
	All bool
	ids map[uint]struct{}
}

// NewScope builds a restricted scope from location ids
func NewScope(ids []uint) Scope {
	s := Scope{ids: make(map[uint]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// FullScope returns the scope of an elevated actor
func FullScope() Scope {
	return Scope{All: true}
}

// Contains checks if a location is in scope
func (s Scope) Contains(locationID uint) bool {
	if s.All {
		return true
	}
	_, ok := s.ids[locationID]
	return ok
}

// IDs returns the restricted ids in ascending order; nil for a full scope.
func (s Scope) IDs() []uint {
	if s.All {
		return nil
	}
	ids := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CachedScope is a member scope tagged with the permission version it was read at
type CachedScope struct {
	Version     uint64 `json:"version"`
	LocationIDs []uint `json:"location_ids"`
}

// ScopeCache stores member location ids between requests. Implementations
// must never serve or store a scope older than the latest invalidation.
type ScopeCache interface {
	Get(ctx context.Context, userID uint) ([]uint, bool)
	// Set stores scope unless an invalidation for a newer version was seen
	Set(ctx context.Context, userID uint, scope CachedScope)
	// Invalidate drops the cached scope and fences out writes below version
	Invalidate(ctx context.Context, userID uint, version uint64)
}

// Resolver resolves access scopes against the location directory
type Resolver struct {
	cache ScopeCache
}

// NewResolver creates a resolver; cache may be nil
func NewResolver(cache ScopeCache) *Resolver {
	return &Resolver{cache: cache}
}

// AuthorizedLocations returns the read scope of actor. Member scopes may be
// served from the cache.
func (r *Resolver) AuthorizedLocations(ctx context.Context, tx domain.Tx, actor domain.Actor) (Scope, error) {
	if actor.IsElevated() {
		return FullScope(), nil
	}
	if r.cache == nil {
		ids, err := tx.Locations().LocationIDsForUser(ctx, actor.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("failed to load location permissions: %w", err)
		}
		return NewScope(ids), nil
	}
	if ids, ok := r.cache.Get(ctx, actor.UserID); ok {
		return NewScope(ids), nil
	}

	// The version is read before the ids: a grant or revoke committing in
	// between leaves the ids newer than the version, never older.
	version, err := tx.Locations().ScopeVersion(ctx, actor.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to load scope version: %w", err)
	}
	ids, err := tx.Locations().LocationIDsForUser(ctx, actor.UserID)
	if err != nil {
		return Scope{}, fmt.Errorf("failed to load location permissions: %w", err)
	}
	r.cache.Set(ctx, actor.UserID, CachedScope{Version: version, LocationIDs: ids})
	return NewScope(ids), nil
}

// RequireLocations fails with ErrUnauthorized unless actor may mutate every
// location. It always reads the directory inside tx, never the cache.
func (r *Resolver) RequireLocations(ctx context.Context, tx domain.Tx, actor domain.Actor, locationIDs ...uint) error {
	if actor.IsElevated() {
		return nil
	}
	ids, err := tx.Locations().LocationIDsForUser(ctx, actor.UserID)
	if err != nil {
		return fmt.Errorf("failed to load location permissions: %w", err)
	}
	scope := NewScope(ids)
	for _, id := range locationIDs {
		if !scope.Contains(id) {
			logger.Warn(ctx).
				Uint("user_id", actor.UserID).
				Uint("location_id", id).
				Msg("Location access denied")
			return fmt.Errorf("%w: user %d may not operate on location %d", domain.ErrUnauthorized, actor.UserID, id)
		}
	}
	return nil
}

// RequireElevated fails with ErrUnauthorized for non-privileged actors
func RequireElevated(actor domain.Actor, action string) error {
	if !actor.IsElevated() {
		return fmt.Errorf("%w: %s requires an admin or owner role", domain.ErrUnauthorized, action)
	}
	return nil
}

// AccessibleQuantities sums stock per item over the actor's scope. Elevated
// actors get the true totals.
func (r *Resolver) AccessibleQuantities(ctx context.Context, tx domain.Tx, actor domain.Actor, itemIDs []uint) (map[uint]int, error) {
	scope, err := r.AuthorizedLocations(ctx, tx, actor)
	if err != nil {
		return nil, err
	}
	locationIDs := scope.IDs()
	if !scope.All && locationIDs == nil {
		locationIDs = []uint{}
	}
	totals, err := tx.Stock().SumByItems(ctx, itemIDs, locationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}
	return totals, nil
}

// AccessibleQuantity is AccessibleQuantities for a single item
func (r *Resolver) AccessibleQuantity(ctx context.Context, tx domain.Tx, actor domain.Actor, itemID uint) (int, error) {
	totals, err := r.AccessibleQuantities(ctx, tx, actor, []uint{itemID})
	if err != nil {
		return 0, err
	}
	return totals[itemID], nil
}

// Invalidate drops the cached scope of userID after a permission change
// committed at version
func (r *Resolver) Invalidate(ctx context.Context, userID uint, version uint64) {
	if r.cache != nil {
		r.cache.Invalidate(ctx, userID, version)
	}
}
