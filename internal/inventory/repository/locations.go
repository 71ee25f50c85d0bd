package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/field-inventory/internal/inventory/domain"
)

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) Create(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *GormLocationRepository) Update(ctx context.Context, location *domain.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *GormLocationRepository) FindByID(ctx context.Context, id uint) (*domain.Location, error) {
	var location domain.Location
	if err := r.db.WithContext(ctx).First(&location, id).Error; err != nil {
		return nil, notFound(err, "location", id)
	}
	return &location, nil
}

func (r *GormLocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	err := r.db.WithContext(ctx).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *GormLocationRepository) ListPermissions(ctx context.Context, locationID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).Model(&domain.LocationPermission{}).
		Where("location_id = ?", locationID).
		Order("user_id").
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}

func (r *GormLocationRepository) AddPermission(ctx context.Context, locationID, userID uint) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.LocationPermission{LocationID: locationID, UserID: userID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}
	return r.bumpScopeVersion(ctx, userID)
}

func (r *GormLocationRepository) RemovePermission(ctx context.Context, locationID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("location_id = ? AND user_id = ?", locationID, userID).
		Delete(&domain.LocationPermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d has no permission on location %d", domain.ErrNotFound, userID, locationID)
	}
	return r.bumpScopeVersion(ctx, userID)
}

func (r *GormLocationRepository) bumpScopeVersion(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"version":    gorm.Expr("scope_versions.version + 1"),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(&domain.ScopeVersion{UserID: userID, Version: 1}).Error
}

func (r *GormLocationRepository) ScopeVersion(ctx context.Context, userID uint) (uint64, error) {
	var versions []domain.ScopeVersion
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&versions).Error
	if err != nil || len(versions) == 0 {
		return 0, err
	}
	return versions[0].Version, nil
}

func (r *GormLocationRepository) LocationIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.LocationPermission{}).
		Where("user_id = ?", userID).
		Order("location_id").
		Pluck("location_id", &ids).Error
	return ids, err
}
