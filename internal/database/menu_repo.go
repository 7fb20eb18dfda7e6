package database

import (
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"gusto/internal/models"
)

// ErrNotFound signals a missing record.
var ErrNotFound = errors.New("record not found")

// MenuRepository supplies menu items to the ordering engine and backs
// the admin CRUD surface. The engine receives a fresh snapshot on every
// call and never caches it.
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a repository over an open connection.
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListItems returns available menu items, optionally filtered by
// restaurant. restaurantID 0 means all restaurants.
func (r *MenuRepository) ListItems(restaurantID uint) ([]models.MenuItem, error) {
	query := r.db.Where("is_available = ?", true)
	if restaurantID != 0 {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	var records []models.MenuItemRecord
	if err := query.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	items := make([]models.MenuItem, len(records))
	for i := range records {
		items[i] = records[i].ToMenuItem()
	}
	return items, nil
}

// GetItem returns one menu item by id.
func (r *MenuRepository) GetItem(id uint) (*models.MenuItem, error) {
	var record models.MenuItemRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	item := record.ToMenuItem()
	return &item, nil
}

// CreateItem validates and persists a new menu item.
func (r *MenuRepository) CreateItem(record *models.MenuItemRecord) error {
	if err := models.ValidateMenuItem(record); err != nil {
		return err
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

// UpdateItem validates and saves changes to an existing menu item.
func (r *MenuRepository) UpdateItem(record *models.MenuItemRecord) error {
	if err := models.ValidateMenuItem(record); err != nil {
		return err
	}
	if err := r.db.Save(record).Error; err != nil {
		return fmt.Errorf("failed to update menu item %d: %w", record.ID, err)
	}
	return nil
}

// GetItemRecord loads the raw record for admin edits.
func (r *MenuRepository) GetItemRecord(id uint) (*models.MenuItemRecord, error) {
	var record models.MenuItemRecord
	if err := r.db.First(&record, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get menu item %d: %w", id, err)
	}
	return &record, nil
}

// DeleteItem removes a menu item.
func (r *MenuRepository) DeleteItem(id uint) error {
	result := r.db.Delete(&models.MenuItemRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete menu item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRestaurants returns active restaurants.
func (r *MenuRepository) ListRestaurants() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := r.db.Where("is_active = ?", true).Order("id").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	return restaurants, nil
}

// CreateRestaurant persists a new restaurant.
func (r *MenuRepository) CreateRestaurant(restaurant *models.Restaurant) error {
	if restaurant.Name == "" {
		return fmt.Errorf("restaurant name is required")
	}
	if err := r.db.Create(restaurant).Error; err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}
	return nil
}

// GetRestaurant returns one restaurant by id.
func (r *MenuRepository) GetRestaurant(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant %d: %w", id, err)
	}
	return &restaurant, nil
}
