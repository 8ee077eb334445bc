package repositories

import (
	"context"

	"pixelnote/apperr"
	"pixelnote/models"

	"gorm.io/gorm"
)

// IItemRepository stores items of a single variant. Every method is scoped
// to an owner; a row owned by someone else behaves as if it did not exist.
type IItemRepository interface {
	Variant() models.Variant
	FindAll(ctx context.Context, userID uint) ([]models.Item, error)
	FindById(ctx context.Context, itemID uint, userID uint) (*models.Item, error)
	Create(ctx context.Context, newItem models.Item) (*models.Item, error)
	Update(ctx context.Context, itemID uint, userID uint, updates map[string]interface{}) (*models.Item, error)
	Delete(ctx context.Context, itemID uint, userID uint) error
}

type ItemRepository struct {
	db      *gorm.DB
	variant models.Variant
}

func NewItemRepository(db *gorm.DB, variant models.Variant) IItemRepository {
	return &ItemRepository{db: db, variant: variant}
}

func (r *ItemRepository) Variant() models.Variant {
	return r.variant
}

func (r *ItemRepository) table(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.variant.Collection())
}

func (r *ItemRepository) tag(item *models.Item) *models.Item {
	item.Type = r.variant
	return item
}

func (r *ItemRepository) FindAll(ctx context.Context, userID uint) ([]models.Item, error) {
	items := []models.Item{}
	result := r.table(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&items)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	for i := range items {
		r.tag(&items[i])
	}
	return items, nil
}

func (r *ItemRepository) FindById(ctx context.Context, itemID uint, userID uint) (*models.Item, error) {
	var item models.Item
	result := r.table(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return r.tag(&item), nil
}

// Create inserts the item and reads the stored row back, so the caller
// sees exactly what a later FindById returns.
func (r *ItemRepository) Create(ctx context.Context, newItem models.Item) (*models.Item, error) {
	newItem.ID = 0
	result := r.table(ctx).Create(&newItem)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	return r.FindById(ctx, newItem.ID, newItem.UserID)
}

func (r *ItemRepository) Update(ctx context.Context, itemID uint, userID uint, updates map[string]interface{}) (*models.Item, error) {
	if len(updates) == 0 {
		return nil, apperr.ErrNoOpUpdate
	}

	result := r.table(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.ErrNotFound
	}

	return r.FindById(ctx, itemID, userID)
}

func (r *ItemRepository) Delete(ctx context.Context, itemID uint, userID uint) error {
	result := r.table(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.Item{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
