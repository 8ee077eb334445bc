package services

import (
	"context"

	"pixelnote/apperr"
	"pixelnote/dto"
	"pixelnote/models"
	"pixelnote/repositories"
)

type IItemService interface {
	Variant() models.Variant
	FindAll(ctx context.Context, userID uint) ([]models.Item, error)
	FindById(ctx context.Context, itemID uint, userID uint) (*models.Item, error)
	Create(ctx context.Context, createItemInput dto.CreateItemInput, userID uint) (*models.Item, error)
	Update(ctx context.Context, itemID uint, userID uint, updateItemInput dto.UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, itemID uint, userID uint) error
}

type ItemService struct {
	repository repositories.IItemRepository
}

func NewItemService(repository repositories.IItemRepository) IItemService {
	return &ItemService{repository: repository}
}

func (s *ItemService) Variant() models.Variant {
	return s.repository.Variant()
}

func (s *ItemService) FindAll(ctx context.Context, userID uint) ([]models.Item, error) {
	return s.repository.FindAll(ctx, userID)
}

func (s *ItemService) FindById(ctx context.Context, itemID uint, userID uint) (*models.Item, error) {
	return s.repository.FindById(ctx, itemID, userID)
}

func (s *ItemService) Create(ctx context.Context, createItemInput dto.CreateItemInput, userID uint) (*models.Item, error) {
	variant := s.Variant()
	fields := createItemInput.Fields()

	newItem := models.Item{UserID: userID}
	if fields.Title != nil {
		newItem.Title = *fields.Title
	}
	if fields.Content != nil {
		newItem.Content = *fields.Content
	}
	if variant.Allows(models.FieldDate) {
		newItem.Date = fields.Date
	}
	if variant.Allows(models.FieldImage) {
		newItem.Image = fields.Image
	}
	return s.repository.Create(ctx, newItem)
}

// Update applies only the fields present in the input that the variant
// allows. Nothing left to apply is an ErrNoOpUpdate, checked before the
// store is touched.
func (s *ItemService) Update(ctx context.Context, itemID uint, userID uint, updateItemInput dto.UpdateItemInput) (*models.Item, error) {
	updates := s.Variant().Updates(updateItemInput.Fields())
	if len(updates) == 0 {
		return nil, apperr.ErrNoOpUpdate
	}
	return s.repository.Update(ctx, itemID, userID, updates)
}

func (s *ItemService) Delete(ctx context.Context, itemID uint, userID uint) error {
	return s.repository.Delete(ctx, itemID, userID)
}
