package repositories

import (
	"context"
	"errors"

	"pixelnote/apperr"
	"pixelnote/models"

	"gorm.io/gorm"
)

type IAuthRepository interface {
	CreateUser(ctx context.Context, user models.User) (uint, error)
	FindUser(ctx context.Context, email string) (*models.User, error)
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) IAuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, user models.User) (uint, error) {
	result := r.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return 0, apperr.ErrDuplicateIdentity
		}
		return 0, translate(result.Error)
	}
	return user.ID, nil
}

// FindUser matches the email exactly, case included.
func (r *AuthRepository) FindUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		err := translate(result.Error)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnknownIdentity
		}
		return nil, err
	}
	return &user, nil
}
