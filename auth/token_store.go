package auth

import (
	"errors"

	"github.com/haku19602/beetlefactory-back/apperr"
	"github.com/haku19602/beetlefactory-back/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTokenStore keeps the session rows in the session_tokens table.
type gormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) TokenStore {
	return &gormTokenStore{db: db}
}

func (s *gormTokenStore) Insert(userID, token string) error {
	row := models.SessionToken{UserID: userID, Token: token}
	if err := s.db.Create(&row).Error; err != nil {
		return apperr.Unknown(err)
	}
	return nil
}

// Swap locks the slot row for the duration of the update so two concurrent
// rotations of the same token serialize.
func (s *gormTokenStore) Swap(userID, oldToken, newToken string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var row models.SessionToken
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND token = ?", userID, oldToken).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrInvalidToken
			}
			return apperr.Unknown(err)
		}
		if err := tx.Model(&models.SessionToken{}).Where("id = ?", row.ID).
			Update("token", newToken).Error; err != nil {
			return apperr.Unknown(err)
		}
		return nil
	})
}

func (s *gormTokenStore) DeleteByValue(userID, token string) error {
	if err := s.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.SessionToken{}).Error; err != nil {
		return apperr.Unknown(err)
	}
	return nil
}

func (s *gormTokenStore) Exists(userID, token string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.SessionToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error; err != nil {
		return false, apperr.Unknown(err)
	}
	return count > 0, nil
}

func (s *gormTokenStore) FindUser(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Cart").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrInvalidToken
		}
		return nil, apperr.Unknown(err)
	}
	return &user, nil
}
