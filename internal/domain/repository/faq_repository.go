package repository

import (
	"medtour-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type FAQRepository interface {
	Create(db *gorm.DB, faq *entity.FAQ) error
	FindByID(db *gorm.DB, id uint64) (*entity.FAQ, error)
	FindByOwner(db *gorm.DB, owner entity.OwnerRef, activeOnly bool) ([]entity.FAQ, error)
	Update(db *gorm.DB, faq *entity.FAQ, fields map[string]interface{}) error
	DeleteByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error)
}
