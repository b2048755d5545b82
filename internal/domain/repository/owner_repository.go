package repository

import (
	"medtour-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type OwnerRepository interface {
	Exists(db *gorm.DB, owner entity.OwnerRef) (bool, error)
	FindByRef(db *gorm.DB, owner entity.OwnerRef) (entity.OwnerRecord, error)
	FindAll(db *gorm.DB, kind entity.OwnerKind, activeOnly bool, limit, offset int) ([]entity.OwnerRecord, int64, error)
	Create(db *gorm.DB, record entity.OwnerRecord) error
	Update(db *gorm.DB, record entity.OwnerRecord) error
	Delete(db *gorm.DB, owner entity.OwnerRef) (int64, error)
}
