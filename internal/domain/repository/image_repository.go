package repository

import (
	"medtour-backend/internal/domain/entity"

	"gorm.io/gorm"
)

// ImageRepository is scoped by owner on every mutating call: an image id alone
// never selects a row.
type ImageRepository interface {
	Create(db *gorm.DB, image *entity.Image) error
	FindByOwner(db *gorm.DB, owner entity.OwnerRef) ([]entity.Image, error)
	FindByIDAndOwner(db *gorm.DB, id uint64, owner entity.OwnerRef) (*entity.Image, error)
	FindByOwnerAndURL(db *gorm.DB, owner entity.OwnerRef, url string) (*entity.Image, error)
	FindIDsByOwner(db *gorm.DB, owner entity.OwnerRef, ids []uint64) ([]uint64, error)
	CountByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error)
	LockOwner(db *gorm.DB, owner entity.OwnerRef) error
	ClearPrimary(db *gorm.DB, owner entity.OwnerRef) error
	MarkPrimary(db *gorm.DB, id uint64, owner entity.OwnerRef) (int64, error)
	UpdatePosition(db *gorm.DB, id uint64, owner entity.OwnerRef, position int) (int64, error)
	Delete(db *gorm.DB, id uint64, owner entity.OwnerRef) (int64, error)
	DeleteByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error)
}
