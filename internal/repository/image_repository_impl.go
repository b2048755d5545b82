package repository

import (
	"errors"

	"medtour-backend/internal/domain/entity"
	domainRepo "medtour-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type imageRepository struct{}

func NewImageRepository() domainRepo.ImageRepository {
	return &imageRepository{}
}

func ownerScope(owner entity.OwnerRef) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_type = ? AND owner_id = ?", owner.Kind, owner.ID)
	}
}

func (r *imageRepository) Create(db *gorm.DB, image *entity.Image) error {
	return db.Create(image).Error
}

func (r *imageRepository) FindByOwner(db *gorm.DB, owner entity.OwnerRef) ([]entity.Image, error) {
	images := []entity.Image{}
	err := db.Scopes(ownerScope(owner)).
		Order("position ASC").
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) FindByIDAndOwner(db *gorm.DB, id uint64, owner entity.OwnerRef) (*entity.Image, error) {
	var image entity.Image
	err := db.Scopes(ownerScope(owner)).Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindByOwnerAndURL(db *gorm.DB, owner entity.OwnerRef, url string) (*entity.Image, error) {
	var image entity.Image
	err := db.Scopes(ownerScope(owner)).Where("url = ?", url).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindIDsByOwner(db *gorm.DB, owner entity.OwnerRef, ids []uint64) ([]uint64, error) {
	found := []uint64{}
	if len(ids) == 0 {
		return found, nil
	}
	err := db.Model(&entity.Image{}).
		Scopes(ownerScope(owner)).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *imageRepository) CountByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error) {
	var count int64
	err := db.Model(&entity.Image{}).Scopes(ownerScope(owner)).Count(&count).Error
	return count, err
}

// LockOwner takes a transaction-scoped advisory lock on the owner so that
// concurrent uploads compute positions one after the other.
func (r *imageRepository) LockOwner(db *gorm.DB, owner entity.OwnerRef) error {
	return db.Exec("SELECT pg_advisory_xact_lock(hashtext(?), ?)", string(owner.Kind), int64(owner.ID)).Error
}

func (r *imageRepository) ClearPrimary(db *gorm.DB, owner entity.OwnerRef) error {
	return db.Model(&entity.Image{}).
		Scopes(ownerScope(owner)).
		Where("is_primary = ?", true).
		Update("is_primary", false).Error
}

func (r *imageRepository) MarkPrimary(db *gorm.DB, id uint64, owner entity.OwnerRef) (int64, error) {
	result := db.Model(&entity.Image{}).
		Scopes(ownerScope(owner)).
		Where("id = ?", id).
		Update("is_primary", true)
	return result.RowsAffected, result.Error
}

func (r *imageRepository) UpdatePosition(db *gorm.DB, id uint64, owner entity.OwnerRef, position int) (int64, error) {
	result := db.Model(&entity.Image{}).
		Scopes(ownerScope(owner)).
		Where("id = ?", id).
		Update("position", position)
	return result.RowsAffected, result.Error
}

func (r *imageRepository) Delete(db *gorm.DB, id uint64, owner entity.OwnerRef) (int64, error) {
	result := db.Scopes(ownerScope(owner)).Where("id = ?", id).Delete(&entity.Image{})
	return result.RowsAffected, result.Error
}

func (r *imageRepository) DeleteByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error) {
	result := db.Scopes(ownerScope(owner)).Delete(&entity.Image{})
	return result.RowsAffected, result.Error
}
