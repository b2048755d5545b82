package repository

import (
	"errors"

	"medtour-backend/internal/domain/entity"
	domainRepo "medtour-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type ownerRepository struct{}

func NewOwnerRepository() domainRepo.OwnerRepository {
	return &ownerRepository{}
}

func (r *ownerRepository) Exists(db *gorm.DB, owner entity.OwnerRef) (bool, error) {
	model, err := entity.NewOwnerRecord(owner.Kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(model).Where("id = ?", owner.ID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ownerRepository) FindByRef(db *gorm.DB, owner entity.OwnerRef) (entity.OwnerRecord, error) {
	record, err := entity.NewOwnerRecord(owner.Kind)
	if err != nil {
		return nil, err
	}

	err = db.Where("id = ?", owner.ID).First(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func (r *ownerRepository) FindAll(db *gorm.DB, kind entity.OwnerKind, activeOnly bool, limit, offset int) ([]entity.OwnerRecord, int64, error) {
	switch kind {
	case entity.OwnerHospital:
		return findOwners[entity.Hospital](db, activeOnly, limit, offset)
	case entity.OwnerDoctor:
		return findOwners[entity.Doctor](db, activeOnly, limit, offset)
	case entity.OwnerTreatment:
		return findOwners[entity.Treatment](db, activeOnly, limit, offset)
	case entity.OwnerOffer:
		return findOwners[entity.Offer](db, activeOnly, limit, offset)
	case entity.OwnerSlider:
		return findOwners[entity.Slider](db, activeOnly, limit, offset)
	case entity.OwnerBlog:
		return findOwners[entity.Blog](db, activeOnly, limit, offset)
	}
	return nil, 0, entity.ErrInvalidOwnerKind
}

// findOwners pages through one owner table, newest first.
func findOwners[T any, PT interface {
	*T
	entity.OwnerRecord
}](db *gorm.DB, activeOnly bool, limit, offset int) ([]entity.OwnerRecord, int64, error) {
	var rows []T
	var total int64

	active := func(tx *gorm.DB) *gorm.DB {
		if activeOnly {
			return tx.Where("is_active = ?", true)
		}
		return tx
	}

	if err := db.Model(PT(new(T))).Scopes(active).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Scopes(active).Limit(limit).Offset(offset).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	records := make([]entity.OwnerRecord, len(rows))
	for i := range rows {
		records[i] = PT(&rows[i])
	}
	return records, total, nil
}

func (r *ownerRepository) Create(db *gorm.DB, record entity.OwnerRecord) error {
	return db.Create(record).Error
}

func (r *ownerRepository) Update(db *gorm.DB, record entity.OwnerRecord) error {
	return db.Save(record).Error
}

func (r *ownerRepository) Delete(db *gorm.DB, owner entity.OwnerRef) (int64, error) {
	model, err := entity.NewOwnerRecord(owner.Kind)
	if err != nil {
		return 0, err
	}
	result := db.Where("id = ?", owner.ID).Delete(model)
	return result.RowsAffected, result.Error
}
