package repository

import (
	"errors"

	"medtour-backend/internal/domain/entity"
	domainRepo "medtour-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type faqRepository struct{}

func NewFAQRepository() domainRepo.FAQRepository {
	return &faqRepository{}
}

func (r *faqRepository) Create(db *gorm.DB, faq *entity.FAQ) error {
	return db.Create(faq).Error
}

func (r *faqRepository) FindByID(db *gorm.DB, id uint64) (*entity.FAQ, error) {
	var faq entity.FAQ
	err := db.Where("id = ?", id).First(&faq).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) FindByOwner(db *gorm.DB, owner entity.OwnerRef, activeOnly bool) ([]entity.FAQ, error) {
	faqs := []entity.FAQ{}
	query := db.Scopes(ownerScope(owner))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("position ASC").Order("id ASC").Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

// Update writes only the given columns; updated_at is refreshed by gorm.
func (r *faqRepository) Update(db *gorm.DB, faq *entity.FAQ, fields map[string]interface{}) error {
	return db.Model(faq).Updates(fields).Error
}

func (r *faqRepository) DeleteByOwner(db *gorm.DB, owner entity.OwnerRef) (int64, error) {
	result := db.Scopes(ownerScope(owner)).Delete(&entity.FAQ{})
	return result.RowsAffected, result.Error
}
