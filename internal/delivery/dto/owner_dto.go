package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

// OwnerRequest carries the fields of every owner kind. Fields that do not
// apply to the target kind are ignored; nil fields are left untouched on update.
type OwnerRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=300"`
	Title            *string `json:"title" validate:"omitempty,max=500"`
	Slug             *string `json:"slug" validate:"omitempty,max=600"`
	Description      *string `json:"description"`
	ShortDescription *string `json:"short_description" validate:"omitempty,max=500"`
	Location         *string `json:"location" validate:"omitempty,max=500"`
	IsActive         *bool   `json:"is_active"`

	// hospital
	Address         *string `json:"address"`
	Phone           *string `json:"phone" validate:"omitempty,max=80"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Website         *string `json:"website" validate:"omitempty,max=500"`
	EstablishedYear *int    `json:"established_year" validate:"omitempty,gte=1800"`
	BedCount        *int    `json:"bed_count" validate:"omitempty,gte=0"`
	Specializations *string `json:"specializations"`

	// doctor
	Designation     *string          `json:"designation" validate:"omitempty,max=200"`
	Specialization  *string          `json:"specialization" validate:"omitempty,max=200"`
	ExperienceYears *int             `json:"experience_years" validate:"omitempty,gte=0"`
	ConsultancyFee  *decimal.Decimal `json:"consultancy_fee"`
	HospitalID      *uint64          `json:"hospital_id"`

	// treatment
	TreatmentType *string          `json:"treatment_type" validate:"omitempty,max=100"`
	PriceMin      *decimal.Decimal `json:"price_min"`
	PriceMax      *decimal.Decimal `json:"price_max"`
	DoctorID      *uint64          `json:"doctor_id"`

	// offer
	StartDate          *time.Time       `json:"start_date"`
	EndDate            *time.Time       `json:"end_date"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	IsFreeCamp         *bool            `json:"is_free_camp"`
	TreatmentID        *uint64          `json:"treatment_id"`

	// slider and blog
	Link        *string    `json:"link" validate:"omitempty,max=1000"`
	Tags        *string    `json:"tags" validate:"omitempty,max=1000"`
	Excerpt     *string    `json:"excerpt"`
	Content     *string    `json:"content"`
	Category    *string    `json:"category" validate:"omitempty,max=200"`
	AuthorName  *string    `json:"author_name" validate:"omitempty,max=200"`
	PublishedAt *time.Time `json:"published_at"`
}

// Response DTOs

type OwnerResponse struct {
	OwnerType  string          `json:"owner_type"`
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Attributes interface{}     `json:"attributes"`
	Images     []ImageResponse `json:"images,omitempty"`
	FAQs       []FAQResponse   `json:"faqs,omitempty"`
}

type OwnerListResponse struct {
	Owners []OwnerResponse `json:"owners"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type OwnerDeleteResponse struct {
	ImagesDeleted int64 `json:"images_deleted"`
	FAQsDeleted   int64 `json:"faqs_deleted"`
}
