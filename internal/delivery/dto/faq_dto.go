package dto

import "time"

// Request DTOs

type CreateFAQRequest struct {
	Question string `json:"question" validate:"required,notblank"`
	Answer   string `json:"answer" validate:"required,notblank"`
	Position int    `json:"position" validate:"gte=0"`
}

// UpdateFAQRequest is a partial update: nil fields are left untouched.
type UpdateFAQRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
	IsActive *bool   `json:"is_active"`
}

// Response DTOs

type FAQResponse struct {
	ID        uint64    `json:"id"`
	OwnerType string    `json:"owner_type"`
	OwnerID   uint64    `json:"owner_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FAQListResponse struct {
	FAQs  []FAQResponse `json:"faqs"`
	Total int           `json:"total"`
}
