package dto

import "time"

// Request DTOs

type ImagePositionRequest struct {
	ID       uint64 `json:"id" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

type ReorderImagesRequest struct {
	Items []ImagePositionRequest `json:"items" validate:"dive"`
}

type PresignImageRequest struct {
	Filename string `json:"filename" validate:"required,notblank"`
}

type ConfirmImageRequest struct {
	Key       string `json:"key" validate:"required,notblank"`
	IsPrimary bool   `json:"is_primary"`
}

// UploadFile is one part of a multipart upload, already read into memory.
type UploadFile struct {
	Filename string
	Data     []byte
}

// Response DTOs

type ImageResponse struct {
	ID         uint64    `json:"id"`
	OwnerType  string    `json:"owner_type"`
	OwnerID    uint64    `json:"owner_id"`
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	Position   *int      `json:"position"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ImageListResponse struct {
	Images []ImageResponse `json:"images"`
	Total  int             `json:"total"`
}

type PresignImageResponse struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
