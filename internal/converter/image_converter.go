package converter

import (
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/domain/entity"
)

func ImageToResponse(image *entity.Image) *dto.ImageResponse {
	if image == nil {
		return nil
	}
	return &dto.ImageResponse{
		ID:         image.ID,
		OwnerType:  string(image.OwnerType),
		OwnerID:    image.OwnerID,
		URL:        image.URL,
		IsPrimary:  image.IsPrimary,
		Position:   image.Position,
		UploadedAt: image.UploadedAt,
	}
}

func ImagesToResponses(images []entity.Image) []dto.ImageResponse {
	responses := make([]dto.ImageResponse, len(images))
	for i := range images {
		responses[i] = *ImageToResponse(&images[i])
	}
	return responses
}
