package converter

import (
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/domain/entity"
)

func FAQToResponse(faq *entity.FAQ) *dto.FAQResponse {
	if faq == nil {
		return nil
	}
	return &dto.FAQResponse{
		ID:        faq.ID,
		OwnerType: string(faq.OwnerType),
		OwnerID:   faq.OwnerID,
		Question:  faq.Question,
		Answer:    faq.Answer,
		Position:  faq.Position,
		IsActive:  faq.Active(),
		CreatedAt: faq.CreatedAt,
		UpdatedAt: faq.UpdatedAt,
	}
}

func FAQsToResponses(faqs []entity.FAQ) []dto.FAQResponse {
	responses := make([]dto.FAQResponse, len(faqs))
	for i := range faqs {
		responses[i] = *FAQToResponse(&faqs[i])
	}
	return responses
}
