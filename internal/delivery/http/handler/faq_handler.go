package handler

import (
	"encoding/json"
	"net/http"

	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/response"
	"medtour-backend/pkg/validator"
)

type FAQHandler struct {
	faqUsecase usecase.FAQUsecase
	validator  *validator.CustomValidator
}

func NewFAQHandler(faqUsecase usecase.FAQUsecase, validator *validator.CustomValidator) *FAQHandler {
	return &FAQHandler{
		faqUsecase: faqUsecase,
		validator:  validator,
	}
}

// ListActiveFAQs is the public listing; inactive FAQs are hidden
// @Summary List active FAQs of an owner
// @Tags FAQs
// @Produce json
// @Param owner_type path string true "Owner type"
// @Param owner_id path int true "Owner ID"
// @Success 200 {object} response.Response
// @Router /owners/{owner_type}/{owner_id}/faqs [get]
func (h *FAQHandler) ListActiveFAQs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAllFAQs includes inactive FAQs for the back office
func (h *FAQHandler) ListAllFAQs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *FAQHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	faqs, err := h.faqUsecase.ListFAQs(r.Context(), ownerType, ownerID, activeOnly)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get FAQs")
		return
	}

	response.Success(w, http.StatusOK, "FAQs retrieved successfully", faqs)
}

// CreateFAQ handles FAQ creation
// @Summary Create an FAQ for an owner
// @Tags FAQs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateFAQRequest true "Create FAQ Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/owners/{owner_type}/{owner_id}/faqs [post]
func (h *FAQHandler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	var req dto.CreateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	faq, err := h.faqUsecase.CreateFAQ(r.Context(), ownerType, ownerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create FAQ")
		return
	}

	response.Success(w, http.StatusCreated, "FAQ created successfully", faq)
}

func (h *FAQHandler) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	faqID, ok := idParam(w, r, "faq_id", "FAQ ID")
	if !ok {
		return
	}

	var req dto.UpdateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	faq, err := h.faqUsecase.UpdateFAQ(r.Context(), faqID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update FAQ")
		return
	}

	response.Success(w, http.StatusOK, "FAQ updated successfully", faq)
}

// DeleteFAQ deactivates the FAQ; repeating the call is harmless
func (h *FAQHandler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	faqID, ok := idParam(w, r, "faq_id", "FAQ ID")
	if !ok {
		return
	}

	if err := h.faqUsecase.SoftDeleteFAQ(r.Context(), faqID); err != nil {
		writeUsecaseError(w, err, "Failed to delete FAQ")
		return
	}

	response.Success(w, http.StatusOK, "FAQ deleted successfully", nil)
}
