package handler

import (
	"encoding/json"
	"net/http"

	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/response"
	"medtour-backend/pkg/validator"
)

type OwnerHandler struct {
	ownerUsecase usecase.OwnerUsecase
	validator    *validator.CustomValidator
}

func NewOwnerHandler(ownerUsecase usecase.OwnerUsecase, validator *validator.CustomValidator) *OwnerHandler {
	return &OwnerHandler{
		ownerUsecase: ownerUsecase,
		validator:    validator,
	}
}

// ListOwners handles the public catalog listing
// @Summary List active owners of a kind
// @Tags Owners
// @Produce json
// @Param owner_type path string true "Owner type"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /owners/{owner_type} [get]
func (h *OwnerHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAllOwners includes inactive owners for the back office
func (h *OwnerHandler) ListAllOwners(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *OwnerHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ownerType, ok := ownerTypeParam(w, r)
	if !ok {
		return
	}
	page, limit := pageParams(r)

	owners, err := h.ownerUsecase.ListOwners(r.Context(), ownerType, page, limit, activeOnly)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get owners")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Owners retrieved successfully", owners.Owners,
		response.NewMeta(owners.Page, owners.Limit, owners.Total))
}

// GetOwner handles the public detail page with images and active FAQs
// @Summary Get an owner with its images and FAQs
// @Tags Owners
// @Produce json
// @Param owner_type path string true "Owner type"
// @Param owner_id path int true "Owner ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /owners/{owner_type}/{owner_id} [get]
func (h *OwnerHandler) GetOwner(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, true)
}

// GetOwnerAdmin also returns inactive owners and FAQs
func (h *OwnerHandler) GetOwnerAdmin(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, false)
}

func (h *OwnerHandler) get(w http.ResponseWriter, r *http.Request, public bool) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	owner, err := h.ownerUsecase.GetOwner(r.Context(), ownerType, ownerID, public)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get owner")
		return
	}

	response.Success(w, http.StatusOK, "Owner retrieved successfully", owner)
}

func (h *OwnerHandler) CreateOwner(w http.ResponseWriter, r *http.Request) {
	ownerType, ok := ownerTypeParam(w, r)
	if !ok {
		return
	}

	var req dto.OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	owner, err := h.ownerUsecase.CreateOwner(r.Context(), ownerType, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to create owner")
		return
	}

	response.Success(w, http.StatusCreated, "Owner created successfully", owner)
}

func (h *OwnerHandler) UpdateOwner(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	var req dto.OwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	owner, err := h.ownerUsecase.UpdateOwner(r.Context(), ownerType, ownerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to update owner")
		return
	}

	response.Success(w, http.StatusOK, "Owner updated successfully", owner)
}

// DeleteOwner removes the owner with all of its images and FAQs
// @Summary Delete an owner and its assets
// @Tags Owners
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/owners/{owner_type}/{owner_id} [delete]
func (h *OwnerHandler) DeleteOwner(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	result, err := h.ownerUsecase.DeleteOwner(r.Context(), ownerType, ownerID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to delete owner")
		return
	}

	response.Success(w, http.StatusOK, "Owner deleted successfully", result)
}
