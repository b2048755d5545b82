package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"medtour-backend/config"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/metrics"
	"medtour-backend/pkg/response"
	"medtour-backend/pkg/validator"
)

const (
	multipartMemory = 32 << 20
	// Upper bound of files accepted in one request when the per-owner cap is off
	defaultFilesPerRequest = 10
)

type ImageHandler struct {
	imageUsecase  usecase.ImageUsecase
	uploadUsecase usecase.UploadUsecase
	validator     *validator.CustomValidator
	metrics       *metrics.Metrics
	maxFileBytes  int64
	maxBodyBytes  int64
}

func NewImageHandler(
	imageUsecase usecase.ImageUsecase,
	uploadUsecase usecase.UploadUsecase,
	validator *validator.CustomValidator,
	m *metrics.Metrics,
	uploadCfg config.UploadConfig,
) *ImageHandler {
	h := &ImageHandler{
		imageUsecase:  imageUsecase,
		uploadUsecase: uploadUsecase,
		validator:     validator,
		metrics:       m,
	}
	// A non-positive MaxBytes disables the size limits, as it does for the intake.
	if uploadCfg.MaxBytes > 0 {
		files := uploadCfg.MaxImagesPerOwner
		if files <= 0 {
			files = defaultFilesPerRequest
		}
		h.maxFileBytes = uploadCfg.MaxBytes
		h.maxBodyBytes = uploadCfg.MaxBytes*int64(files) + 1<<20
	}
	return h
}

// ListImages returns the owner's images ordered by position
// @Summary List images of an owner
// @Tags Images
// @Produce json
// @Param owner_type path string true "hospital, doctor, treatment, offer, slider or blog"
// @Param owner_id path int true "Owner ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /owners/{owner_type}/{owner_id}/images [get]
func (h *ImageHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	images, err := h.imageUsecase.ListImages(r.Context(), ownerType, ownerID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to get images")
		return
	}

	response.Success(w, http.StatusOK, "Images retrieved successfully", images)
}

// UploadImages stores the multipart "files[]" parts of the request
// @Summary Upload images for an owner
// @Tags Images
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param files[] formData file true "Image files"
// @Param is_primary formData bool false "Make the first file the primary image"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/owners/{owner_type}/{owner_id}/images [post]
func (h *ImageHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, "Request body too large")
			return
		}
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	isPrimary := false
	if raw := r.FormValue("is_primary"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "is_primary must be a boolean")
			return
		}
		isPrimary = v
	}

	headers := r.MultipartForm.File["files[]"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) == 0 {
		response.BadRequest(w, "At least one file is required in files[]")
		return
	}

	files := make([]dto.UploadFile, 0, len(headers))
	total := 0
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, "Failed to read uploaded file")
			return
		}
		data, err := h.readPart(f)
		f.Close()
		if err != nil {
			response.BadRequest(w, "Failed to read uploaded file")
			return
		}
		files = append(files, dto.UploadFile{Filename: fh.Filename, Data: data})
		total += len(data)
	}

	images, err := h.uploadUsecase.UploadImages(r.Context(), ownerType, ownerID, files, isPrimary)
	if err != nil {
		writeUsecaseError(w, err, "Failed to upload images")
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveUpload(ownerType, total)
	}

	response.Success(w, http.StatusCreated, "Images uploaded successfully", images)
}

// readPart reads an uploaded part. With a limit configured, one byte over it
// is enough for the size check to fail.
func (h *ImageHandler) readPart(f io.Reader) ([]byte, error) {
	if h.maxFileBytes <= 0 {
		return io.ReadAll(f)
	}
	return io.ReadAll(io.LimitReader(f, h.maxFileBytes+1))
}

func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}
	imageID, ok := idParam(w, r, "image_id", "image ID")
	if !ok {
		return
	}

	if err := h.imageUsecase.DeleteImage(r.Context(), ownerType, ownerID, imageID); err != nil {
		writeUsecaseError(w, err, "Failed to delete image")
		return
	}

	response.Success(w, http.StatusOK, "Image deleted successfully", nil)
}

// ReorderImages applies {"items":[{"id":..,"position":..}]}
func (h *ImageHandler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	var req dto.ReorderImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	images, err := h.imageUsecase.ReorderImages(r.Context(), ownerType, ownerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to reorder images")
		return
	}

	response.Success(w, http.StatusOK, "Images reordered successfully", images)
}

func (h *ImageHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}
	imageID, ok := idParam(w, r, "image_id", "image ID")
	if !ok {
		return
	}

	image, err := h.imageUsecase.SetPrimary(r.Context(), ownerType, ownerID, imageID)
	if err != nil {
		writeUsecaseError(w, err, "Failed to set primary image")
		return
	}

	response.Success(w, http.StatusOK, "Primary image updated successfully", image)
}

// PresignImage returns a direct upload URL for the s3 backend
func (h *ImageHandler) PresignImage(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	var req dto.PresignImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	upload, err := h.uploadUsecase.PresignImage(r.Context(), ownerType, ownerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to prepare upload")
		return
	}

	response.Success(w, http.StatusOK, "Upload URL issued", upload)
}

func (h *ImageHandler) ConfirmImage(w http.ResponseWriter, r *http.Request) {
	ownerType, ownerID, ok := ownerParams(w, r)
	if !ok {
		return
	}

	var req dto.ConfirmImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	image, err := h.uploadUsecase.ConfirmImage(r.Context(), ownerType, ownerID, &req)
	if err != nil {
		writeUsecaseError(w, err, "Failed to register upload")
		return
	}

	response.Success(w, http.StatusCreated, "Image registered successfully", image)
}
