package handler

import (
	"errors"
	"net/http"
	"strconv"

	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/storage"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/response"

	"github.com/gorilla/mux"
)

// writeUsecaseError maps domain errors to HTTP statuses. Anything unknown is
// reported as a 500 with the fallback message only.
func writeUsecaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, entity.ErrInvalidOwnerKind):
		response.BadRequest(w, "Unknown owner type")
	case errors.Is(err, storage.ErrInvalidUpload),
		errors.Is(err, usecase.ErrInvalidArgument):
		response.BadRequest(w, err.Error())
	case errors.Is(err, storage.ErrPresignUnsupported):
		response.NotImplemented(w, "Presigned uploads need the s3 storage driver")
	case errors.Is(err, usecase.ErrOwnerNotFound):
		response.NotFound(w, "Owner not found")
	case errors.Is(err, usecase.ErrImageNotFound):
		response.NotFound(w, "Image not found")
	case errors.Is(err, usecase.ErrFAQNotFound):
		response.NotFound(w, "FAQ not found")
	case errors.Is(err, usecase.ErrAuditLogNotFound):
		response.NotFound(w, "Audit log not found")
	case errors.Is(err, storage.ErrObjectNotFound):
		response.NotFound(w, "Uploaded object not found")
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, "Resource conflicts with existing data")
	default:
		response.InternalServerError(w, fallback)
	}
}

// ownerParams reads {owner_type} and {owner_id} from the route.
func ownerParams(w http.ResponseWriter, r *http.Request) (string, uint64, bool) {
	ownerType, ok := ownerTypeParam(w, r)
	if !ok {
		return "", 0, false
	}
	ownerID, ok := idParam(w, r, "owner_id", "owner ID")
	if !ok {
		return "", 0, false
	}
	return ownerType, ownerID, true
}

func ownerTypeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerType := mux.Vars(r)["owner_type"]
	if !entity.IsValidOwnerType(ownerType) {
		response.BadRequest(w, "Unknown owner type")
		return "", false
	}
	return ownerType, true
}

func idParam(w http.ResponseWriter, r *http.Request, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(w, "Invalid "+label)
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}
