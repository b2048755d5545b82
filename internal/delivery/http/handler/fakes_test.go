package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"medtour-backend/internal/delivery/dto"
	"medtour-backend/pkg/response"

	"github.com/stretchr/testify/require"
)

type fakeImageUsecase struct {
	list     *dto.ImageListResponse
	image    *dto.ImageResponse
	err      error
	gotOwner string
	gotID    uint64
	gotImage uint64
	gotOrder *dto.ReorderImagesRequest
}

func (f *fakeImageUsecase) ListImages(_ context.Context, ownerType string, ownerID uint64) (*dto.ImageListResponse, error) {
	f.gotOwner, f.gotID = ownerType, ownerID
	return f.list, f.err
}

func (f *fakeImageUsecase) CreateImage(_ context.Context, ownerType string, ownerID uint64, _ string, _ bool) (*dto.ImageResponse, error) {
	f.gotOwner, f.gotID = ownerType, ownerID
	return f.image, f.err
}

func (f *fakeImageUsecase) DeleteImage(_ context.Context, ownerType string, ownerID uint64, imageID uint64) error {
	f.gotOwner, f.gotID, f.gotImage = ownerType, ownerID, imageID
	return f.err
}

func (f *fakeImageUsecase) ReorderImages(_ context.Context, ownerType string, ownerID uint64, req *dto.ReorderImagesRequest) (*dto.ImageListResponse, error) {
	f.gotOwner, f.gotID, f.gotOrder = ownerType, ownerID, req
	return f.list, f.err
}

func (f *fakeImageUsecase) SetPrimary(_ context.Context, ownerType string, ownerID uint64, imageID uint64) (*dto.ImageResponse, error) {
	f.gotOwner, f.gotID, f.gotImage = ownerType, ownerID, imageID
	return f.image, f.err
}

type fakeUploadUsecase struct {
	list      *dto.ImageListResponse
	image     *dto.ImageResponse
	presign   *dto.PresignImageResponse
	err       error
	files     []dto.UploadFile
	isPrimary bool
}

func (f *fakeUploadUsecase) UploadImages(_ context.Context, _ string, _ uint64, files []dto.UploadFile, isPrimary bool) (*dto.ImageListResponse, error) {
	f.files, f.isPrimary = files, isPrimary
	return f.list, f.err
}

func (f *fakeUploadUsecase) PresignImage(context.Context, string, uint64, *dto.PresignImageRequest) (*dto.PresignImageResponse, error) {
	return f.presign, f.err
}

func (f *fakeUploadUsecase) ConfirmImage(context.Context, string, uint64, *dto.ConfirmImageRequest) (*dto.ImageResponse, error) {
	return f.image, f.err
}

type fakeFAQUsecase struct {
	list          *dto.FAQListResponse
	faq           *dto.FAQResponse
	err           error
	gotActiveOnly bool
	gotFAQID      uint64
}

func (f *fakeFAQUsecase) ListFAQs(_ context.Context, _ string, _ uint64, activeOnly bool) (*dto.FAQListResponse, error) {
	f.gotActiveOnly = activeOnly
	return f.list, f.err
}

func (f *fakeFAQUsecase) CreateFAQ(context.Context, string, uint64, *dto.CreateFAQRequest) (*dto.FAQResponse, error) {
	return f.faq, f.err
}

func (f *fakeFAQUsecase) UpdateFAQ(_ context.Context, faqID uint64, _ *dto.UpdateFAQRequest) (*dto.FAQResponse, error) {
	f.gotFAQID = faqID
	return f.faq, f.err
}

func (f *fakeFAQUsecase) SoftDeleteFAQ(_ context.Context, faqID uint64) error {
	f.gotFAQID = faqID
	return f.err
}

type fakeOwnerUsecase struct {
	list      *dto.OwnerListResponse
	owner     *dto.OwnerResponse
	deleted   *dto.OwnerDeleteResponse
	err       error
	gotPublic bool
}

func (f *fakeOwnerUsecase) ListOwners(_ context.Context, _ string, _, _ int, activeOnly bool) (*dto.OwnerListResponse, error) {
	f.gotPublic = activeOnly
	return f.list, f.err
}

func (f *fakeOwnerUsecase) GetOwner(_ context.Context, _ string, _ uint64, public bool) (*dto.OwnerResponse, error) {
	f.gotPublic = public
	return f.owner, f.err
}

func (f *fakeOwnerUsecase) CreateOwner(context.Context, string, *dto.OwnerRequest) (*dto.OwnerResponse, error) {
	return f.owner, f.err
}

func (f *fakeOwnerUsecase) UpdateOwner(context.Context, string, uint64, *dto.OwnerRequest) (*dto.OwnerResponse, error) {
	return f.owner, f.err
}

func (f *fakeOwnerUsecase) DeleteOwner(context.Context, string, uint64) (*dto.OwnerDeleteResponse, error) {
	return f.deleted, f.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
