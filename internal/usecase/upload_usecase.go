package usecase

import (
	"context"
	"strconv"
	"strings"

	"medtour-backend/config"
	"medtour-backend/internal/converter"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/domain/repository"
	"medtour-backend/internal/service"
	"medtour-backend/internal/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssetIntake validates and stores uploaded bytes. *storage.Intake is the
// production implementation.
type AssetIntake interface {
	AssetRemover
	Config() config.UploadConfig
	Validate(filename string, size int64) error
	Ingest(ctx context.Context, data []byte, filename, category string) (string, error)
	Presign(ctx context.Context, category, filename string) (*storage.PresignedUpload, error)
	Confirm(ctx context.Context, key string) (string, error)
}

type UploadUsecase interface {
	UploadImages(ctx context.Context, ownerType string, ownerID uint64, files []dto.UploadFile, isPrimary bool) (*dto.ImageListResponse, error)
	PresignImage(ctx context.Context, ownerType string, ownerID uint64, req *dto.PresignImageRequest) (*dto.PresignImageResponse, error)
	ConfirmImage(ctx context.Context, ownerType string, ownerID uint64, req *dto.ConfirmImageRequest) (*dto.ImageResponse, error)
}

type uploadUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	imageRepo    repository.ImageRepository
	ownerRepo    repository.OwnerRepository
	auditService service.AuditService
	cache        service.AssetCache
	intake       AssetIntake
}

func NewUploadUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	imageRepo repository.ImageRepository,
	ownerRepo repository.OwnerRepository,
	auditService service.AuditService,
	cache service.AssetCache,
	intake AssetIntake,
) UploadUsecase {
	return &uploadUsecase{
		db:           db,
		log:          log,
		imageRepo:    imageRepo,
		ownerRepo:    ownerRepo,
		auditService: auditService,
		cache:        cache,
		intake:       intake,
	}
}

// UploadImages validates every file before storing any, writes the bytes and
// then records all rows in one transaction. Only the first file of a batch
// can become primary. If the rows cannot be written the stored files are
// removed again.
func (u *uploadUsecase) UploadImages(ctx context.Context, ownerType string, ownerID uint64, files []dto.UploadFile, isPrimary bool) (*dto.ImageListResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, invalidArgument("at least one file is required")
	}

	for _, f := range files {
		if err := u.intake.Validate(f.Filename, int64(len(f.Data))); err != nil {
			return nil, err
		}
	}

	if err := u.checkOwnerCapacity(u.db.WithContext(ctx), owner, len(files)); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := u.intake.Ingest(ctx, f.Data, f.Filename, string(owner.Kind))
		if err != nil {
			u.log.Warnf("Failed to store upload %q: %+v", f.Filename, err)
			u.removeStored(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}

	images, err := u.recordImages(ctx, owner, urls, isPrimary)
	if err != nil {
		u.removeStored(ctx, urls)
		return nil, err
	}
	u.cache.Invalidate(ctx, owner)

	return &dto.ImageListResponse{
		Images: converter.ImagesToResponses(images),
		Total:  len(images),
	}, nil
}

func (u *uploadUsecase) recordImages(ctx context.Context, owner entity.OwnerRef, urls []string, isPrimary bool) ([]entity.Image, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.imageRepo.LockOwner(tx, owner); err != nil {
		u.log.Warnf("Failed to lock owner %s: %+v", owner, err)
		return nil, err
	}
	// Re-checked under the lock; the first check only avoids writing bytes
	// for a request that is bound to fail.
	if err := u.checkOwnerCapacity(tx, owner, len(urls)); err != nil {
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	images := make([]entity.Image, 0, len(urls))
	for i, url := range urls {
		image, err := insertImage(tx, u.imageRepo, owner, url, isPrimary && i == 0)
		if err != nil {
			u.log.Warnf("Failed to create image: %+v", err)
			return nil, err
		}
		if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionImageCreate, "image", strconv.FormatUint(image.ID, 10), converter.ImageToResponse(image)); err != nil {
			return nil, err
		}
		images = append(images, *image)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, mapConstraintError(err)
	}
	return images, nil
}

// checkOwnerCapacity verifies the owner exists and can take n more images.
func (u *uploadUsecase) checkOwnerCapacity(db *gorm.DB, owner entity.OwnerRef, n int) error {
	exists, err := u.ownerRepo.Exists(db, owner)
	if err != nil {
		u.log.Warnf("Failed to check owner %s: %+v", owner, err)
		return err
	}
	if !exists {
		return ErrOwnerNotFound
	}

	limit := u.intake.Config().MaxImagesPerOwner
	if limit <= 0 {
		return nil
	}
	count, err := u.imageRepo.CountByOwner(db, owner)
	if err != nil {
		u.log.Warnf("Failed to count images for %s: %+v", owner, err)
		return err
	}
	if int(count)+n > limit {
		return ErrImageLimitReached
	}
	return nil
}

func (u *uploadUsecase) removeStored(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := u.intake.Remove(ctx, url); err != nil {
			u.log.Warnf("Failed to remove stored file %s: %+v", url, err)
		}
	}
}

// PresignImage hands out a direct-to-bucket upload URL for one image.
func (u *uploadUsecase) PresignImage(ctx context.Context, ownerType string, ownerID uint64, req *dto.PresignImageRequest) (*dto.PresignImageResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if err := u.intake.Validate(req.Filename, 1); err != nil {
		return nil, err
	}
	if err := u.checkOwnerCapacity(u.db.WithContext(ctx), owner, 1); err != nil {
		return nil, err
	}

	upload, err := u.intake.Presign(ctx, string(owner.Kind), req.Filename)
	if err != nil {
		u.log.Warnf("Failed to presign upload for %s: %+v", owner, err)
		return nil, err
	}

	return &dto.PresignImageResponse{
		UploadURL: upload.UploadURL,
		Key:       upload.Key,
		URL:       upload.URL,
		ExpiresAt: upload.ExpiresAt,
	}, nil
}

// ConfirmImage registers an object uploaded through a presigned URL.
func (u *uploadUsecase) ConfirmImage(ctx context.Context, ownerType string, ownerID uint64, req *dto.ConfirmImageRequest) (*dto.ImageResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	key := strings.TrimLeft(strings.TrimSpace(req.Key), "/")
	if !strings.HasPrefix(key, string(owner.Kind)+"/") || strings.Contains(key, "..") {
		return nil, invalidArgument("key %q does not belong to %s uploads", req.Key, owner.Kind)
	}

	url, err := u.intake.Confirm(ctx, key)
	if err != nil {
		u.log.Warnf("Failed to confirm upload %s: %+v", key, err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.imageRepo.LockOwner(tx, owner); err != nil {
		u.log.Warnf("Failed to lock owner %s: %+v", owner, err)
		return nil, err
	}

	existing, err := u.imageRepo.FindByOwnerAndURL(tx, owner, url)
	if err != nil {
		u.log.Warnf("Failed to find image by url: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	if err := u.checkOwnerCapacity(tx, owner, 1); err != nil {
		return nil, err
	}

	image, err := insertImage(tx, u.imageRepo, owner, url, req.IsPrimary)
	if err != nil {
		u.log.Warnf("Failed to create image: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionImageCreate, "image", strconv.FormatUint(image.ID, 10), converter.ImageToResponse(image)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, mapConstraintError(err)
	}
	u.cache.Invalidate(ctx, owner)

	return converter.ImageToResponse(image), nil
}
