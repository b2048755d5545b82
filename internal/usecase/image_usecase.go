package usecase

import (
	"context"
	"strconv"

	"medtour-backend/internal/converter"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/domain/repository"
	"medtour-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AssetRemover deletes stored bytes by their public URL.
type AssetRemover interface {
	Remove(ctx context.Context, url string) error
}

type ImageUsecase interface {
	ListImages(ctx context.Context, ownerType string, ownerID uint64) (*dto.ImageListResponse, error)
	CreateImage(ctx context.Context, ownerType string, ownerID uint64, url string, isPrimary bool) (*dto.ImageResponse, error)
	DeleteImage(ctx context.Context, ownerType string, ownerID uint64, imageID uint64) error
	ReorderImages(ctx context.Context, ownerType string, ownerID uint64, req *dto.ReorderImagesRequest) (*dto.ImageListResponse, error)
	SetPrimary(ctx context.Context, ownerType string, ownerID uint64, imageID uint64) (*dto.ImageResponse, error)
}

type imageUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	imageRepo    repository.ImageRepository
	auditService service.AuditService
	cache        service.AssetCache
	remover      AssetRemover
}

func NewImageUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	imageRepo repository.ImageRepository,
	auditService service.AuditService,
	cache service.AssetCache,
	remover AssetRemover,
) ImageUsecase {
	return &imageUsecase{
		db:           db,
		log:          log,
		imageRepo:    imageRepo,
		auditService: auditService,
		cache:        cache,
		remover:      remover,
	}
}

// ListImages never fails for a valid kind; an owner without images (or one
// that does not exist) yields an empty list.
func (u *imageUsecase) ListImages(ctx context.Context, ownerType string, ownerID uint64) (*dto.ImageListResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	images, gen, ok := u.cache.GetImages(ctx, owner)
	if !ok {
		images, err = u.imageRepo.FindByOwner(u.db.WithContext(ctx), owner)
		if err != nil {
			u.log.Warnf("Failed to find images for %s: %+v", owner, err)
			return nil, err
		}
		u.cache.SetImages(ctx, owner, gen, images)
	}

	return &dto.ImageListResponse{
		Images: converter.ImagesToResponses(images),
		Total:  len(images),
	}, nil
}

func (u *imageUsecase) CreateImage(ctx context.Context, ownerType string, ownerID uint64, url string, isPrimary bool) (*dto.ImageResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if url == "" {
		return nil, invalidArgument("url is required")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.imageRepo.LockOwner(tx, owner); err != nil {
		u.log.Warnf("Failed to lock owner %s: %+v", owner, err)
		return nil, err
	}

	image, err := insertImage(tx, u.imageRepo, owner, url, isPrimary)
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

// insertImage appends an image to the owner's list. Callers hold the owner
// lock so the count used as position cannot go stale.
func insertImage(tx *gorm.DB, imageRepo repository.ImageRepository, owner entity.OwnerRef, url string, isPrimary bool) (*entity.Image, error) {
	count, err := imageRepo.CountByOwner(tx, owner)
	if err != nil {
		return nil, err
	}

	if isPrimary {
		if err := imageRepo.ClearPrimary(tx, owner); err != nil {
			return nil, err
		}
	}

	position := int(count)
	image := &entity.Image{
		OwnerType: owner.Kind,
		OwnerID:   owner.ID,
		URL:       url,
		IsPrimary: isPrimary,
		Position:  &position,
	}
	if err := imageRepo.Create(tx, image); err != nil {
		return nil, mapConstraintError(err)
	}
	return image, nil
}

func (u *imageUsecase) DeleteImage(ctx context.Context, ownerType string, ownerID uint64, imageID uint64) error {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	image, err := u.imageRepo.FindByIDAndOwner(tx, imageID, owner)
	if err != nil {
		u.log.Warnf("Failed to find image: %+v", err)
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	if _, err := u.imageRepo.Delete(tx, image.ID, owner); err != nil {
		u.log.Warnf("Failed to delete image: %+v", err)
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionImageDelete, "image", strconv.FormatUint(image.ID, 10), converter.ImageToResponse(image)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	u.cache.Invalidate(ctx, owner)

	// The row is gone; a leftover file is only logged.
	if u.remover != nil {
		if err := u.remover.Remove(ctx, image.URL); err != nil {
			u.log.Warnf("Failed to remove stored file %s: %+v", image.URL, err)
		}
	}

	return nil
}

// ReorderImages assigns the requested positions. Every id must belong to the
// owner; otherwise nothing is changed.
func (u *imageUsecase) ReorderImages(ctx context.Context, ownerType string, ownerID uint64, req *dto.ReorderImagesRequest) (*dto.ImageListResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return u.ListImages(ctx, ownerType, ownerID)
	}

	ids := make([]uint64, 0, len(req.Items))
	seen := make(map[uint64]struct{}, len(req.Items))
	for _, item := range req.Items {
		if item.Position < 0 {
			return nil, invalidArgument("position must not be negative")
		}
		if _, dup := seen[item.ID]; dup {
			return nil, invalidArgument("image %d listed more than once", item.ID)
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Serializes with uploads and deletes that renumber the same owner.
	if err := u.imageRepo.LockOwner(tx, owner); err != nil {
		u.log.Warnf("Failed to lock owner %s: %+v", owner, err)
		return nil, err
	}

	found, err := u.imageRepo.FindIDsByOwner(tx, owner, ids)
	if err != nil {
		u.log.Warnf("Failed to find images for reorder: %+v", err)
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, invalidArgument("reorder references images that do not belong to %s", owner)
	}

	for _, item := range req.Items {
		if _, err := u.imageRepo.UpdatePosition(tx, item.ID, owner, item.Position); err != nil {
			u.log.Warnf("Failed to update image position: %+v", err)
			return nil, err
		}
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionImageReorder, "owner", owner.String(), nil, req.Items); err != nil {
		return nil, err
	}

	images, err := u.imageRepo.FindByOwner(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to find images for %s: %+v", owner, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.cache.Invalidate(ctx, owner)

	return &dto.ImageListResponse{
		Images: converter.ImagesToResponses(images),
		Total:  len(images),
	}, nil
}

// SetPrimary makes imageID the owner's only primary image. The target is
// checked before any primary flag is cleared.
func (u *imageUsecase) SetPrimary(ctx context.Context, ownerType string, ownerID uint64, imageID uint64) (*dto.ImageResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	image, err := u.imageRepo.FindByIDAndOwner(tx, imageID, owner)
	if err != nil {
		u.log.Warnf("Failed to find image: %+v", err)
		return nil, err
	}
	if image == nil {
		return nil, ErrImageNotFound
	}

	if err := u.imageRepo.ClearPrimary(tx, owner); err != nil {
		u.log.Warnf("Failed to clear primary image: %+v", err)
		return nil, err
	}
	if _, err := u.imageRepo.MarkPrimary(tx, image.ID, owner); err != nil {
		u.log.Warnf("Failed to mark primary image: %+v", err)
		return nil, mapConstraintError(err)
	}

	before := converter.ImageToResponse(image)
	image.IsPrimary = true

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionImageSetPrimary, "image", strconv.FormatUint(image.ID, 10), before, converter.ImageToResponse(image)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, mapConstraintError(err)
	}
	u.cache.Invalidate(ctx, owner)

	return converter.ImageToResponse(image), nil
}

// mapConstraintError turns a unique violation (e.g. a second primary image)
// into ErrConflict.
func mapConstraintError(err error) error {
	if isDuplicateKeyError(err, "") {
		return ErrConflict
	}
	return err
}
