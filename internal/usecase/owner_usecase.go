package usecase

import (
	"context"
	"regexp"
	"strings"

	"medtour-backend/internal/converter"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/domain/repository"
	"medtour-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	// Concurrent file removals after a cascade delete
	cascadeRemoveWorkers = 4
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	hundred          = decimal.NewFromInt(100)
)

type OwnerUsecase interface {
	ListOwners(ctx context.Context, ownerType string, page, limit int, activeOnly bool) (*dto.OwnerListResponse, error)
	GetOwner(ctx context.Context, ownerType string, ownerID uint64, public bool) (*dto.OwnerResponse, error)
	CreateOwner(ctx context.Context, ownerType string, req *dto.OwnerRequest) (*dto.OwnerResponse, error)
	UpdateOwner(ctx context.Context, ownerType string, ownerID uint64, req *dto.OwnerRequest) (*dto.OwnerResponse, error)
	DeleteOwner(ctx context.Context, ownerType string, ownerID uint64) (*dto.OwnerDeleteResponse, error)
}

type ownerUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	ownerRepo    repository.OwnerRepository
	imageRepo    repository.ImageRepository
	faqRepo      repository.FAQRepository
	imageUsecase ImageUsecase
	faqUsecase   FAQUsecase
	auditService service.AuditService
	cache        service.AssetCache
	remover      AssetRemover
}

func NewOwnerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ownerRepo repository.OwnerRepository,
	imageRepo repository.ImageRepository,
	faqRepo repository.FAQRepository,
	imageUsecase ImageUsecase,
	faqUsecase FAQUsecase,
	auditService service.AuditService,
	cache service.AssetCache,
	remover AssetRemover,
) OwnerUsecase {
	return &ownerUsecase{
		db:           db,
		log:          log,
		ownerRepo:    ownerRepo,
		imageRepo:    imageRepo,
		faqRepo:      faqRepo,
		imageUsecase: imageUsecase,
		faqUsecase:   faqUsecase,
		auditService: auditService,
		cache:        cache,
		remover:      remover,
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func (u *ownerUsecase) ListOwners(ctx context.Context, ownerType string, page, limit int, activeOnly bool) (*dto.OwnerListResponse, error) {
	kind, err := entity.ParseOwnerKind(ownerType)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	records, total, err := u.ownerRepo.FindAll(u.db.WithContext(ctx), kind, activeOnly, limit, (page-1)*limit)
	if err != nil {
		u.log.Warnf("Failed to list %s owners: %+v", kind, err)
		return nil, err
	}

	return &dto.OwnerListResponse{
		Owners: converter.OwnersToResponses(records),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// GetOwner returns the owner with its images and FAQs. Public reads hide
// inactive owners and inactive FAQs.
func (u *ownerUsecase) GetOwner(ctx context.Context, ownerType string, ownerID uint64, public bool) (*dto.OwnerResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	record, err := u.ownerRepo.FindByRef(u.db.WithContext(ctx), owner)
	if err != nil {
		u.log.Warnf("Failed to find owner %s: %+v", owner, err)
		return nil, err
	}
	if record == nil || (public && !isActiveRecord(record)) {
		return nil, ErrOwnerNotFound
	}

	images, err := u.imageUsecase.ListImages(ctx, ownerType, ownerID)
	if err != nil {
		return nil, err
	}
	faqs, err := u.faqUsecase.ListFAQs(ctx, ownerType, ownerID, public)
	if err != nil {
		return nil, err
	}

	resp := converter.OwnerToResponse(record)
	resp.Images = images.Images
	resp.FAQs = faqs.FAQs
	return resp, nil
}

func (u *ownerUsecase) CreateOwner(ctx context.Context, ownerType string, req *dto.OwnerRequest) (*dto.OwnerResponse, error) {
	kind, err := entity.ParseOwnerKind(ownerType)
	if err != nil {
		return nil, err
	}
	record, err := entity.NewOwnerRecord(kind)
	if err != nil {
		return nil, err
	}

	converter.ApplyOwnerRequest(record, req)
	if err := prepareOwnerRecord(record); err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ownerRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create %s: %+v", kind, err)
		if isDuplicateKeyError(err, "slug") {
			return nil, ErrConflict
		}
		if isForeignKeyError(err, "") {
			return nil, invalidArgument("referenced record does not exist")
		}
		return nil, err
	}

	ref := entity.OwnerRef{Kind: kind, ID: record.GetID()}
	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionOwnerCreate, string(kind), ref.String(), record); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.OwnerToResponse(record), nil
}

func (u *ownerUsecase) UpdateOwner(ctx context.Context, ownerType string, ownerID uint64, req *dto.OwnerRequest) (*dto.OwnerResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.ownerRepo.FindByRef(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to find owner %s: %+v", owner, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrOwnerNotFound
	}

	before := converter.OwnerToResponse(record)
	beforeName := before.Name
	converter.ApplyOwnerRequest(record, req)
	if err := prepareOwnerRecord(record); err != nil {
		return nil, err
	}

	if err := u.ownerRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update owner %s: %+v", owner, err)
		if isDuplicateKeyError(err, "slug") {
			return nil, ErrConflict
		}
		if isForeignKeyError(err, "") {
			return nil, invalidArgument("referenced record does not exist")
		}
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionOwnerUpdate, string(owner.Kind), owner.String(),
		map[string]interface{}{"name": beforeName}, record); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.OwnerToResponse(record), nil
}

// DeleteOwner removes the owner together with its images and FAQs in one
// transaction. Stored files are removed after commit.
func (u *ownerUsecase) DeleteOwner(ctx context.Context, ownerType string, ownerID uint64) (*dto.OwnerDeleteResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.ownerRepo.FindByRef(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to find owner %s: %+v", owner, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrOwnerNotFound
	}

	images, err := u.imageRepo.FindByOwner(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to find images for %s: %+v", owner, err)
		return nil, err
	}

	imagesDeleted, err := u.imageRepo.DeleteByOwner(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to delete images for %s: %+v", owner, err)
		return nil, err
	}
	faqsDeleted, err := u.faqRepo.DeleteByOwner(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to delete faqs for %s: %+v", owner, err)
		return nil, err
	}
	if _, err := u.ownerRepo.Delete(tx, owner); err != nil {
		u.log.Warnf("Failed to delete owner %s: %+v", owner, err)
		if isForeignKeyError(err, "") {
			return nil, ErrConflict
		}
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionOwnerDelete, string(owner.Kind), owner.String(), map[string]interface{}{
		"record":         record,
		"images_deleted": imagesDeleted,
		"faqs_deleted":   faqsDeleted,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.cache.Invalidate(ctx, owner)
	u.removeFiles(ctx, images)

	return &dto.OwnerDeleteResponse{
		ImagesDeleted: imagesDeleted,
		FAQsDeleted:   faqsDeleted,
	}, nil
}

func (u *ownerUsecase) removeFiles(ctx context.Context, images []entity.Image) {
	if u.remover == nil || len(images) == 0 {
		return
	}

	p := pool.New().WithMaxGoroutines(cascadeRemoveWorkers)
	for _, image := range images {
		url := image.URL
		p.Go(func() {
			if err := u.remover.Remove(ctx, url); err != nil {
				u.log.Warnf("Failed to remove stored file %s: %+v", url, err)
			}
		})
	}
	p.Wait()
}

// prepareOwnerRecord checks required fields and fills a missing blog slug.
func prepareOwnerRecord(record entity.OwnerRecord) error {
	if strings.TrimSpace(record.DisplayName()) == "" {
		if record.OwnerKind() == entity.OwnerSlider || record.OwnerKind() == entity.OwnerBlog {
			return invalidArgument("title is required")
		}
		return invalidArgument("name is required")
	}

	switch r := record.(type) {
	case *entity.Blog:
		if strings.TrimSpace(r.Slug) == "" {
			r.Slug = Slugify(r.Title)
		} else {
			r.Slug = Slugify(r.Slug)
		}
		if r.Slug == "" {
			return invalidArgument("slug is required")
		}
	case *entity.Treatment:
		if r.PriceMin != nil && r.PriceMax != nil && r.PriceMin.GreaterThan(*r.PriceMax) {
			return invalidArgument("price_min must not exceed price_max")
		}
	case *entity.Offer:
		if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
			return invalidArgument("end_date must not be before start_date")
		}
		if r.DiscountPercentage != nil && (r.DiscountPercentage.IsNegative() || r.DiscountPercentage.GreaterThan(hundred)) {
			return invalidArgument("discount_percentage must be between 0 and 100")
		}
	}
	return nil
}

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(slugInvalidChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func isActiveRecord(record entity.OwnerRecord) bool {
	var active *bool
	switch r := record.(type) {
	case *entity.Hospital:
		active = r.IsActive
	case *entity.Doctor:
		active = r.IsActive
	case *entity.Treatment:
		active = r.IsActive
	case *entity.Offer:
		active = r.IsActive
	case *entity.Slider:
		active = r.IsActive
	case *entity.Blog:
		active = r.IsActive
	}
	return active == nil || *active
}
