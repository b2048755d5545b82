package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"medtour-backend/internal/converter"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/domain/repository"
	"medtour-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FAQUsecase interface {
	ListFAQs(ctx context.Context, ownerType string, ownerID uint64, activeOnly bool) (*dto.FAQListResponse, error)
	CreateFAQ(ctx context.Context, ownerType string, ownerID uint64, req *dto.CreateFAQRequest) (*dto.FAQResponse, error)
	UpdateFAQ(ctx context.Context, faqID uint64, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error)
	SoftDeleteFAQ(ctx context.Context, faqID uint64) error
}

type faqUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	faqRepo      repository.FAQRepository
	ownerRepo    repository.OwnerRepository
	auditService service.AuditService
	cache        service.AssetCache
}

func NewFAQUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	faqRepo repository.FAQRepository,
	ownerRepo repository.OwnerRepository,
	auditService service.AuditService,
	cache service.AssetCache,
) FAQUsecase {
	return &faqUsecase{
		db:           db,
		log:          log,
		faqRepo:      faqRepo,
		ownerRepo:    ownerRepo,
		auditService: auditService,
		cache:        cache,
	}
}

// ListFAQs returns the owner's FAQs by position. Public callers pass
// activeOnly so soft-deleted entries stay hidden.
func (u *faqUsecase) ListFAQs(ctx context.Context, ownerType string, ownerID uint64, activeOnly bool) (*dto.FAQListResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	var faqs []entity.FAQ
	cached := false
	gen := service.NoGeneration
	if activeOnly {
		faqs, gen, cached = u.cache.GetActiveFAQs(ctx, owner)
	}
	if !cached {
		faqs, err = u.faqRepo.FindByOwner(u.db.WithContext(ctx), owner, activeOnly)
		if err != nil {
			u.log.Warnf("Failed to find faqs for %s: %+v", owner, err)
			return nil, err
		}
		if activeOnly {
			u.cache.SetActiveFAQs(ctx, owner, gen, faqs)
		}
	}

	return &dto.FAQListResponse{
		FAQs:  converter.FAQsToResponses(faqs),
		Total: len(faqs),
	}, nil
}

func (u *faqUsecase) CreateFAQ(ctx context.Context, ownerType string, ownerID uint64, req *dto.CreateFAQRequest) (*dto.FAQResponse, error) {
	owner, err := entity.NewOwnerRef(ownerType, ownerID)
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" {
		return nil, invalidArgument("question is required")
	}
	if answer == "" {
		return nil, invalidArgument("answer is required")
	}
	if req.Position < 0 {
		return nil, invalidArgument("position must not be negative")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	exists, err := u.ownerRepo.Exists(tx, owner)
	if err != nil {
		u.log.Warnf("Failed to check owner %s: %+v", owner, err)
		return nil, err
	}
	if !exists {
		return nil, ErrOwnerNotFound
	}

	active := true
	faq := &entity.FAQ{
		OwnerType: owner.Kind,
		OwnerID:   owner.ID,
		Question:  question,
		Answer:    answer,
		Position:  req.Position,
		IsActive:  &active,
	}
	if err := u.faqRepo.Create(tx, faq); err != nil {
		u.log.Warnf("Failed to create faq: %+v", err)
		return nil, err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogCreate(ctx, tx, &userID, entity.AuditActionFAQCreate, "faq", strconv.FormatUint(faq.ID, 10), converter.FAQToResponse(faq)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.cache.Invalidate(ctx, owner)

	return converter.FAQToResponse(faq), nil
}

// UpdateFAQ changes only the supplied fields.
func (u *faqUsecase) UpdateFAQ(ctx context.Context, faqID uint64, req *dto.UpdateFAQRequest) (*dto.FAQResponse, error) {
	fields := map[string]interface{}{}
	if req.Question != nil {
		q := strings.TrimSpace(*req.Question)
		if q == "" {
			return nil, invalidArgument("question must not be empty")
		}
		fields["question"] = q
	}
	if req.Answer != nil {
		a := strings.TrimSpace(*req.Answer)
		if a == "" {
			return nil, invalidArgument("answer must not be empty")
		}
		fields["answer"] = a
	}
	if req.Position != nil {
		if *req.Position < 0 {
			return nil, invalidArgument("position must not be negative")
		}
		fields["position"] = *req.Position
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	faq, err := u.faqRepo.FindByID(tx, faqID)
	if err != nil {
		u.log.Warnf("Failed to find faq: %+v", err)
		return nil, err
	}
	if faq == nil {
		return nil, ErrFAQNotFound
	}
	if len(fields) == 0 {
		return converter.FAQToResponse(faq), nil
	}

	before := converter.FAQToResponse(faq)
	fields["updated_at"] = time.Now()
	if err := u.faqRepo.Update(tx, faq, fields); err != nil {
		u.log.Warnf("Failed to update faq: %+v", err)
		return nil, err
	}
	applyFAQFields(faq, fields)

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogUpdate(ctx, tx, &userID, entity.AuditActionFAQUpdate, "faq", strconv.FormatUint(faq.ID, 10), before, converter.FAQToResponse(faq)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	u.cache.Invalidate(ctx, faq.Owner())

	return converter.FAQToResponse(faq), nil
}

// SoftDeleteFAQ deactivates the FAQ. Deleting an inactive FAQ again succeeds
// without writing anything.
func (u *faqUsecase) SoftDeleteFAQ(ctx context.Context, faqID uint64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	faq, err := u.faqRepo.FindByID(tx, faqID)
	if err != nil {
		u.log.Warnf("Failed to find faq: %+v", err)
		return err
	}
	if faq == nil {
		return ErrFAQNotFound
	}
	if !faq.Active() {
		return nil
	}

	fields := map[string]interface{}{
		"is_active":  false,
		"updated_at": time.Now(),
	}
	if err := u.faqRepo.Update(tx, faq, fields); err != nil {
		u.log.Warnf("Failed to deactivate faq: %+v", err)
		return err
	}

	userID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogDelete(ctx, tx, &userID, entity.AuditActionFAQDelete, "faq", strconv.FormatUint(faq.ID, 10), converter.FAQToResponse(faq)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	u.cache.Invalidate(ctx, faq.Owner())

	return nil
}

func applyFAQFields(faq *entity.FAQ, fields map[string]interface{}) {
	if v, ok := fields["question"].(string); ok {
		faq.Question = v
	}
	if v, ok := fields["answer"].(string); ok {
		faq.Answer = v
	}
	if v, ok := fields["position"].(int); ok {
		faq.Position = v
	}
	if v, ok := fields["is_active"].(bool); ok {
		faq.IsActive = &v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		faq.UpdatedAt = v
	}
}
