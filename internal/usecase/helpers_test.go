package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

var imageColumns = []string{"id", "owner_type", "owner_id", "url", "is_primary", "position", "uploaded_at"}

func imageRows(images ...entity.Image) *sqlmock.Rows {
	rows := sqlmock.NewRows(imageColumns)
	for _, img := range images {
		var pos interface{}
		if img.Position != nil {
			pos = int64(*img.Position)
		}
		rows.AddRow(img.ID, string(img.OwnerType), img.OwnerID, img.URL, img.IsPrimary, pos, time.Now())
	}
	return rows
}

var faqColumns = []string{"id", "owner_type", "owner_id", "question", "answer", "position", "is_active", "created_at", "updated_at"}

func faqRows(faqs ...entity.FAQ) *sqlmock.Rows {
	rows := sqlmock.NewRows(faqColumns)
	for _, f := range faqs {
		rows.AddRow(f.ID, string(f.OwnerType), f.OwnerID, f.Question, f.Answer, f.Position, f.Active(), time.Now(), time.Now())
	}
	return rows
}

func idRow(id uint64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(id)
}

func countRow(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func intPtr(i int) *int { return &i }

type auditEntry struct {
	Action   string
	Entity   string
	EntityID string
}

// recordingAudit is an AuditService that keeps entries in memory.
type recordingAudit struct {
	mu      sync.Mutex
	entries []auditEntry
	err     error
}

var _ service.AuditService = (*recordingAudit)(nil)

func (a *recordingAudit) record(action, entityName, entityID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, auditEntry{Action: action, Entity: entityName, EntityID: entityID})
	return nil
}

func (a *recordingAudit) LogCreate(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action, entityName, entityID string, _ interface{}) error {
	return a.record(action, entityName, entityID)
}

func (a *recordingAudit) LogUpdate(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action, entityName, entityID string, _, _ interface{}) error {
	return a.record(action, entityName, entityID)
}

func (a *recordingAudit) LogDelete(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action, entityName, entityID string, _ interface{}) error {
	return a.record(action, entityName, entityID)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

// memoryCache is an AssetCache backed by maps; it records invalidations.
// Entries are tagged with the owner's generation like the redis cache.
type memoryCache struct {
	mu          sync.Mutex
	gens        map[entity.OwnerRef]int64
	images      map[entity.OwnerRef][]entity.Image
	faqs        map[entity.OwnerRef][]entity.FAQ
	invalidated []entity.OwnerRef
}

var _ service.AssetCache = (*memoryCache)(nil)

func newMemoryCache() *memoryCache {
	return &memoryCache{
		gens:   map[entity.OwnerRef]int64{},
		images: map[entity.OwnerRef][]entity.Image{},
		faqs:   map[entity.OwnerRef][]entity.FAQ{},
	}
}

func (c *memoryCache) GetImages(_ context.Context, owner entity.OwnerRef) ([]entity.Image, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	images, ok := c.images[owner]
	return images, c.gens[owner], ok
}

func (c *memoryCache) SetImages(_ context.Context, owner entity.OwnerRef, gen int64, images []entity.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[owner] {
		return
	}
	c.images[owner] = images
}

func (c *memoryCache) GetActiveFAQs(_ context.Context, owner entity.OwnerRef) ([]entity.FAQ, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	faqs, ok := c.faqs[owner]
	return faqs, c.gens[owner], ok
}

func (c *memoryCache) SetActiveFAQs(_ context.Context, owner entity.OwnerRef, gen int64, faqs []entity.FAQ) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gens[owner] {
		return
	}
	c.faqs[owner] = faqs
}

func (c *memoryCache) Invalidate(_ context.Context, owner entity.OwnerRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[owner]++
	delete(c.images, owner)
	delete(c.faqs, owner)
	c.invalidated = append(c.invalidated, owner)
}

// recordingRemover collects removed URLs.
type recordingRemover struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (r *recordingRemover) Remove(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, url)
	return r.err
}
