package usecase

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"medtour-backend/config"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/internal/repository"
	"medtour-backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxBytes:          1024,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "webp", "gif"},
		MaxImagesPerOwner: 4,
	}
}

func newTestUploadUsecase(t *testing.T, intake AssetIntake) (UploadUsecase, sqlmock.Sqlmock, *recordingAudit, *memoryCache) {
	db, mock := newMockDB(t)
	audit := &recordingAudit{}
	cache := newMemoryCache()
	uc := NewUploadUsecase(db, quietLogger(), repository.NewImageRepository(), repository.NewOwnerRepository(), audit, cache, intake)
	return uc, mock, audit, cache
}

func newLocalIntake() (*storage.Intake, afero.Fs) {
	fs := afero.NewMemMapFs()
	return storage.NewIntake(storage.NewLocalFileBackend(fs, "media", "/media"), testUploadConfig()), fs
}

func storedFiles(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	var names []string
	_ = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	return names
}

func expectCapacity(mock sqlmock.Sqlmock, table string, exists bool, count int64) {
	n := int64(0)
	if exists {
		n = 1
	}
	mock.ExpectQuery(`SELECT count\(\*\) FROM "` + table + `"`).WillReturnRows(countRow(n))
	if exists {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(count))
	}
}

func TestUploadUsecase_UploadThenPromote(t *testing.T) {
	intake, fs := newLocalIntake()
	db, mock := newMockDB(t)
	audit := &recordingAudit{}
	cache := newMemoryCache()
	imageRepo := repository.NewImageRepository()
	upload := NewUploadUsecase(db, quietLogger(), imageRepo, repository.NewOwnerRepository(), audit, cache, intake)
	images := NewImageUsecase(db, quietLogger(), imageRepo, audit, cache, intake)
	ctx := context.Background()

	expectCapacity(mock, "doctors", true, 0)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectCapacity(mock, "doctors", true, 0)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(0))
	mock.ExpectExec(`UPDATE "images" SET "is_primary"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "images"`).WillReturnRows(idRow(10))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(1))
	mock.ExpectQuery(`INSERT INTO "images"`).WillReturnRows(idRow(11))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(2))
	mock.ExpectQuery(`INSERT INTO "images"`).WillReturnRows(idRow(12))
	mock.ExpectCommit()

	files := []dto.UploadFile{
		{Filename: "a.jpg", Data: pngBytes},
		{Filename: "b.png", Data: pngBytes},
		{Filename: "c.webp", Data: pngBytes},
	}
	res, err := upload.UploadImages(ctx, "doctor", 42, files, true)
	require.NoError(t, err)
	require.Equal(t, 3, res.Total)
	for i, img := range res.Images {
		require.NotNil(t, img.Position)
		assert.Equal(t, i, *img.Position)
		assert.Equal(t, i == 0, img.IsPrimary)
		assert.True(t, strings.HasPrefix(img.URL, "/media/doctor/"), img.URL)
	}
	assert.Len(t, storedFiles(t, fs, "media/doctor"), 3)
	assert.Len(t, audit.actions(), 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "images"`).
		WillReturnRows(imageRows(entity.Image{ID: 12, OwnerType: entity.OwnerDoctor, OwnerID: 42, URL: res.Images[2].URL, Position: intPtr(2)}))
	mock.ExpectExec(`UPDATE "images" SET "is_primary"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "images" SET "is_primary"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	primary, err := images.SetPrimary(ctx, "doctor", 42, 12)
	require.NoError(t, err)
	assert.True(t, primary.IsPrimary)
	assert.Equal(t, res.Images[2].URL, primary.URL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadUsecase_UploadImagesRejected(t *testing.T) {
	tests := []struct {
		name      string
		ownerType string
		files     []dto.UploadFile
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name:      "disallowed extension",
			ownerType: "doctor",
			files:     []dto.UploadFile{{Filename: "ok.jpg", Data: pngBytes}, {Filename: "virus.exe", Data: pngBytes}},
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   storage.ErrInvalidExtension,
		},
		{
			name:      "empty file",
			ownerType: "doctor",
			files:     []dto.UploadFile{{Filename: "empty.png"}},
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   storage.ErrEmptyFile,
		},
		{
			name:      "too large",
			ownerType: "doctor",
			files:     []dto.UploadFile{{Filename: "big.png", Data: make([]byte, 2048)}},
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   storage.ErrFileTooLarge,
		},
		{
			name:      "no files",
			ownerType: "doctor",
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrInvalidArgument,
		},
		{
			name:      "unknown kind",
			ownerType: "clinic",
			files:     []dto.UploadFile{{Filename: "a.jpg", Data: pngBytes}},
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   entity.ErrInvalidOwnerKind,
		},
		{
			name:      "missing owner",
			ownerType: "doctor",
			files:     []dto.UploadFile{{Filename: "a.jpg", Data: pngBytes}},
			setupMock: func(mock sqlmock.Sqlmock) {
				expectCapacity(mock, "doctors", false, 0)
			},
			wantErr: ErrOwnerNotFound,
		},
		{
			name:      "limit reached",
			ownerType: "doctor",
			files:     []dto.UploadFile{{Filename: "a.jpg", Data: pngBytes}, {Filename: "b.jpg", Data: pngBytes}},
			setupMock: func(mock sqlmock.Sqlmock) {
				expectCapacity(mock, "doctors", true, 3)
			},
			wantErr: ErrImageLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake, fs := newLocalIntake()
			uc, mock, _, _ := newTestUploadUsecase(t, intake)
			tt.setupMock(mock)

			_, err := uc.UploadImages(context.Background(), tt.ownerType, 42, tt.files, false)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, storedFiles(t, fs, "media"))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUploadUsecase_UploadImagesCleansUpOnDBFailure(t *testing.T) {
	intake, fs := newLocalIntake()
	uc, mock, _, cache := newTestUploadUsecase(t, intake)

	expectCapacity(mock, "hospitals", true, 0)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectCapacity(mock, "hospitals", true, 0)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(0))
	mock.ExpectQuery(`INSERT INTO "images"`).WillReturnRows(idRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(1))
	mock.ExpectQuery(`INSERT INTO "images"`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	files := []dto.UploadFile{{Filename: "a.jpg", Data: pngBytes}, {Filename: "b.jpg", Data: pngBytes}}
	_, err := uc.UploadImages(context.Background(), "hospital", 5, files, false)
	assert.Error(t, err)
	assert.Empty(t, storedFiles(t, fs, "media"))
	assert.Empty(t, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadUsecase_UploadImagesLimitRaceLosesUnderLock(t *testing.T) {
	intake, fs := newLocalIntake()
	uc, mock, _, _ := newTestUploadUsecase(t, intake)

	expectCapacity(mock, "offers", true, 3)
	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectCapacity(mock, "offers", true, 4)
	mock.ExpectRollback()

	_, err := uc.UploadImages(context.Background(), "offer", 2, []dto.UploadFile{{Filename: "a.gif", Data: pngBytes}}, false)
	assert.ErrorIs(t, err, ErrImageLimitReached)
	assert.Empty(t, storedFiles(t, fs, "media"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// bucketStub is an object store that already holds presigned uploads.
type bucketStub struct {
	sizes map[string]int64
}

func (b *bucketStub) Write(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return b.URLFor(key), nil
}

func (b *bucketStub) Remove(context.Context, string) error { return nil }

func (b *bucketStub) PresignPut(_ context.Context, key string) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.test/put/" + key,
		Key:       key,
		URL:       b.URLFor(key),
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (b *bucketStub) Stat(_ context.Context, key string) (int64, error) {
	size, ok := b.sizes[key]
	if !ok {
		return 0, storage.ErrObjectNotFound
	}
	return size, nil
}

func (b *bucketStub) URLFor(key string) string {
	return "https://cdn.test/" + key
}

func TestUploadUsecase_PresignImage(t *testing.T) {
	t.Run("issues url under owner kind", func(t *testing.T) {
		intake := storage.NewIntake(&bucketStub{}, testUploadConfig())
		uc, mock, _, _ := newTestUploadUsecase(t, intake)
		expectCapacity(mock, "sliders", true, 1)

		res, err := uc.PresignImage(context.Background(), "slider", 6, &dto.PresignImageRequest{Filename: "hero.PNG"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Key, "slider/"), res.Key)
		assert.True(t, strings.HasSuffix(res.Key, ".png"), res.Key)
		assert.Equal(t, "https://cdn.test/"+res.Key, res.URL)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("local storage cannot presign", func(t *testing.T) {
		intake, _ := newLocalIntake()
		uc, mock, _, _ := newTestUploadUsecase(t, intake)
		expectCapacity(mock, "sliders", true, 0)

		_, err := uc.PresignImage(context.Background(), "slider", 6, &dto.PresignImageRequest{Filename: "hero.png"})
		assert.ErrorIs(t, err, storage.ErrPresignUnsupported)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUploadUsecase_ConfirmImage(t *testing.T) {
	bucket := &bucketStub{sizes: map[string]int64{"blog/abc.jpg": 100}}

	tests := []struct {
		name      string
		key       string
		setupMock func(sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "registers object",
			key:  "blog/abc.jpg",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT \* FROM "images"`).WillReturnRows(sqlmock.NewRows(imageColumns))
				expectCapacity(mock, "blogs", true, 0)
				mock.ExpectQuery(`SELECT count\(\*\) FROM "images"`).WillReturnRows(countRow(0))
				mock.ExpectExec(`UPDATE "images" SET "is_primary"`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`INSERT INTO "images"`).WillReturnRows(idRow(70))
				mock.ExpectCommit()
			},
		},
		{
			name:      "key of another kind",
			key:       "doctor/abc.jpg",
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrInvalidArgument,
		},
		{
			name:      "path traversal",
			key:       "blog/../doctor/abc.jpg",
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   ErrInvalidArgument,
		},
		{
			name:      "object never uploaded",
			key:       "blog/missing.jpg",
			setupMock: func(mock sqlmock.Sqlmock) {},
			wantErr:   storage.ErrObjectNotFound,
		},
		{
			name: "already registered",
			key:  "blog/abc.jpg",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT \* FROM "images"`).
					WillReturnRows(imageRows(entity.Image{ID: 70, OwnerType: entity.OwnerBlog, OwnerID: 8, URL: "https://cdn.test/blog/abc.jpg"}))
				mock.ExpectRollback()
			},
			wantErr: ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intake := storage.NewIntake(bucket, testUploadConfig())
			uc, mock, _, _ := newTestUploadUsecase(t, intake)
			tt.setupMock(mock)

			res, err := uc.ConfirmImage(context.Background(), "blog", 8, &dto.ConfirmImageRequest{Key: tt.key, IsPrimary: true})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "https://cdn.test/blog/abc.jpg", res.URL)
				assert.True(t, res.IsPrimary)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
