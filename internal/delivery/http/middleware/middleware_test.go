package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"medtour-backend/config"
	"medtour-backend/internal/domain/entity"
	"medtour-backend/pkg/jwt"
	"medtour-backend/pkg/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenStore struct {
	valid map[string]bool
	err   error
}

func (s *stubTokenStore) Save(context.Context, jwt.TokenType, uuid.UUID, string, time.Duration) error {
	return nil
}

func (s *stubTokenStore) Exists(_ context.Context, _ jwt.TokenType, _ uuid.UUID, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.valid[tokenID], nil
}

func (s *stubTokenStore) Delete(context.Context, jwt.TokenType, uuid.UUID, ...string) error {
	return nil
}

func newJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := GetUserIDFromContext(r.Context())
		roleID, _ := GetRoleIDFromContext(r.Context())
		w.Header().Set("X-User", userID.String())
		w.Header().Set("X-Role", strconv.Itoa(roleID))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	jwtService := newJWT()
	userID := uuid.New()
	access, accessID, err := jwtService.GenerateAccessToken(userID, "editor@medtour.test", entity.RoleIDEditor)
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken(userID, "editor@medtour.test", entity.RoleIDEditor)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		store      *stubTokenStore
		wantStatus int
	}{
		{"valid token", "Bearer " + access, &stubTokenStore{valid: map[string]bool{accessID: true}}, http.StatusNoContent},
		{"missing header", "", &stubTokenStore{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + access, &stubTokenStore{}, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", &stubTokenStore{}, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, &stubTokenStore{valid: map[string]bool{accessID: true}}, http.StatusUnauthorized},
		{"revoked", "Bearer " + access, &stubTokenStore{valid: map[string]bool{}}, http.StatusUnauthorized},
		{"store down", "Bearer " + access, &stubTokenStore{err: assert.AnError}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthMiddleware(jwtService, tt.store).Authenticate(echoIdentity())
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, userID.String(), rec.Header().Get("X-User"))
				assert.Equal(t, "2", rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		guard      func(http.Handler) http.Handler
		roleID     *int
		wantStatus int
	}{
		{"admin passes admin guard", RequireAdmin, intPtr(entity.RoleIDAdmin), http.StatusNoContent},
		{"editor blocked by admin guard", RequireAdmin, intPtr(entity.RoleIDEditor), http.StatusForbidden},
		{"editor passes editor guard", RequireContentEditor, intPtr(entity.RoleIDEditor), http.StatusNoContent},
		{"unknown role blocked", RequireContentEditor, intPtr(99), http.StatusForbidden},
		{"no role in context", RequireContentEditor, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/faqs/1", nil)
			if tt.roleID != nil {
				req = req.WithContext(context.WithValue(req.Context(), RoleIDKey, *tt.roleID))
			}
			rec := httptest.NewRecorder()

			tt.guard(echoIdentity()).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func intPtr(i int) *int { return &i }

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	t.Run("wildcard", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewCORSMiddleware([]string{"*"}).Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("listed origin echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://admin.medtour.test")
		rec := httptest.NewRecorder()
		NewCORSMiddleware([]string{"https://admin.medtour.test/"}).Handle(next).ServeHTTP(rec, req)
		assert.Equal(t, "https://admin.medtour.test", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.test")
		rec := httptest.NewRecorder()
		NewCORSMiddleware([]string{"https://admin.medtour.test"}).Handle(next).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewCORSMiddleware(nil).Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestObserveMiddleware_RecordsRouteTemplate(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewMetrics("medtour", prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(NewObserveMiddleware(log, m).Handle)
	router.HandleFunc("/api/v1/owners/{owner_type}/{owner_id}/images", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/owners/doctor/"+id+"/images", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	count := testutil.ToFloat64(m.RequestCounter.WithLabelValues(http.MethodGet, "/api/v1/owners/{owner_type}/{owner_id}/images", "404"))
	assert.Equal(t, 2.0, count)
}
