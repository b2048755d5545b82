package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medtour-backend/config"
	"medtour-backend/internal/delivery/dto"
	"medtour-backend/internal/delivery/http/middleware"
	"medtour-backend/internal/usecase"
	"medtour-backend/pkg/jwt"
	"medtour-backend/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthUsecase struct {
	tokens         *dto.TokenResponse
	user           *dto.UserResponse
	err            error
	loggedOut      uuid.UUID
	accessTokenID  string
	refreshTokenID string
}

func (f *fakeAuthUsecase) Login(context.Context, *dto.LoginRequest) (*dto.TokenResponse, error) {
	return f.tokens, f.err
}

func (f *fakeAuthUsecase) Logout(_ context.Context, userID uuid.UUID, accessTokenID, refreshTokenID string) error {
	f.loggedOut, f.accessTokenID, f.refreshTokenID = userID, accessTokenID, refreshTokenID
	return f.err
}

func (f *fakeAuthUsecase) RefreshToken(context.Context, *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return f.tokens, f.err
}

func (f *fakeAuthUsecase) GetCurrentUser(context.Context, uuid.UUID) (*dto.UserResponse, error) {
	return f.user, f.err
}

func (f *fakeAuthUsecase) SeedAdmin(context.Context, config.AdminSeedConfig) error {
	return nil
}

func testJWT() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "handler-test",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"ok", `{"email":"admin@example.com","password":"secret"}`, nil, http.StatusOK},
		{"malformed", `{"email":`, nil, http.StatusBadRequest},
		{"invalid email", `{"email":"admin","password":"secret"}`, nil, http.StatusBadRequest},
		{"wrong password", `{"email":"admin@example.com","password":"nope"}`, usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthUsecase{tokens: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}, err: tt.err}
			h := NewAuthHandler(auth, validator.NewValidator(), testJWT())

			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	jwtService := testJWT()
	userID := uuid.New()
	access, accessID, err := jwtService.GenerateAccessToken(userID, "admin@example.com", 1)
	require.NoError(t, err)
	claims, err := jwtService.ValidateToken(access)
	require.NoError(t, err)
	refresh, refreshID, err := jwtService.GenerateRefreshToken(userID, "admin@example.com", 1)
	require.NoError(t, err)
	foreign, _, err := jwtService.GenerateRefreshToken(uuid.New(), "other@example.com", 1)
	require.NoError(t, err)

	tests := []struct {
		name        string
		body        string
		wantRefresh string
	}{
		{"own refresh token", `{"refresh_token":"` + refresh + `"}`, refreshID},
		{"access token in body", `{"refresh_token":"` + access + `"}`, ""},
		{"someone else's token", `{"refresh_token":"` + foreign + `"}`, ""},
		{"no body", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthUsecase{}
			h := NewAuthHandler(auth, validator.NewValidator(), jwtService)

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(tt.body))
			req = req.WithContext(middleware.WithClaims(req.Context(), claims))
			rec := httptest.NewRecorder()
			h.Logout(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, userID, auth.loggedOut)
			assert.Equal(t, accessID, auth.accessTokenID)
			assert.Equal(t, tt.wantRefresh, auth.refreshTokenID)
		})
	}
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	auth := &fakeAuthUsecase{err: usecase.ErrTokenRevoked}
	h := NewAuthHandler(auth, validator.NewValidator(), testJWT())

	rec := httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{"refresh_token":"x"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	auth := &fakeAuthUsecase{user: &dto.UserResponse{Email: "admin@example.com", Role: "admin"}}
	h := NewAuthHandler(auth, validator.NewValidator(), testJWT())

	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req = req.WithContext(middleware.WithClaims(req.Context(), &jwt.Claims{UserID: uuid.New(), TokenID: "t", RoleID: 1}))
	rec = httptest.NewRecorder()
	h.GetCurrentUser(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
