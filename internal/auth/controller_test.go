package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradehub/internal/shared/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *fakeRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret:           "test-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 8760 * time.Hour,
			BcryptCost:       4,
		},
	}

	repo := newFakeRepository()
	codec := NewTokenCodec(cfg.Auth)
	svc := NewService(repo, codec, NewHasher(cfg.Auth.BcryptCost))
	ctrl := NewController(svc, cfg)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewRouter(ctrl).SetupRoutes(api)
	return engine, repo
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func refreshCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	t.Fatal("refreshToken cookie not set")
	return nil
}

func TestRegisterEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body AccessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)

	// the refresh token travels only in the cookie, never in the body
	assert.NotContains(t, rec.Body.String(), "refreshToken")

	cookie := refreshCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)
}

func TestRegisterEndpoint_Validation(t *testing.T) {
	engine, _ := newTestRouter(t)

	// short password
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "short",
		"role":     "student",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unknown role
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	engine, _ := newTestRouter(t)

	payload := gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	}
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User already exists"}`, rec.Body.String())
}

func TestLoginEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body AccessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
	refreshCookieFrom(t, rec)
}

func TestLoginEndpoint_WrongPassword(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "ada@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
}

func TestLoginEndpoint_UnknownEmail(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, rec.Body.String())
}

func TestRefreshEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", gin.H{
		"name":     "Ada Lovelace",
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	cookie := refreshCookieFrom(t, rec)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/auth/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body AccessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)
}

func TestRefreshEndpoint_MissingCookie(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Refresh token not found"}`, rec.Body.String())
}

func TestRefreshEndpoint_BadCookie(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/refresh", nil,
		&http.Cookie{Name: "refreshToken", Value: "not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
}

func TestLogoutEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User logged out successfully"}`, rec.Body.String())

	cookie := refreshCookieFrom(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
