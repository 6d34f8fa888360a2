package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradehub/internal/auth"
	"gradehub/internal/shared/config"
	"gradehub/internal/shared/errs"
	"gradehub/internal/users"
)

type fakeDirectory struct {
	users map[string]*users.User
}

func (d *fakeDirectory) FindByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, errs.ErrUnknownIdentity
	}
	return user, nil
}

type fakeResolver struct {
	owners map[string]string
}

func (r *fakeResolver) OwnerOf(ctx context.Context, resourceID string) (string, error) {
	owner, ok := r.owners[resourceID]
	if !ok {
		return "", errs.ErrSubmissionNotFound
	}
	return owner, nil
}

type fixture struct {
	codec     *auth.TokenCodec
	directory *fakeDirectory
	authmw    *Auth
	student   *users.User
	teacher   *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec := auth.NewTokenCodec(config.AuthConfig{
		Secret:           "test-secret",
		AccessExpiresIn:  15 * time.Minute,
		RefreshExpiresIn: 8760 * time.Hour,
	})

	student := &users.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: users.RoleStudent}
	teacher := &users.User{ID: uuid.New(), Name: "Grace", Email: "grace@example.com", Role: users.RoleTeacher}

	directory := &fakeDirectory{users: map[string]*users.User{
		student.ID.String(): student,
		teacher.ID.String(): teacher,
	}}

	return &fixture{
		codec:     codec,
		directory: directory,
		authmw:    NewAuth(codec, directory),
		student:   student,
		teacher:   teacher,
	}
}

func (f *fixture) accessToken(t *testing.T, user *users.User) string {
	t.Helper()
	token, err := f.codec.Issue(auth.TokenKindAccess, user.ID.String())
	require.NoError(t, err)
	return token
}

func serve(engine *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func TestAuthenticated(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), func(c *gin.Context) {
		user, ok := Identity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": user.ID.String()})
	})

	rec := serve(engine, "/protected", "Bearer "+f.accessToken(t, f.student))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), f.student.ID.String())
}

func TestAuthenticated_MissingHeader(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), okHandler)

	rec := serve(engine, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Access token not found"}`, rec.Body.String())
}

func TestAuthenticated_MalformedHeader(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), okHandler)

	for _, header := range []string{"Bearer", "Basic abc", f.accessToken(t, f.student)} {
		rec := serve(engine, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthenticated_InvalidToken(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), okHandler)

	rec := serve(engine, "/protected", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid token"}`, rec.Body.String())
}

func TestAuthenticated_RefreshTokenRejected(t *testing.T) {
	f := newFixture(t)

	refresh, err := f.codec.Issue(auth.TokenKindRefresh, f.student.ID.String())
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), okHandler)

	rec := serve(engine, "/protected", "Bearer "+refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticated_UnknownIdentity(t *testing.T) {
	f := newFixture(t)

	// valid token whose subject was deleted from the directory
	ghost, err := f.codec.Issue(auth.TokenKindAccess, uuid.NewString())
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/protected", f.authmw.Authenticated(), okHandler)

	rec := serve(engine, "/protected", "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/teachers-only", f.authmw.Authenticated(), RequireRole(users.RoleTeacher), okHandler)

	rec := serve(engine, "/teachers-only", "Bearer "+f.accessToken(t, f.teacher))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(engine, "/teachers-only", "Bearer "+f.accessToken(t, f.student))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
}

func TestOwnsResource(t *testing.T) {
	f := newFixture(t)

	resolver := &fakeResolver{owners: map[string]string{
		"res-1": f.student.ID.String(),
	}}

	engine := gin.New()
	engine.GET("/resource/:id", f.authmw.Authenticated(), OwnsResource("id", resolver), okHandler)

	// owner passes
	rec := serve(engine, "/resource/res-1", "Bearer "+f.accessToken(t, f.student))
	assert.Equal(t, http.StatusOK, rec.Code)

	// non-owner is denied
	rec = serve(engine, "/resource/res-1", "Bearer "+f.accessToken(t, f.teacher))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// resolver errors pass through with their own status
	rec = serve(engine, "/resource/res-2", "Bearer "+f.accessToken(t, f.student))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBindCallerID(t *testing.T) {
	f := newFixture(t)

	engine := gin.New()
	engine.GET("/tasks", f.authmw.Authenticated(), RequireRole(users.RoleTeacher), BindCallerID("teacherId"), func(c *gin.Context) {
		id, ok := CallerID(c, "teacherId")
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"teacherId": id})
	})

	rec := serve(engine, "/tasks", "Bearer "+f.accessToken(t, f.teacher))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), f.teacher.ID.String())
}
