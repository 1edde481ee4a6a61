package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/homeward-labs/homegate-server/internal/api/http/context"
	"github.com/homeward-labs/homegate-server/internal/model"
	"github.com/homeward-labs/homegate-server/internal/testutil"
)

type fakeResolver struct {
	user model.SessionUser
	err  error
}

func (f *fakeResolver) ResolveSession(_ context.Context, sessionID string) (model.SessionUser, error) {
	if f.err != nil {
		return model.SessionUser{}, f.err
	}
	return f.user, nil
}

func runAuthenticated(t *testing.T, resolver SessionResolver, authHeader string) (*httptest.ResponseRecorder, model.SessionUser, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mgr := httpctx.NewManager()
	mw := NewAuthenticate(resolver, mgr, testutil.MakeNoopLogger())

	var (
		gotUser model.SessionUser
		gotOK   bool
	)
	engine := gin.New()
	engine.GET("/protected", mw.Handle(), func(c *gin.Context) {
		gotUser, gotOK = mgr.GetUserFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec, gotUser, gotOK
}

func TestAuthenticate_MissingToken(t *testing.T) {
	rec, _, ok := runAuthenticated(t, &fakeResolver{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthenticate_UnknownOrExpiredSession(t *testing.T) {
	rec, _, ok := runAuthenticated(t, &fakeResolver{err: model.ErrNotFound}, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthenticate_InfrastructureFailure(t *testing.T) {
	rec, _, ok := runAuthenticated(t, &fakeResolver{err: errors.New("connection reset")}, "Bearer tok")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, ok)
}

func TestAuthenticate_Success(t *testing.T) {
	user := model.SessionUser{ID: 7, FullName: "Alice Doe", Username: "alice", Location: "Rotterdam"}
	rec, gotUser, ok := runAuthenticated(t, &fakeResolver{user: user}, "Bearer tok")

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, user, gotUser)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", BearerToken(req))

	req.Header.Set("Authorization", "Bearer tok-123")
	assert.Equal(t, "tok-123", BearerToken(req))
}
