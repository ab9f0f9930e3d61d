package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/weihsuanlee/guidemap/internal/application/service"
)

type fakeVerifier struct {
	userInfo service.UserInfo
	err      error
}

func (f *fakeVerifier) VerifyCaller(_ context.Context, _ string) (service.UserInfo, error) {
	if f.err != nil {
		return service.Anonymous(), f.err
	}
	return f.userInfo, nil
}

func performRequest(verifier service.TokenVerifier, authHeader string) (*httptest.ResponseRecorder, service.UserInfo) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(UserInfoMiddleware(verifier))

	var resolved service.UserInfo
	router.GET("/probe", func(c *gin.Context) {
		resolved = GetUserInfoFromGinContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder, resolved
}

func TestUserInfoMiddleware(t *testing.T) {
	t.Run("no header resolves to anonymous", func(t *testing.T) {
		recorder, resolved := performRequest(&fakeVerifier{}, "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, resolved.IsKnown)
	})

	t.Run("valid bearer token resolves the caller", func(t *testing.T) {
		verifier := &fakeVerifier{
			userInfo: service.UserInfo{IsKnown: true, UserID: "user-1", DisplayName: "Wei"},
		}
		recorder, resolved := performRequest(verifier, "Bearer good-token")

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, resolved.IsKnown)
		assert.Equal(t, "user-1", resolved.UserID)
	})

	t.Run("malformed header is a hard failure", func(t *testing.T) {
		recorder, _ := performRequest(&fakeVerifier{}, "Token abc")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("rejected token is a hard failure", func(t *testing.T) {
		verifier := &fakeVerifier{err: errors.New("bad signature")}
		recorder, _ := performRequest(verifier, "Bearer bad-token")

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
