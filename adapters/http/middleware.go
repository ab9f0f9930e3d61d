package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/weihsuanlee/guidemap/internal/application/service"
)

const GinContextKeyUserInfo = "userInfo"

// UserInfoMiddleware resolves the Authorization header into a UserInfo.
// Requests without a header proceed as anonymous; mutating use cases reject
// those. A header that is present but invalid is a hard failure.
func UserInfoMiddleware(verifier service.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(GinContextKeyUserInfo, service.Anonymous())
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		userInfo, err := verifier.VerifyCaller(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyUserInfo, userInfo)

		c.Next()
	}
}

func GetUserInfoFromGinContext(c *gin.Context) service.UserInfo {
	value, ok := c.Get(GinContextKeyUserInfo)
	if !ok {
		return service.Anonymous()
	}
	userInfo, ok := value.(service.UserInfo)
	if !ok {
		return service.Anonymous()
	}
	return userInfo
}
