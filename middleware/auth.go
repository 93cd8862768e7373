package middleware

import (
	"context"
	"net/http"
	"strings"

	userRepo "skybook/database/repository/user"
	"skybook/models"
	"skybook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// principalKey is the gin context key the authenticated identity is stored
// under.
const principalKey = "principal"

// GetPrincipal returns the authenticated identity set by JWTAuthMiddleware.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := val.(models.Principal)
	return p, ok
}

// JWTAuthMiddleware authenticates requests with a Bearer JWT. The account
// record backing the token is cached in Redis so repeated requests skip the
// database; deactivated accounts are rejected.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		logger := utils.GetLogger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		userID, role, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		cacheKey := utils.AuthCachePrefix + userID
		authCache := utils.AuthCacheClient
		if authCache != nil {
			cachedRole, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
				c.Set(principalKey, models.Principal{ID: userID, Role: cachedRole})
				c.Next()
				return
			}
			if err != redis.Nil {
				logger.Warn("auth cache lookup failed, falling back to database", zap.Error(err))
			}
		}

		usr, err := users.GetByID(userID)
		if err != nil || usr == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			return
		}
		if !usr.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is deactivated"})
			return
		}
		// Trust the stored role over the token claim so demotions take
		// effect without waiting for token expiry.
		role = usr.Role

		if authCache != nil {
			if err := authCache.Set(ctx, cacheKey, role, utils.AuthCacheTTL).Err(); err != nil {
				logger.Warn("auth cache write failed", zap.Error(err))
			}
		}

		c.Set(principalKey, models.Principal{ID: userID, Role: role})
		c.Next()
	}
}
