package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"parkwise/models"
	"parkwise/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	ctxUID   = "uid"
	ctxRole  = "role"
	ctxEmail = "email"
	ctxLotID = "lotID"
)

// TokenVerifier is satisfied by the Firebase Auth client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type cachedIdentity struct {
	UID   string `json:"uid"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

// FirebaseAuthMiddleware verifies the bearer ID token and stores the caller's
// uid and role in the context. Verified tokens are cached by hash when cache is set.
func FirebaseAuthMiddleware(verifier TokenVerifier, cache *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header", "")
			return
		}

		ctx := c.Request.Context()
		cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)

		if cache != nil {
			raw, err := cache.Get(ctx, cacheKey).Result()
			if err == nil {
				var id cachedIdentity
				if json.Unmarshal([]byte(raw), &id) == nil && id.UID != "" {
					setIdentity(c, id)
					c.Next()
					return
				}
			} else if err != redis.Nil {
				utils.GetLogger().Warn("auth cache unavailable, verifying token", zap.Error(err))
			}
		}

		token, err := verifier.VerifyIDToken(ctx, tokenString)
		if err != nil {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Invalid token", "")
			return
		}
		id := cachedIdentity{UID: token.UID, Role: models.RoleDriver}
		if role, ok := token.Claims["role"].(string); ok && role != "" {
			id.Role = role
		}
		if email, ok := token.Claims["email"].(string); ok {
			id.Email = email
		}

		if cache != nil {
			ttl := utils.AuthCacheTTL
			if untilExpiry := time.Until(time.Unix(token.Expires, 0)); untilExpiry < ttl {
				ttl = untilExpiry
			}
			if ttl > 0 {
				if b, err := json.Marshal(id); err == nil {
					_ = cache.Set(ctx, cacheKey, b, ttl).Err()
				}
			}
		}

		setIdentity(c, id)
		c.Next()
	}
}

func setIdentity(c *gin.Context, id cachedIdentity) {
	c.Set(ctxUID, id.UID)
	c.Set(ctxRole, id.Role)
	c.Set(ctxEmail, id.Email)
}

// CurrentUID returns the authenticated caller's uid.
func CurrentUID(c *gin.Context) string { return c.GetString(ctxUID) }

func CurrentEmail(c *gin.Context) string { return c.GetString(ctxEmail) }

// IsAdmin reports whether the caller carries the admin role claim.
func IsAdmin(c *gin.Context) bool { return c.GetString(ctxRole) == models.RoleAdmin }

// ScannerLotID returns the lot a gate scanner authenticated for.
func ScannerLotID(c *gin.Context) string { return c.GetString(ctxLotID) }
