package middleware

import (
	"context"
	"net/http"

	"parkwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScannerKeyVerifier checks a gate-scanner key against a lot.
type ScannerKeyVerifier interface {
	VerifyScannerKey(ctx context.Context, lotID, key string) (bool, error)
}

// ScannerCache holds the hash of the lot's last verified key. It is cleared when
// the key is rotated.
type ScannerCache interface {
	VerifiedKey(ctx context.Context, lotID string) (string, error)
	RememberKey(ctx context.Context, lotID, keyHash string) error
}

// ScannerAuthMiddleware authenticates gate scanners by X-Lot-ID and X-Scanner-Key.
// Successful checks are cached so bcrypt runs once per key and TTL.
func ScannerAuthMiddleware(verifier ScannerKeyVerifier, cache ScannerCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		lotID := c.GetHeader("X-Lot-ID")
		key := c.GetHeader("X-Scanner-Key")
		if lotID == "" || key == "" {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Missing scanner credentials", "")
			return
		}

		ctx := c.Request.Context()
		keyHash := utils.HashToken(key)
		if cache != nil {
			cached, err := cache.VerifiedKey(ctx, lotID)
			if err != nil {
				utils.GetLogger().Warn("scanner cache unavailable", zap.Error(err))
			} else if cached == keyHash {
				c.Set(ctxLotID, lotID)
				c.Next()
				return
			}
		}

		ok, err := verifier.VerifyScannerKey(ctx, lotID, key)
		if err != nil {
			utils.GetLogger().Error("scanner key check failed", zap.String("lotId", lotID), zap.Error(err))
			utils.JSONErrorCode(c, http.StatusInternalServerError, "internal", "Internal server error", "")
			return
		}
		if !ok {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Invalid scanner credentials", "")
			return
		}
		if cache != nil {
			if err := cache.RememberKey(ctx, lotID, keyHash); err != nil {
				utils.GetLogger().Warn("failed to cache scanner key", zap.Error(err))
			}
		}
		c.Set(ctxLotID, lotID)
		c.Next()
	}
}
