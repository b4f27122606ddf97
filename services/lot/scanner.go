package lot

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const scannerKeyBytes = 24

// RotateScannerKey issues a new gate-scanner key for the lot. Only the bcrypt hash
// is stored, so the returned key cannot be retrieved again.
func (s *DefaultLotService) RotateScannerKey(ctx context.Context, id string) (string, error) {
	if _, err := s.GetLot(ctx, id); err != nil {
		return "", err
	}
	buf := make([]byte, scannerKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate scanner key: %w", err)
	}
	key := hex.EncodeToString(buf)

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash scanner key: %w", err)
	}
	if err := s.Lots.SetScannerKeyHash(ctx, id, string(hash)); err != nil {
		return "", err
	}
	if s.KeyCache != nil {
		if err := s.KeyCache.ForgetLot(ctx, id); err != nil {
			return "", fmt.Errorf("scanner key rotated but the old key is still cached: %w", err)
		}
	}
	s.logger().Info("scanner key rotated", zap.String("lotId", id))
	return key, nil
}

func (s *DefaultLotService) VerifyScannerKey(ctx context.Context, id, key string) (bool, error) {
	lot, err := s.Lots.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if lot == nil || lot.ScannerKeyHash == "" || key == "" {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(lot.ScannerKeyHash), []byte(key)); err != nil {
		return false, nil
	}
	return true, nil
}

