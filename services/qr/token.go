package qr

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	qrcode "github.com/skip2/go-qrcode"

	"parkwise/models"
)

// ErrInvalidQRCode is returned for payloads that fail verification.
var ErrInvalidQRCode = models.NewRejection("invalidQRCode", "the scanned code is not a valid vehicle code")

const pngSize = 256

// Claims is the signed content of a vehicle QR code.
type Claims struct {
	VehicleID string `json:"vid"`
	Plate     string `json:"plate,omitempty"`
	jwt.StandardClaims
}

// Service issues and verifies vehicle QR payloads.
type Service interface {
	Issue(v models.Vehicle) (string, error)
	Verify(payload string) (*Claims, error)
	PNG(payload string) ([]byte, error)
}

// SignedService signs payloads as HS256 JWTs.
type SignedService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedService returns a Service. A ttl of zero issues codes that never expire.
func NewSignedService(secret string, ttl time.Duration) *SignedService {
	return &SignedService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *SignedService) Issue(v models.Vehicle) (string, error) {
	if v.ID == "" {
		return "", errors.New("vehicle id is required")
	}
	now := s.now()
	claims := Claims{
		VehicleID: v.ID,
		Plate:     v.PlateNumber,
		StandardClaims: jwt.StandardClaims{
			IssuedAt: now.Unix(),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = now.Add(s.ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign qr payload: %w", err)
	}
	return signed, nil
}

func (s *SignedService) Verify(payload string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(payload, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidQRCode
	}
	if claims.VehicleID == "" {
		return nil, ErrInvalidQRCode
	}
	return claims, nil
}

// PNG renders the payload as a QR image.
func (s *SignedService) PNG(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, pngSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr image: %w", err)
	}
	return png, nil
}
