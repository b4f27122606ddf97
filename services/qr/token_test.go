package qr

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwise/models"
)

var car = models.Vehicle{ID: "veh-1", PlateNumber: "KDA123A"}

func TestIssueAndVerify(t *testing.T) {
	svc := NewSignedService("secret", 0)

	payload, err := svc.Issue(car)
	require.NoError(t, err)

	claims, err := svc.Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, "veh-1", claims.VehicleID)
	assert.Equal(t, "KDA123A", claims.Plate)
	assert.Zero(t, claims.ExpiresAt)
}

func TestVerify_RejectsOtherSecret(t *testing.T) {
	payload, err := NewSignedService("secret", 0).Issue(car)
	require.NoError(t, err)

	_, err = NewSignedService("other", 0).Verify(payload)
	assert.ErrorIs(t, err, ErrInvalidQRCode)
}

func TestVerify_RejectsExpired(t *testing.T) {
	svc := NewSignedService("secret", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	payload, err := svc.Issue(car)
	require.NoError(t, err)

	_, err = svc.Verify(payload)
	assert.ErrorIs(t, err, ErrInvalidQRCode)
}

func TestVerify_RejectsGarbage(t *testing.T) {
	svc := NewSignedService("secret", 0)
	for _, p := range []string{"", "veh-1", "a.b.c"} {
		_, err := svc.Verify(p)
		assert.ErrorIs(t, err, ErrInvalidQRCode, "payload %q", p)
	}
}

func TestIssue_RequiresVehicleID(t *testing.T) {
	_, err := NewSignedService("secret", 0).Issue(models.Vehicle{})
	assert.Error(t, err)
}

func TestPNG(t *testing.T) {
	svc := NewSignedService("secret", 0)
	png, err := svc.PNG("hello")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
