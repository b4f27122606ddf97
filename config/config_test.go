package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "parkwise", cfg.DatabaseName)
	assert.Equal(t, 2, cfg.RedisQueueDB)
	assert.Equal(t, "usd", cfg.Billing.DefaultCurrency)
	assert.Equal(t, "22:00", cfg.Billing.OvernightStart)
	assert.Equal(t, 72, cfg.Billing.PaymentDueHours)
	assert.Equal(t, "reject", cfg.Scan.RescanMode)
	assert.Equal(t, 5*time.Second, cfg.Scan.LockTTL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SCAN_RESCAN_MODE", "checkout")
	t.Setenv("PAYMENT_DUE_HOURS", "24")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "checkout", cfg.Scan.RescanMode)
	assert.Equal(t, 24, cfg.Billing.PaymentDueHours)
}

func TestIsProduction(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig.Env = "production"
	assert.True(t, IsProduction())
	AppConfig.Env = "development"
	assert.False(t, IsProduction())
}

func TestValidate_RejectsDefaultQRSecretInProduction(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate(), "development may use the default secret")

	cfg.Env = "production"
	assert.Error(t, cfg.Validate())

	cfg.QRSigningSecret = ""
	assert.Error(t, cfg.Validate())

	cfg.QRSigningSecret = "a-real-secret"
	assert.NoError(t, cfg.Validate())
}
