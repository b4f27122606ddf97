package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

const succeeded = `{
  "id": "evt_1",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {"object": {"id": "pi_123", "object": "payment_intent", "amount": 2000, "metadata": {"invoiceId": "inv-1"}}}
}`

func TestParseWebhook(t *testing.T) {
	g := NewStripeGateway("whsec_test")
	payload := []byte(succeeded)

	event, err := g.ParseWebhook(payload, sign(payload, "whsec_test", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.PaymentID)
	assert.Equal(t, "inv-1", event.InvoiceID)
	assert.Equal(t, int64(2000), event.Amount)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	g := NewStripeGateway("whsec_test")
	payload := []byte(succeeded)

	_, err := g.ParseWebhook(payload, sign(payload, "other", time.Now()))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = g.ParseWebhook(payload, sign(payload, "whsec_test", time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidSignature, "stale timestamps are rejected")
}

func TestParseWebhook_OtherEvent(t *testing.T) {
	g := NewStripeGateway("whsec_test")
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`)

	event, err := g.ParseWebhook(payload, sign(payload, "whsec_test", time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "charge.refunded", event.Type)
	assert.Empty(t, event.InvoiceID)
}
