package qr

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchantPayloadRoundTrip(t *testing.T) {
	merchantID := uuid.New()

	payload, err := EncodeMerchant(merchantID, "Cafe Sidi Bou")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TUNFIN:MERCHANT:%s:Cafe Sidi Bou", merchantID), payload)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, KindMerchant, decoded.Kind)
	assert.Equal(t, merchantID, decoded.MerchantID)
	assert.Equal(t, "Cafe Sidi Bou", decoded.MerchantName)
	assert.False(t, decoded.Expired(time.Now().Add(100*time.Hour)))
}

func TestPaymentPayloadRoundTrip(t *testing.T) {
	merchantID := uuid.New()
	amount := decimal.RequireFromString("45.500")
	expires := time.Now().Add(15 * time.Minute).Truncate(time.Second)

	payload, err := EncodePayment(merchantID, "Librairie El Kitab", amount, "TND", expires)
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, KindPayment, decoded.Kind)
	assert.Equal(t, merchantID, decoded.MerchantID)
	assert.Equal(t, "Librairie El Kitab", decoded.MerchantName)
	assert.True(t, decoded.Amount.Equal(amount))
	assert.Equal(t, "TND", decoded.Currency)
	assert.True(t, decoded.ExpiresAt.Equal(expires))

	assert.False(t, decoded.Expired(expires.Add(-time.Minute)))
	assert.True(t, decoded.Expired(expires.Add(time.Minute)))
}

func TestDecode_MalformedPayloads(t *testing.T) {
	validID := uuid.New().String()

	payloads := []string{
		"",
		"garbage",
		"TUNFIN",
		"TUNFIN:MERCHANT",
		"TUNFIN:MERCHANT:" + validID,
		"TUNFIN:MERCHANT:not-a-uuid:Shop",
		"TUNFIN:MERCHANT:" + validID + ":",
		"TUNFIN:UNKNOWN:" + validID + ":Shop",
		"OTHER:MERCHANT:" + validID + ":Shop",
		"TUNFIN:PAYMENT:" + validID + ":Shop",
		"TUNFIN:PAYMENT:" + validID + ":Shop:abc:TND:1700000000",
		"TUNFIN:PAYMENT:" + validID + ":Shop:-5:TND:1700000000",
		"TUNFIN:PAYMENT:" + validID + ":Shop:10:TUNISIAN:1700000000",
		"TUNFIN:PAYMENT:" + validID + ":Shop:10:TND:not-a-time",
		"TUNFIN:PAYMENT:" + validID + ":Shop:10:TND:1700000000:extra",
	}

	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			decoded, err := Decode(payload)
			assert.Nil(t, decoded)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestEncode_RejectsSeparatorInName(t *testing.T) {
	_, err := EncodeMerchant(uuid.New(), "bad:name")
	assert.Error(t, err)

	_, err = EncodePayment(uuid.New(), "bad:name", decimal.NewFromInt(10), "TND", time.Now())
	assert.Error(t, err)

	_, err = EncodeMerchant(uuid.New(), "")
	assert.Error(t, err)
}
