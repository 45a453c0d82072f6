package qr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payload grammar:
//
//	TUNFIN:MERCHANT:{merchantId}:{merchantName}
//	TUNFIN:PAYMENT:{merchantId}:{merchantName}:{amount}:{currency}:{expiresAt}
//
// expiresAt is a unix timestamp in seconds. Merchant names must not
// contain the ':' separator; Encode rejects them rather than escaping.

const payloadPrefix = "TUNFIN"

const (
	KindMerchant = "MERCHANT"
	KindPayment  = "PAYMENT"
)

// Decoded is the parsed form of a QR payload.
type Decoded struct {
	Kind         string
	MerchantID   uuid.UUID
	MerchantName string
	Amount       decimal.Decimal
	Currency     string
	ExpiresAt    time.Time
}

// Expired reports whether a payment payload's validity window has passed.
// Merchant payloads never expire.
func (d *Decoded) Expired(now time.Time) bool {
	return d.Kind == KindPayment && now.After(d.ExpiresAt)
}

// EncodeMerchant builds the static payload identifying a merchant.
func EncodeMerchant(merchantID uuid.UUID, merchantName string) (string, error) {
	if err := checkName(merchantName); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%s", payloadPrefix, KindMerchant, merchantID, merchantName), nil
}

// EncodePayment builds the dynamic payload carrying a payment intent.
func EncodePayment(merchantID uuid.UUID, merchantName string, amount decimal.Decimal, currency string, expiresAt time.Time) (string, error) {
	if err := checkName(merchantName); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s:%d",
		payloadPrefix, KindPayment, merchantID, merchantName,
		amount.String(), currency, expiresAt.Unix()), nil
}

// Decode parses a payload. It returns ErrInvalidFormat for anything that
// does not match the grammar and never panics on malformed input. Expiry
// is carried in the result, not enforced here.
func Decode(payload string) (*Decoded, error) {
	parts := strings.Split(payload, ":")
	if len(parts) < 4 || parts[0] != payloadPrefix {
		return nil, ErrInvalidFormat
	}

	switch parts[1] {
	case KindMerchant:
		if len(parts) != 4 {
			return nil, ErrInvalidFormat
		}
		merchantID, err := uuid.Parse(parts[2])
		if err != nil {
			return nil, ErrInvalidFormat
		}
		if parts[3] == "" {
			return nil, ErrInvalidFormat
		}
		return &Decoded{
			Kind:         KindMerchant,
			MerchantID:   merchantID,
			MerchantName: parts[3],
		}, nil

	case KindPayment:
		if len(parts) != 7 {
			return nil, ErrInvalidFormat
		}
		merchantID, err := uuid.Parse(parts[2])
		if err != nil {
			return nil, ErrInvalidFormat
		}
		if parts[3] == "" {
			return nil, ErrInvalidFormat
		}
		amount, err := decimal.NewFromString(parts[4])
		if err != nil || !amount.IsPositive() {
			return nil, ErrInvalidFormat
		}
		if len(parts[5]) != 3 {
			return nil, ErrInvalidFormat
		}
		expires, err := strconv.ParseInt(parts[6], 10, 64)
		if err != nil {
			return nil, ErrInvalidFormat
		}
		return &Decoded{
			Kind:         KindPayment,
			MerchantID:   merchantID,
			MerchantName: parts[3],
			Amount:       amount,
			Currency:     parts[5],
			ExpiresAt:    time.Unix(expires, 0),
		}, nil
	}
	return nil, ErrInvalidFormat
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, ":") {
		return fmt.Errorf("invalid merchant name %q", name)
	}
	return nil
}
