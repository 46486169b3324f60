package services

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// ErrPayHereNotConfigured is returned when merchant credentials are missing
var ErrPayHereNotConfigured = errors.New("payhere merchant credentials are not configured")

// PayHereService computes the checkout hash the PayHere gateway expects
type PayHereService interface {
	CheckoutHash(orderID string, amount float64, currency string) (string, error)
	MerchantID() string
}

type payHereServiceImpl struct {
	merchantID     string
	merchantSecret string
}

func NewPayHereService(merchantID, merchantSecret string) PayHereService {
	return &payHereServiceImpl{merchantID: merchantID, merchantSecret: merchantSecret}
}

func (s *payHereServiceImpl) MerchantID() string { return s.merchantID }

// CheckoutHash returns UPPER(MD5(merchant_id + order_id + amount + currency + UPPER(MD5(secret)))),
// with the amount fixed to two decimals and no grouping separators.
func (s *payHereServiceImpl) CheckoutHash(orderID string, amount float64, currency string) (string, error) {
	if s.merchantID == "" || s.merchantSecret == "" {
		return "", ErrPayHereNotConfigured
	}

	hashedSecret := upperMD5(s.merchantSecret)
	formatted := strconv.FormatFloat(amount, 'f', 2, 64)

	return upperMD5(s.merchantID + orderID + formatted + currency + hashedSecret), nil
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
