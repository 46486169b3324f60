package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/efine-sl/efine-api/utils"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	totpPeriod    = 30
	totpSkew      = 1
	totpQRSizePx  = 200
	totpCodeDigit = 6
)

// TOTPSecret is a freshly generated shared secret and its provisioning artefacts
type TOTPSecret struct {
	Secret        string
	OTPAuthURL    string
	QRCodeDataURL string
}

// TOTPService generates and verifies time-based one-time codes. It is stateless.
type TOTPService interface {
	GenerateSecret(accountName string) (*TOTPSecret, error)
	// Verify accepts the code for the current 30s step or either adjacent step
	Verify(secret, code string) bool
}

type totpServiceImpl struct {
	issuer string
	now    func() time.Time
}

// NewTOTPService creates a TOTP engine; otpauth URLs carry the given issuer
func NewTOTPService(issuer string) TOTPService {
	if issuer == "" {
		issuer = utils.TOTPIssuer
	}
	return &totpServiceImpl{issuer: issuer, now: utils.UTCNow}
}

func (s *totpServiceImpl) validateOpts() totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

func (s *totpServiceImpl) GenerateSecret(accountName string) (*TOTPSecret, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      totpPeriod,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp secret: %w", err)
	}

	img, err := key.Image(totpQRSizePx, totpQRSizePx)
	if err != nil {
		return nil, fmt.Errorf("failed to render totp qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode totp qr code: %w", err)
	}

	return &TOTPSecret{
		Secret:        key.Secret(),
		OTPAuthURL:    key.URL(),
		QRCodeDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func (s *totpServiceImpl) Verify(secret, code string) bool {
	code = strings.TrimSpace(code)
	if secret == "" || len(code) != totpCodeDigit {
		return false
	}
	ok, err := totp.ValidateCustom(code, secret, s.now(), s.validateOpts())
	return err == nil && ok
}
