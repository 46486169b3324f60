package businessflow

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/services"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"go.uber.org/zap"
)

// OfficerVerificationFlow sends a one-time code to a station's OIC so they can vouch for a registering officer
type OfficerVerificationFlow interface {
	RequestVerification(ctx context.Context, req *dto.RequestVerificationRequest, metadata *ClientMetadata) (*dto.MessageResponse, error)
	ConfirmVerification(ctx context.Context, req *dto.ConfirmVerificationRequest) (*dto.MessageResponse, error)
	ListStations(ctx context.Context) ([]dto.StationDTO, error)
}

type OfficerVerificationFlowImpl struct {
	stationRepo      repository.PoliceStationRepository
	verificationRepo repository.VerificationRepository
	notifier         services.NotificationService
}

func NewOfficerVerificationFlow(stationRepo repository.PoliceStationRepository, verificationRepo repository.VerificationRepository, notifier services.NotificationService) OfficerVerificationFlow {
	return &OfficerVerificationFlowImpl{
		stationRepo:      stationRepo,
		verificationRepo: verificationRepo,
		notifier:         notifier,
	}
}

func (f *OfficerVerificationFlowImpl) RequestVerification(ctx context.Context, req *dto.RequestVerificationRequest, metadata *ClientMetadata) (*dto.MessageResponse, error) {
	if req == nil || strings.TrimSpace(req.BadgeNumber) == "" || strings.TrimSpace(req.StationCode) == "" {
		return nil, NewBusinessError("VERIFICATION_VALIDATION_FAILED", "Please provide badgeNumber and stationCode", ErrBadRequest)
	}
	badge := strings.TrimSpace(req.BadgeNumber)

	station, err := f.stationRepo.ByCode(ctx, strings.TrimSpace(req.StationCode))
	if err != nil {
		return nil, NewBusinessError("STATION_LOOKUP_FAILED", "Failed to load station", err)
	}
	if station == nil {
		return nil, NewBusinessError("STATION_NOT_FOUND", "Invalid Station Code", ErrNotFound)
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return nil, NewBusinessError("CODE_GENERATION_FAILED", "Failed to generate verification code", err)
	}

	if err := f.verificationRepo.DeleteByBadge(ctx, badge); err != nil {
		return nil, NewBusinessError("VERIFICATION_STORE_FAILED", "Failed to reset previous codes", err)
	}
	if err := f.verificationRepo.Save(ctx, &models.Verification{
		BadgeNumber: badge,
		StationCode: station.StationCode,
		Code:        code,
		ExpiresAt:   utils.UTCNowAdd(utils.OfficerVerificationExpiry),
	}); err != nil {
		return nil, NewBusinessError("VERIFICATION_STORE_FAILED", "Failed to store verification code", err)
	}

	if err := f.notifier.SendOfficerVerificationCode(ctx, station.OfficialEmail, station.Name, badge, code); err != nil {
		zap.L().Error("verification email not delivered",
			zap.String("station_code", station.StationCode),
			zap.String("badge_number", badge),
			zap.Error(err),
		)
		return nil, NewBusinessError("EMAIL_DELIVERY_FAILED", "Email could not be sent", ErrDeliveryFailed)
	}

	fields := []zap.Field{
		zap.String("station_code", station.StationCode),
		zap.String("badge_number", badge),
	}
	if metadata != nil {
		fields = append(fields, zap.String("ip", metadata.IPAddress), zap.String("request_id", metadata.RequestID))
	}
	zap.L().Info("officer verification code sent", fields...)

	return &dto.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Verification code sent to OIC of %s", station.Name),
	}, nil
}

// ConfirmVerification accepts the newest unexpired code for the badge and consumes it
func (f *OfficerVerificationFlowImpl) ConfirmVerification(ctx context.Context, req *dto.ConfirmVerificationRequest) (*dto.MessageResponse, error) {
	if req == nil || strings.TrimSpace(req.BadgeNumber) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, NewBusinessError("VERIFICATION_VALIDATION_FAILED", "Please provide badgeNumber and code", ErrBadRequest)
	}
	badge := strings.TrimSpace(req.BadgeNumber)

	v, err := f.verificationRepo.LatestByBadge(ctx, badge)
	if err != nil {
		return nil, NewBusinessError("VERIFICATION_LOOKUP_FAILED", "Failed to load verification code", err)
	}
	if v == nil || utils.IsExpired(v.ExpiresAt) ||
		subtle.ConstantTimeCompare([]byte(v.Code), []byte(strings.TrimSpace(req.Code))) != 1 {
		return nil, NewBusinessError("INVALID_VERIFICATION_CODE", "Invalid or expired verification code", ErrBadRequest)
	}

	if err := f.verificationRepo.DeleteByBadge(ctx, badge); err != nil {
		return nil, NewBusinessError("VERIFICATION_STORE_FAILED", "Failed to consume verification code", err)
	}

	zap.L().Info("officer verification confirmed", zap.String("badge_number", badge))

	return &dto.MessageResponse{Success: true, Message: "Officer verified successfully"}, nil
}

func (f *OfficerVerificationFlowImpl) ListStations(ctx context.Context) ([]dto.StationDTO, error) {
	stations, err := f.stationRepo.List(ctx)
	if err != nil {
		return nil, NewBusinessError("STATION_LIST_FAILED", "Failed to list stations", err)
	}
	return mapAll(stations, func(s *models.PoliceStation) dto.StationDTO {
		return dto.StationDTO{StationCode: s.StationCode, Name: s.Name}
	}), nil
}

func generateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
