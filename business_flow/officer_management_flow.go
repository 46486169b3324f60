package businessflow

import (
	"context"
	"errors"
	"strings"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// OfficerManagementFlow handles the admin panel's police officer operations
type OfficerManagementFlow interface {
	ListOfficers(ctx context.Context, query dto.ListQuery) (*dto.PaginatedResponse[dto.OfficerDTO], error)
	CreateOfficer(ctx context.Context, actor *models.Admin, req *dto.CreateOfficerRequest) (*dto.OfficerResponse, error)
	UpdateOfficer(ctx context.Context, actor *models.Admin, officerID string, req *dto.UpdateOfficerRequest) (*dto.OfficerResponse, error)
	DeleteOfficer(ctx context.Context, actor *models.Admin, officerID string) (*dto.MessageResponse, error)
}

type OfficerManagementFlowImpl struct {
	officerRepo repository.PoliceOfficerRepository
	bcryptCost  int
	stats       StatsInvalidator
}

func NewOfficerManagementFlow(officerRepo repository.PoliceOfficerRepository, bcryptCost int, stats StatsInvalidator) OfficerManagementFlow {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = utils.DefaultBcryptCost
	}
	return &OfficerManagementFlowImpl{
		officerRepo: officerRepo,
		bcryptCost:  bcryptCost,
		stats:       stats,
	}
}

func (f *OfficerManagementFlowImpl) ListOfficers(ctx context.Context, query dto.ListQuery) (*dto.PaginatedResponse[dto.OfficerDTO], error) {
	page := NormalizePage(query.Page, query.Limit)

	filter := models.PoliceOfficerFilter{}
	if s := strings.TrimSpace(query.Search); s != "" {
		filter.Search = &s
	}

	officers, err := f.officerRepo.ByFilter(ctx, filter, "created_at DESC", page.Limit, page.Offset())
	if err != nil {
		return nil, NewBusinessError("OFFICER_LIST_FAILED", "Failed to list officers", err)
	}
	total, err := f.officerRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("OFFICER_COUNT_FAILED", "Failed to count officers", err)
	}

	return dto.NewPaginatedResponse(mapAll(officers, ToOfficerDTO), total, page.Number, page.Limit), nil
}

func (f *OfficerManagementFlowImpl) CreateOfficer(ctx context.Context, actor *models.Admin, req *dto.CreateOfficerRequest) (*dto.OfficerResponse, error) {
	if req == nil || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.BadgeNumber) == "" || req.Password == "" ||
		strings.TrimSpace(req.PoliceStation) == "" || strings.TrimSpace(req.Position) == "" {
		return nil, NewBusinessError("OFFICER_VALIDATION_FAILED", "Please provide all required fields", ErrBadRequest)
	}

	email := utils.NormalizeEmail(req.Email)
	badge := strings.TrimSpace(req.BadgeNumber)

	exists, err := f.officerRepo.Exists(ctx, models.PoliceOfficerFilter{BadgeNumber: &badge})
	if err != nil {
		return nil, NewBusinessError("OFFICER_LOOKUP_FAILED", "Failed to check badge number", err)
	}
	if !exists {
		exists, err = f.officerRepo.Exists(ctx, models.PoliceOfficerFilter{Email: &email})
		if err != nil {
			return nil, NewBusinessError("OFFICER_LOOKUP_FAILED", "Failed to check email", err)
		}
	}
	if exists {
		return nil, NewBusinessError("OFFICER_ALREADY_EXISTS", "Officer with this badge number or email already exists", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), f.bcryptCost)
	if err != nil {
		return nil, NewBusinessError("PASSWORD_HASH_FAILED", "Failed to hash password", err)
	}

	image := strings.TrimSpace(req.ProfileImage)
	if image == "" {
		image = utils.DefaultOfficerProfileImage
	}

	officer := &models.PoliceOfficer{
		UUID:          uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		BadgeNumber:   badge,
		Email:         email,
		PasswordHash:  string(hash),
		Station:       strings.TrimSpace(req.Station),
		PoliceStation: strings.TrimSpace(req.PoliceStation),
		Position:      strings.TrimSpace(req.Position),
		Phone:         strings.TrimSpace(req.Phone),
		ProfileImage:  image,
		Role:          models.OfficerRoleOfficer,
	}
	if err := f.officerRepo.Save(ctx, officer); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewBusinessError("OFFICER_ALREADY_EXISTS", "Officer with this badge number or email already exists", ErrConflict)
		}
		return nil, NewBusinessError("OFFICER_CREATE_FAILED", "Failed to create officer", err)
	}
	f.invalidate(ctx)

	zap.L().Info("officer created",
		zap.String("actor_id", actorID(actor)),
		zap.String("officer_id", officer.UUID.String()),
		zap.String("badge_number", officer.BadgeNumber),
	)

	return &dto.OfficerResponse{
		Success: true,
		Message: "Officer created successfully",
		Officer: ToOfficerDTO(officer),
	}, nil
}

func (f *OfficerManagementFlowImpl) loadOfficer(ctx context.Context, officerID string) (*models.PoliceOfficer, error) {
	officer, err := f.officerRepo.ByUUID(ctx, officerID)
	if err != nil {
		return nil, NewBusinessError("OFFICER_LOOKUP_FAILED", "Failed to load officer", err)
	}
	if officer == nil {
		return nil, NewBusinessError("OFFICER_NOT_FOUND", "Officer not found", ErrNotFound)
	}
	return officer, nil
}

func (f *OfficerManagementFlowImpl) UpdateOfficer(ctx context.Context, actor *models.Admin, officerID string, req *dto.UpdateOfficerRequest) (*dto.OfficerResponse, error) {
	officer, err := f.loadOfficer(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if req != nil {
		if v := strings.TrimSpace(req.Name); v != "" {
			officer.Name = v
		}
		if v := utils.NormalizeEmail(req.Email); v != "" && v != officer.Email {
			taken, err := f.officerRepo.ByEmail(ctx, v)
			if err != nil {
				return nil, NewBusinessError("OFFICER_LOOKUP_FAILED", "Failed to check email", err)
			}
			if taken != nil && taken.ID != officer.ID {
				return nil, NewBusinessError("OFFICER_EMAIL_TAKEN", "Email already in use by another officer", ErrConflict)
			}
			officer.Email = v
		}
		if v := strings.TrimSpace(req.PoliceStation); v != "" {
			officer.PoliceStation = v
		}
		if v := strings.TrimSpace(req.Position); v != "" {
			officer.Position = v
		}
		if v := strings.TrimSpace(req.ProfileImage); v != "" {
			officer.ProfileImage = v
		}
	}

	if err := f.officerRepo.Update(ctx, officer); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, NewBusinessError("OFFICER_EMAIL_TAKEN", "Email already in use by another officer", ErrConflict)
		}
		return nil, NewBusinessError("OFFICER_UPDATE_FAILED", "Failed to update officer", err)
	}

	zap.L().Info("officer updated",
		zap.String("actor_id", actorID(actor)),
		zap.String("officer_id", officer.UUID.String()),
	)

	return &dto.OfficerResponse{
		Success: true,
		Message: "Officer updated successfully",
		Officer: ToOfficerDTO(officer),
	}, nil
}

func (f *OfficerManagementFlowImpl) DeleteOfficer(ctx context.Context, actor *models.Admin, officerID string) (*dto.MessageResponse, error) {
	officer, err := f.loadOfficer(ctx, officerID)
	if err != nil {
		return nil, err
	}
	if err := f.officerRepo.Delete(ctx, officer.ID); err != nil {
		return nil, NewBusinessError("OFFICER_DELETE_FAILED", "Failed to delete officer", err)
	}
	f.invalidate(ctx)

	zap.L().Info("officer deleted",
		zap.String("actor_id", actorID(actor)),
		zap.String("officer_id", officer.UUID.String()),
	)

	return &dto.MessageResponse{Success: true, Message: "Officer deleted successfully"}, nil
}

func (f *OfficerManagementFlowImpl) invalidate(ctx context.Context) {
	if f.stats != nil {
		f.stats.InvalidateStats(ctx)
	}
}
