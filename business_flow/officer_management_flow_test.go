package businessflow

import (
	"context"
	"testing"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/efine-sl/efine-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func validOfficerRequest() *dto.CreateOfficerRequest {
	return &dto.CreateOfficerRequest{
		Name:          "Sunil Silva",
		Email:         "Sunil@Police.lk",
		BadgeNumber:   "PC-1001",
		Password:      "secret1",
		PoliceStation: "Colombo Fort",
		Position:      "Constable",
	}
}

func TestCreateOfficer(t *testing.T) {
	repo := &fakeOfficerRepo{}
	stats := &countingInvalidator{}
	flow := NewOfficerManagementFlow(repo, bcrypt.MinCost, stats)
	ctx := context.Background()

	resp, err := flow.CreateOfficer(ctx, nil, validOfficerRequest())
	require.NoError(t, err)
	assert.Equal(t, "sunil@police.lk", resp.Officer.Email)
	assert.Equal(t, 1, stats.count())

	stored, _ := repo.ByBadgeNumber(ctx, "PC-1001")
	require.NotNil(t, stored)
	assert.Equal(t, utils.DefaultOfficerProfileImage, stored.ProfileImage)
	assert.Equal(t, models.OfficerRoleOfficer, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	dupBadge := validOfficerRequest()
	dupBadge.Email = "other@police.lk"
	_, err = flow.CreateOfficer(ctx, nil, dupBadge)
	assert.True(t, IsConflict(err))

	dupEmail := validOfficerRequest()
	dupEmail.BadgeNumber = "PC-2002"
	_, err = flow.CreateOfficer(ctx, nil, dupEmail)
	assert.True(t, IsConflict(err))

	missing := validOfficerRequest()
	missing.Position = ""
	_, err = flow.CreateOfficer(ctx, nil, missing)
	assert.True(t, IsBadRequest(err))
}

func TestCreateOfficer_DuplicateKeyFromStore(t *testing.T) {
	repo := &fakeOfficerRepo{saveErr: repository.ErrDuplicateKey}
	flow := NewOfficerManagementFlow(repo, bcrypt.MinCost, nil)
	_, err := flow.CreateOfficer(context.Background(), nil, validOfficerRequest())
	assert.True(t, IsConflict(err))
}

func TestUpdateAndDeleteOfficer(t *testing.T) {
	repo := &fakeOfficerRepo{}
	flow := NewOfficerManagementFlow(repo, bcrypt.MinCost, nil)
	ctx := context.Background()

	a := repo.add(&models.PoliceOfficer{Name: "A", BadgeNumber: "PC-1", Email: "a@police.lk"})
	repo.add(&models.PoliceOfficer{Name: "B", BadgeNumber: "PC-2", Email: "b@police.lk"})

	_, err := flow.UpdateOfficer(ctx, nil, a.UUID.String(), &dto.UpdateOfficerRequest{Email: "B@police.lk"})
	assert.True(t, IsConflict(err))

	resp, err := flow.UpdateOfficer(ctx, nil, a.UUID.String(), &dto.UpdateOfficerRequest{Name: "Anura", Position: "Sergeant"})
	require.NoError(t, err)
	assert.Equal(t, "Anura", resp.Officer.Name)
	stored, _ := repo.ByID(ctx, a.ID)
	assert.Equal(t, "Sergeant", stored.Position)
	assert.Equal(t, "a@police.lk", stored.Email)

	_, err = flow.DeleteOfficer(ctx, nil, a.UUID.String())
	require.NoError(t, err)
	gone, _ := repo.ByID(ctx, a.ID)
	assert.Nil(t, gone)

	_, err = flow.DeleteOfficer(ctx, nil, a.UUID.String())
	assert.True(t, IsNotFound(err))
}

func TestListOfficers(t *testing.T) {
	repo := &fakeOfficerRepo{}
	flow := NewOfficerManagementFlow(repo, bcrypt.MinCost, nil)
	resp, err := flow.ListOfficers(context.Background(), dto.ListQuery{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Data)
	assert.Zero(t, resp.Total)
	assert.Equal(t, 1, resp.Page)
}
