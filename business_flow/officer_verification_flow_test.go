package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerificationFixture(notifier *fakeNotifier) (OfficerVerificationFlow, *fakeVerificationRepo) {
	stations := &fakeStationRepo{stations: []*models.PoliceStation{
		{StationCode: "CMB01", Name: "Colombo Fort", OfficialEmail: "oic.fort@police.lk"},
	}}
	verifications := &fakeVerificationRepo{}
	return NewOfficerVerificationFlow(stations, verifications, notifier), verifications
}

func TestRequestAndConfirmVerification(t *testing.T) {
	notifier := &fakeNotifier{}
	flow, repo := newVerificationFixture(notifier)
	ctx := context.Background()

	resp, err := flow.RequestVerification(ctx, &dto.RequestVerificationRequest{BadgeNumber: "PC-1", StationCode: "CMB01"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Verification code sent to OIC of Colombo Fort", resp.Message)
	require.Len(t, notifier.codes, 1)
	assert.Equal(t, []string{"oic.fort@police.lk"}, notifier.recipients)
	code := notifier.codes[0]
	assert.Len(t, code, 6)
	assert.Regexp(t, `^\d{6}$`, code)

	// a second request replaces the first code
	_, err = flow.RequestVerification(ctx, &dto.RequestVerificationRequest{BadgeNumber: "PC-1", StationCode: "CMB01"}, nil)
	require.NoError(t, err)
	assert.Len(t, repo.records, 1)
	code = notifier.codes[1]

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = flow.ConfirmVerification(ctx, &dto.ConfirmVerificationRequest{BadgeNumber: "PC-1", Code: wrong})
	assert.True(t, IsBadRequest(err))

	_, err = flow.ConfirmVerification(ctx, &dto.ConfirmVerificationRequest{BadgeNumber: "PC-1", Code: code})
	require.NoError(t, err)
	assert.Empty(t, repo.records)

	_, err = flow.ConfirmVerification(ctx, &dto.ConfirmVerificationRequest{BadgeNumber: "PC-1", Code: code})
	assert.True(t, IsBadRequest(err), "codes are single use")
}

func TestConfirmVerification_Expired(t *testing.T) {
	flow, repo := newVerificationFixture(&fakeNotifier{})
	repo.records = append(repo.records, &models.Verification{
		BadgeNumber: "PC-9",
		Code:        "123456",
		ExpiresAt:   time.Now().UTC().Add(-time.Second),
	})
	_, err := flow.ConfirmVerification(context.Background(), &dto.ConfirmVerificationRequest{BadgeNumber: "PC-9", Code: "123456"})
	assert.True(t, IsBadRequest(err))
}

func TestRequestVerification_Failures(t *testing.T) {
	ctx := context.Background()

	flow, _ := newVerificationFixture(&fakeNotifier{})
	_, err := flow.RequestVerification(ctx, &dto.RequestVerificationRequest{BadgeNumber: "PC-1"}, nil)
	assert.True(t, IsBadRequest(err))
	_, err = flow.RequestVerification(ctx, &dto.RequestVerificationRequest{BadgeNumber: "PC-1", StationCode: "NOPE"}, nil)
	assert.True(t, IsNotFound(err))

	flow, _ = newVerificationFixture(&fakeNotifier{err: errors.New("smtp down")})
	_, err = flow.RequestVerification(ctx, &dto.RequestVerificationRequest{BadgeNumber: "PC-1", StationCode: "CMB01"}, nil)
	assert.True(t, IsDeliveryFailed(err))
}

func TestListStations(t *testing.T) {
	flow, _ := newVerificationFixture(&fakeNotifier{})
	stations, err := flow.ListStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "CMB01", stations[0].StationCode)
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateNumericCode(6)
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
