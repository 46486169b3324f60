package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_OfficerVerificationCode(t *testing.T) {
	sender := NewMockEmailSender()
	svc := NewNotificationService(sender)

	err := svc.SendOfficerVerificationCode(context.Background(), "oic.col07@police.lk", "Cinnamon Gardens", "PC12345", "048213")
	require.NoError(t, err)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "oic.col07@police.lk", sent[0].To)
	assert.Equal(t, "Action Required: Officer Verification Code", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "PC12345")
	assert.Contains(t, sent[0].HTMLBody, "048213")
	assert.Contains(t, sent[0].HTMLBody, "Cinnamon Gardens")
}

func TestNotificationService_EscapesInput(t *testing.T) {
	sender := NewMockEmailSender()
	svc := NewNotificationService(sender)

	require.NoError(t, svc.SendLicenseSuspended(context.Background(), "driver@example.com", "<b>Kamal</b>", "Repeated <script>speeding</script>"))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.NotContains(t, sent[0].HTMLBody, "<script>")
	assert.Contains(t, sent[0].HTMLBody, "&lt;b&gt;Kamal&lt;/b&gt;")
}

func TestNotificationService_Failures(t *testing.T) {
	sender := NewMockEmailSender()
	svc := NewNotificationService(sender)

	assert.Error(t, svc.SendLicenseActivated(context.Background(), "not-an-address", "Kamal"))
	assert.Empty(t, sender.Sent())

	sender.Err = errors.New("smtp down")
	assert.ErrorIs(t, svc.SendLicenseActivated(context.Background(), "driver@example.com", "Kamal"), sender.Err)

	assert.Error(t, NewNotificationService(nil).SendLicenseActivated(context.Background(), "driver@example.com", "Kamal"))
}
