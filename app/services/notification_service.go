package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// EmailMessage is a single outbound HTML email
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
}

// EmailSender delivers email messages
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NotificationService renders e-Fine notices and hands them to an EmailSender
type NotificationService interface {
	SendLicenseSuspended(ctx context.Context, to, driverName, reason string) error
	SendLicenseActivated(ctx context.Context, to, driverName string) error
	SendOfficerVerificationCode(ctx context.Context, to, stationName, badgeNumber, code string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	sender EmailSender
}

// NewNotificationService creates a new notification service
func NewNotificationService(sender EmailSender) NotificationService {
	return &NotificationServiceImpl{sender: sender}
}

func (s *NotificationServiceImpl) SendLicenseSuspended(ctx context.Context, to, driverName, reason string) error {
	body, err := render(licenseSuspendedTmpl, map[string]string{"Name": driverName, "Reason": reason})
	if err != nil {
		return err
	}
	return s.send(ctx, EmailMessage{To: to, Subject: "e-Fine SL: Driving Licence Suspended", HTMLBody: body})
}

func (s *NotificationServiceImpl) SendLicenseActivated(ctx context.Context, to, driverName string) error {
	body, err := render(licenseActivatedTmpl, map[string]string{"Name": driverName})
	if err != nil {
		return err
	}
	return s.send(ctx, EmailMessage{To: to, Subject: "e-Fine SL: Driving Licence Reactivated", HTMLBody: body})
}

func (s *NotificationServiceImpl) SendOfficerVerificationCode(ctx context.Context, to, stationName, badgeNumber, code string) error {
	body, err := render(officerVerificationTmpl, map[string]string{"Badge": badgeNumber, "Station": stationName, "Code": code})
	if err != nil {
		return err
	}
	return s.send(ctx, EmailMessage{To: to, Subject: "Action Required: Officer Verification Code", HTMLBody: body})
}

func (s *NotificationServiceImpl) send(ctx context.Context, msg EmailMessage) error {
	if s.sender == nil {
		return fmt.Errorf("email sender not configured")
	}
	if !strings.Contains(msg.To, "@") {
		return fmt.Errorf("invalid email address: %q", msg.To)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		RecordEmail("failed")
		return err
	}
	RecordEmail("sent")
	return nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// SMTPEmailSender delivers mail through an authenticated SMTP relay
type SMTPEmailSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string
}

func NewSMTPEmailSender(host string, port int, username, password, fromEmail, fromName string) EmailSender {
	return &SMTPEmailSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (p *SMTPEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	m := mail.NewMsg()
	if err := m.FromFormat(p.fromName, p.fromEmail); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(p.host,
		mail.WithPort(p.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(p.username),
		mail.WithPassword(p.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// MockEmailSender records messages instead of delivering them
type MockEmailSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	// Err, when set, is returned from every Send
	Err error
}

func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{}
}

func (p *MockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.sent = append(p.sent, msg)
	zap.L().Info("email captured by mock sender", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// Sent returns a copy of the captured messages
func (p *MockEmailSender) Sent() []EmailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EmailMessage, len(p.sent))
	copy(out, p.sent)
	return out
}
