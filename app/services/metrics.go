package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	adminLoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efine_admin_login_attempts_total",
			Help: "Admin login attempts partitioned by outcome",
		},
		[]string{"outcome"},
	)

	finesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "efine_fines_issued_total",
			Help: "Number of fines issued by officers",
		},
	)

	finesPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "efine_fines_paid_total",
			Help: "Number of fines marked as paid",
		},
	)

	emailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "efine_emails_sent_total",
			Help: "Outbound emails partitioned by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordLogin counts an admin login attempt
func RecordLogin(outcome string) { adminLoginAttempts.WithLabelValues(outcome).Inc() }

func RecordFineIssued() { finesIssued.Inc() }

func RecordFinePaid() { finesPaid.Inc() }

func RecordEmail(outcome string) { emailsSent.WithLabelValues(outcome).Inc() }
