package utils

import (
	"time"
)

type contextKey string

// Request-scoped context keys
const (
	RequestIDKey  contextKey = "request_id"
	UserAgentKey  contextKey = "user_agent"
	IPAddressKey  contextKey = "ip_address"
	EndpointKey   contextKey = "endpoint"
	TimeoutKey    contextKey = "timeout"
	CancelFuncKey contextKey = "cancel_func"
)

// Token and verification time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// OfficerVerificationExpiry is how long an OIC verification code stays valid
	OfficerVerificationExpiry = 10 * time.Minute

	// PendingEnrollmentTTL bounds the gap between registration init and complete
	PendingEnrollmentTTL = 10 * time.Minute
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	DefaultBcryptCost = 10
)

// Pagination defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Default avatars assigned at creation
const (
	DefaultAdminProfileImage   = "https://cdn-icons-png.flaticon.com/512/3135/3135715.png"
	DefaultOfficerProfileImage = "https://cdn-icons-png.flaticon.com/512/206/206853.png"
)

const (
	TOTPIssuer       = "e-Fine Admin"
	CurrencyLKR      = "LKR"
	RecentItemsLimit = 5
)
