// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"context"
	"errors"
	"time"

	"github.com/efine-sl/efine-api/app/dto"
	"github.com/efine-sl/efine-api/app/handlers"
	"github.com/efine-sl/efine-api/app/middleware"
	_ "github.com/efine-sl/efine-api/docs"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	AdminAuth    handlers.AdminAuthHandlerInterface
	Enrollment   handlers.AdminEnrollmentHandlerInterface
	Drivers      handlers.DriverAdminHandlerInterface
	Officers     handlers.OfficerAdminHandlerInterface
	Fines        handlers.FineHandlerInterface
	Reports      handlers.ReportHandlerInterface
	Payment      handlers.PaymentHandlerInterface
	Verification handlers.VerificationHandlerInterface
}

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

type Options struct {
	AppName          string
	AllowOrigins     []string
	BodyLimit        int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	RateLimitMax     int
	AuthRateLimitMax int
	MetricsEnabled   bool
	MetricsPath      string
	EnableDocs       bool
	AccessLog        bool
}

type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	adminMW  *middleware.AdminAuthMiddleware
	checks   map[string]HealthCheck
	opts     Options
}

func NewFiberRouter(h Handlers, adminMW *middleware.AdminAuthMiddleware, checks map[string]HealthCheck, opts Options) *FiberRouter {
	if opts.AppName == "" {
		opts.AppName = "e-Fine SL API"
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = 4 * 1024 * 1024
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: errorHandler,
		BodyLimit:    opts.BodyLimit,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	})

	return &FiberRouter{
		app:      app,
		handlers: h,
		adminMW:  adminMW,
		checks:   checks,
		opts:     opts,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	r.app.Get("/health", r.healthCheck)
	if r.opts.MetricsEnabled {
		r.app.Get(r.opts.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}
	if r.opts.EnableDocs {
		r.app.Get("/swagger/doc.json", r.serveSwaggerJSON)
	}

	api := r.app.Group("/api")
	if r.opts.RateLimitMax > 0 {
		api.Use(rateLimiter(r.opts.RateLimitMax))
	}

	authLimit := func(c fiber.Ctx) error { return c.Next() }
	if r.opts.AuthRateLimitMax > 0 {
		authLimit = rateLimiter(r.opts.AuthRateLimitMax)
	}

	authenticate := r.adminMW.Authenticate()
	officerOrSuper := r.adminMW.RequireRole(models.AdminRoleAdminOfficer, models.AdminRoleSuperAdmin)
	superOnly := r.adminMW.RequireRole(models.AdminRoleSuperAdmin)

	// Admin panel
	admin := api.Group("/admin")
	admin.Get("/captcha", authLimit, r.handlers.AdminAuth.InitCaptcha)
	admin.Post("/login", authLimit, r.handlers.AdminAuth.Login)

	admin.Get("/me", authenticate, r.handlers.AdminAuth.Me)
	admin.Get("/dashboard/stats", authenticate, r.handlers.Reports.DashboardStats)

	admin.Get("/drivers", authenticate, r.handlers.Drivers.ListDrivers)
	admin.Get("/drivers/:id", authenticate, r.handlers.Drivers.GetDriver)
	admin.Put("/drivers/:id/suspend", authenticate, officerOrSuper, r.handlers.Drivers.SuspendDriver)
	admin.Put("/drivers/:id/activate", authenticate, officerOrSuper, r.handlers.Drivers.ActivateDriver)

	admin.Get("/officers", authenticate, r.handlers.Officers.ListOfficers)
	admin.Post("/officers", authenticate, officerOrSuper, r.handlers.Officers.CreateOfficer)
	admin.Put("/officers/:id", authenticate, officerOrSuper, r.handlers.Officers.UpdateOfficer)
	admin.Delete("/officers/:id", authenticate, superOnly, r.handlers.Officers.DeleteOfficer)

	admin.Get("/fines", authenticate, r.handlers.Fines.AdminListFines)
	admin.Put("/fines/offenses/:id", authenticate, officerOrSuper, r.handlers.Fines.AdminUpdateOffense)
	admin.Delete("/fines/offenses/:id", authenticate, superOnly, r.handlers.Fines.AdminDeleteOffense)
	admin.Get("/payments", authenticate, r.handlers.Fines.AdminListPayments)

	admin.Post("/reports/monthly-fines", authenticate, r.handlers.Reports.MonthlyFines)
	admin.Post("/reports/payments", authenticate, r.handlers.Reports.Payments)
	admin.Post("/reports/driver-violations", authenticate, r.handlers.Reports.DriverViolations)

	admin.Post("/2fa/generate", authenticate, r.handlers.AdminAuth.GenerateTwoFactor)
	admin.Post("/2fa/enable", authenticate, r.handlers.AdminAuth.EnableTwoFactor)
	admin.Post("/2fa/disable", authenticate, r.handlers.AdminAuth.DisableTwoFactor)

	admin.Post("/register/init", authenticate, superOnly, r.handlers.Enrollment.InitRegistration)
	admin.Post("/register/complete", authenticate, superOnly, r.handlers.Enrollment.CompleteRegistration)

	// Officer and driver apps
	fines := api.Group("/fines")
	fines.Get("/offenses", r.handlers.Fines.ListOffenses)
	fines.Post("/add", authenticate, officerOrSuper, r.handlers.Fines.AddOffense)
	fines.Post("/issue", r.handlers.Fines.IssueFine)
	fines.Get("/history", r.handlers.Fines.FineHistory)
	fines.Get("/pending", r.handlers.Fines.PendingFines)
	fines.Get("/driver-history", r.handlers.Fines.DriverPaidHistory)
	fines.Post("/:id/pay", r.handlers.Fines.PayFine)

	api.Post("/payment/hash", r.handlers.Payment.CheckoutHash)

	auth := api.Group("/auth")
	auth.Post("/request-verification", authLimit, r.handlers.Verification.RequestVerification)
	auth.Post("/confirm-verification", authLimit, r.handlers.Verification.ConfirmVerification)
	api.Get("/stations", r.handlers.Verification.ListStations)

	r.app.Use(r.notFoundHandler)
}

func (r *FiberRouter) setupMiddleware() {
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			zap.L().Error("panic recovered",
				zap.Any("panic", e),
				zap.String("request_id", requestid.FromContext(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
		},
	}))

	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000,
		ContentSecurityPolicy:     "default-src 'self'; img-src 'self' data: https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginResourcePolicy: "cross-origin",
		XDNSPrefetchControl:       "off",
		XPermittedCrossDomain:     "none",
	}))

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:        utils.CORSMaxAge,
	}
	if len(r.opts.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = r.opts.AllowOrigins
		corsConfig.AllowCredentials = true
	}
	r.app.Use(cors.New(corsConfig))

	r.app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	if r.opts.AccessLog {
		r.app.Use(middleware.RequestLogger())
	}
	if r.opts.MetricsEnabled {
		r.app.Use(middleware.Metrics())
	}
}

func rateLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error:   dto.ErrorDetail{Code: "RATE_LIMIT_EXCEEDED"},
			})
		},
	})
}

func (r *FiberRouter) Start(address string) error {
	zap.L().Info("starting HTTP server", zap.String("address", address))
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// healthCheck pings every registered dependency and reports 503 when any fails
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	status := fiber.StatusOK
	deps := fiber.Map{}
	for name, check := range r.checks {
		if err := check(ctx); err != nil {
			zap.L().Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"success":      status == fiber.StatusOK,
		"status":       overall,
		"dependencies": deps,
		"timestamp":    utils.UTCNow().Unix(),
	})
}

func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error:   dto.ErrorDetail{Code: "SWAGGER_LOAD_ERROR"},
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(doc)
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		zap.L().Error("request failed", zap.Int("status", code), zap.Error(err))
		message = "An internal server error occurred"
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "HTTP_ERROR",
			Details: fiber.Map{
				"request_id": requestid.FromContext(c),
			},
		},
	})
}
