// Package main provides the entry point for the e-Fine SL API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/efine-sl/efine-api/app/handlers"
	"github.com/efine-sl/efine-api/app/middleware"
	"github.com/efine-sl/efine-api/app/router"
	"github.com/efine-sl/efine-api/app/services"
	businessflow "github.com/efine-sl/efine-api/business_flow"
	"github.com/efine-sl/efine-api/config"
	"github.com/efine-sl/efine-api/logger"
	"github.com/efine-sl/efine-api/models"
	"github.com/efine-sl/efine-api/repository"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var cfgFile string

// Application represents the main application structure
type Application struct {
	router   *router.FiberRouter
	config   *config.ProductionConfig
	db       *gorm.DB
	cache    *redis.Client
	closeFns []func()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "efine-api",
		Short:         "e-Fine SL traffic fine administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env-style config file (default ./.env or $EFINE_CONFIG)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBootstrapAdminCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

// loadRuntime reads config and installs the global logger. The returned func flushes logs.
func loadRuntime() (*config.ProductionConfig, func(), error) {
	cfg, err := config.LoadProductionConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	flush, err := logger.Init(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, flush, nil
}

func runServe() error {
	cfg, flush, err := loadRuntime()
	if err != nil {
		return err
	}
	defer flush()

	zap.L().Info("starting e-Fine API",
		zap.String("environment", cfg.Deployment.Environment),
		zap.String("version", cfg.Deployment.Version),
		zap.String("commit", cfg.Deployment.CommitHash),
	)

	app, err := initializeApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.close()

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.router.Start(cfg.Server.Address())
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case sig := <-sigChan:
		zap.L().Info("shutting down gracefully", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		zap.L().Error("error during shutdown", zap.Error(err))
	}

	zap.L().Info("server stopped")
	return nil
}

// zapGormWriter routes gorm's slow-query and error output through zap
type zapGormWriter struct{}

func (zapGormWriter) Printf(format string, args ...any) {
	zap.L().Warn(fmt.Sprintf(format, args...), zap.String("component", "gorm"))
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zapGormWriter{}, gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(models.AllModels()...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
	}

	zap.L().Info("database connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.MaxIdleConns),
		zap.Bool("auto_migrate", cfg.AutoMigrate),
	)

	return db, nil
}

// initializeCache returns nil when the cache is disabled
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	zap.L().Info("redis connection established", zap.Int("db", cfg.RedisDB))
	return rc, nil
}

func initializeEmailSender(cfg config.EmailConfig) services.EmailSender {
	if cfg.Provider == "mock" {
		zap.L().Warn("email provider is mock; messages are recorded, not delivered")
		return services.NewMockEmailSender()
	}
	return services.NewSMTPEmailSender(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.FromEmail, cfg.FromName)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	application := &Application{config: cfg, db: db, cache: rc}
	if sqlDB, err := db.DB(); err == nil {
		application.closeFns = append(application.closeFns, func() { _ = sqlDB.Close() })
	}
	if rc != nil {
		application.closeFns = append(application.closeFns, func() { _ = rc.Close() })
	}

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	officerRepo := repository.NewPoliceOfficerRepository(db)
	offenseRepo := repository.NewOffenseRepository(db)
	fineRepo := repository.NewIssuedFineRepository(db)
	stationRepo := repository.NewPoliceStationRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	// Initialize services
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	zap.L().Info("token service initialized",
		zap.String("issuer", cfg.JWT.Issuer),
		zap.String("audience", cfg.JWT.Audience),
		zap.Bool("rsa", cfg.JWT.UseRSAKeys),
	)

	totpService := services.NewTOTPService(cfg.Admin.TOTPIssuer)
	notifier := services.NewNotificationService(initializeEmailSender(cfg.Email))
	payHere := services.NewPayHereService(cfg.PayHere.MerchantID, cfg.PayHere.MerchantSecret)
	if !cfg.PayHere.Configured() {
		zap.L().Warn("PayHere merchant credentials missing; checkout hashes will fail")
	}

	var captchaSvc services.CaptchaService
	if cfg.Admin.CaptchaEnabled {
		var store services.ChallengeStore = services.NewMemoryChallengeStore()
		if rc != nil {
			store = services.NewRedisChallengeStore(rc)
		}
		captchaSvc = services.NewCaptchaServiceRotate(store, cfg.Admin.CaptchaTTL, cfg.Admin.CaptchaPadding, 0)
	}

	var jsonCache services.JSONCache
	var pendingStore services.PendingEnrollmentStore
	if rc != nil {
		jsonCache = services.NewRedisJSONCache(rc)
		pendingStore = services.NewRedisPendingEnrollmentStore(rc, cfg.Cache.EnrollmentTTL)
	}

	// Initialize flows
	reportFlow := businessflow.NewReportFlow(fineRepo, driverRepo, officerRepo, offenseRepo, jsonCache, cfg.Cache.DashboardTTL)
	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, tokenService, totpService, captchaSvc, cfg.Admin.CaptchaEnabled)
	enrollmentFlow := businessflow.NewAdminEnrollmentFlow(adminRepo, totpService, pendingStore, cfg.Security.BcryptCost)
	driverFlow := businessflow.NewDriverManagementFlow(driverRepo, fineRepo, notifier, reportFlow)
	officerFlow := businessflow.NewOfficerManagementFlow(officerRepo, cfg.Security.BcryptCost, reportFlow)
	fineFlow := businessflow.NewFineFlow(offenseRepo, fineRepo, reportFlow)
	paymentFlow := businessflow.NewPaymentFlow(payHere)
	verificationFlow := businessflow.NewOfficerVerificationFlow(stationRepo, verificationRepo, notifier)

	// Initialize handlers
	h := router.Handlers{
		AdminAuth:    handlers.NewAdminAuthHandler(adminAuthFlow),
		Enrollment:   handlers.NewAdminEnrollmentHandler(enrollmentFlow),
		Drivers:      handlers.NewDriverAdminHandler(driverFlow),
		Officers:     handlers.NewOfficerAdminHandler(officerFlow),
		Fines:        handlers.NewFineHandler(fineFlow),
		Reports:      handlers.NewReportHandler(reportFlow),
		Payment:      handlers.NewPaymentHandler(paymentFlow),
		Verification: handlers.NewVerificationHandler(verificationFlow),
	}

	checks := map[string]router.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rc != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rc.Ping(ctx).Err()
		}
	}

	application.router = router.NewFiberRouter(h, middleware.NewAdminAuthMiddleware(tokenService, adminRepo), checks, router.Options{
		AllowOrigins:     cfg.Security.AllowedOrigins,
		BodyLimit:        cfg.Server.BodyLimit,
		ReadTimeout:      cfg.Server.ReadTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		IdleTimeout:      cfg.Server.IdleTimeout,
		RateLimitMax:     cfg.Security.GlobalRateLimit,
		AuthRateLimitMax: cfg.Security.AuthRateLimit,
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsPath:      cfg.Metrics.Path,
		EnableDocs:       cfg.Server.EnableDocs,
		AccessLog:        cfg.Logging.EnableAccessLog,
	})

	return application, nil
}

func (a *Application) close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}
