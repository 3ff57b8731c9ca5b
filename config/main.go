package config

import (
	"context"
	"time"

	"github.com/akeren/event-rsvp/config/router"
	"github.com/akeren/event-rsvp/internal/gate"
	"github.com/akeren/event-rsvp/internal/log"
	"github.com/akeren/event-rsvp/internal/models"
	"github.com/akeren/event-rsvp/internal/rsvp"
	"github.com/akeren/event-rsvp/internal/session"
	"github.com/akeren/event-rsvp/pkg/constants"
	"github.com/akeren/event-rsvp/pkg/factory"
	"github.com/akeren/event-rsvp/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	Factories       *factory.FactoryContainer
	Sessions        *session.Manager
	SubmitGate      *gate.Gate
	AdminGate       *gate.Gate
	Formatter       *rsvp.Formatter
	TracingShutdown func(context.Context) error
}

type AppConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	RSVP              *RSVPConfig
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		RateLimitRequests: utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvPositiveDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvPositiveDuration("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		RSVP:              NewRSVPConfig(),
	}
}

func (ac *ApplicationConfig) Cleanup() {
	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	appEnv := GetAppEnv()
	if autoMigrate {
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	appConfig := NewAppConfig()

	// Secrets and locale are checked before any connection is opened.
	submitGate, err := appConfig.RSVP.NewSubmitGate()
	if err != nil {
		return nil, err
	}
	if submitGate == nil {
		logger.Warn("SUBMIT_PASSWORD_DIGEST not set; RSVP codes are only required, not checked")
	}

	adminGate, err := appConfig.RSVP.NewAdminGate()
	if err != nil {
		return nil, err
	}

	formatter, err := appConfig.RSVP.NewFormatter()
	if err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	db, err := NewDatabase(logger, &DBConfig{})
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	cache := NewCacheConfig().NewCacheOrNil(logger)

	var factoryCache factory.Cache
	if cache != nil {
		factoryCache = cache
	}
	factories := factory.NewFactoryContainer(logger, factoryCache)

	sessions, err := appConfig.RSVP.NewSessionManager(logger, appEnv, factories.RevocationStore)
	if err != nil {
		return nil, err
	}

	routerService := router.CreateRouterService(logger, &router.RouterConfig{
		RateLimitRequests: appConfig.RateLimitRequests,
		RateLimitWindow:   appConfig.RateLimitWindow,
		RequestTimeout:    appConfig.RequestTimeout,
		LimiterFactory:    factories.RateLimiterFactory,
	})

	logger.Info("Application configuration loaded successfully")

	return &ApplicationConfig{
		DB:              db,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		Factories:       factories,
		Sessions:        sessions,
		SubmitGate:      submitGate,
		AdminGate:       adminGate,
		Formatter:       formatter,
		TracingShutdown: tracingShutdown,
	}, nil
}
