package sentry

import (
	"context"
	"time"

	"github.com/flexprice/gstbill/internal/config"
	"github.com/flexprice/gstbill/internal/logger"
	"github.com/getsentry/sentry-go"
	"go.uber.org/fx"
)

const flushTimeout = 2 * time.Second

// Service reports server side failures to Sentry. Every method is a no-op
// while no DSN is configured.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// Module provides fx options for Sentry
func Module() fx.Option {
	return fx.Options(
		fx.Provide(NewSentryService),
		fx.Invoke(RegisterHooks),
	)
}

// NewSentryService creates a new Sentry service
func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterHooks initialises the client on start and flushes it on stop
func RegisterHooks(lc fx.Lifecycle, svc *Service) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return svc.Init()
		},
		OnStop: func(context.Context) error {
			svc.Flush()
			return nil
		},
	})
}

func (s *Service) Enabled() bool {
	return s != nil && s.cfg.Sentry.Enabled()
}

// Init configures the global client
func (s *Service) Init() error {
	if !s.Enabled() {
		s.logger.Info("Sentry is disabled")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.cfg.Sentry.DSN,
		Environment: s.cfg.Sentry.Environment,
	})
	if err != nil {
		s.logger.Errorw("Failed to initialize Sentry", "error", err)
		return err
	}
	s.logger.Infow("Sentry initialized successfully", "environment", s.cfg.Sentry.Environment)
	return nil
}

// CaptureException sends err with tags on a scope of its own
func (s *Service) CaptureException(_ context.Context, err error, tags map[string]string) {
	if !s.Enabled() || err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

// Flush waits for queued events to be sent
func (s *Service) Flush() bool {
	if !s.Enabled() {
		return true
	}
	s.logger.Info("Flushing Sentry events before shutdown")
	return sentry.Flush(flushTimeout)
}
