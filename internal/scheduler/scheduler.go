package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/madiallo/carbontrack/internal/config"
	"github.com/madiallo/carbontrack/internal/repository/mongodb"
	"github.com/madiallo/carbontrack/internal/repository/sheets"
	"github.com/madiallo/carbontrack/internal/service/dashboard"
)

// Scheduler runs the weekly digest sweep: aggregate each user's trailing
// week, store the digest, and optionally export a spreadsheet row.
type Scheduler struct {
	cron         *cron.Cron
	store        mongodb.Store
	dashboardSvc *dashboard.Service
	exporter     sheets.Exporter // nil disables export
	cfg          config.DigestConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.DigestConfig, store mongodb.Store, dashboardSvc *dashboard.Service, exporter sheets.Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		store:        store,
		dashboardSvc: dashboardSvc,
		exporter:     exporter,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDigestSweep); err != nil {
		s.logger.Error("failed to schedule weekly digest", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runDigestSweep aggregates every known user. Per-user failures are logged
// and skipped so one bad document never aborts the whole sweep.
func (s *Scheduler) runDigestSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error("digest sweep: listing users failed", zap.Error(err))
		return
	}

	s.logger.Info("digest sweep started", zap.Int("users", len(userIDs)))

	for _, userID := range userIDs {
		digest, err := s.dashboardSvc.WeekDigest(ctx, userID)
		if err != nil {
			s.logger.Warn("digest aggregation failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		if err := s.store.SaveWeeklyDigest(ctx, digest); err != nil {
			s.logger.Warn("digest save failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		if s.exporter != nil {
			if err := s.exporter.AppendDigest(ctx, digest); err != nil {
				s.logger.Warn("digest export failed", zap.String("user_id", userID), zap.Error(err))
			}
		}
	}

	s.logger.Info("digest sweep finished")
}
