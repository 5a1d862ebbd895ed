package collection

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/types"
)

const (
	defaultReleaseTimeout = 10 * time.Second
	reconcileBatch        = 100
)

// Scheduler runs the periodic collection and reconcile sweeps.
type Scheduler struct {
	scheduler gocron.Scheduler
	svc       *Service
	campaigns *campaign.Service
	log       *zap.SugaredLogger
	interval  time.Duration
}

func NewScheduler(cfg *config.Config, svc *Service, campaigns *campaign.Service, log *zap.SugaredLogger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{scheduler: s, svc: svc, campaigns: campaigns, log: log, interval: cfg.Collection.SweepInterval}, nil
}

// RegisterJobs registers the sweeps; each job skips a tick while its previous run is still going.
func (s *Scheduler) RegisterJobs() error {
	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.SweepCollecting),
		gocron.WithName("collect_campaigns"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.SweepPending),
		gocron.WithName("reconcile_pending_payments"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// SweepCollecting resumes collection of campaigns left in collecting.
func (s *Scheduler) SweepCollecting() {
	ctx := context.Background()
	ids, err := s.campaigns.ListByState(ctx, types.CampaignStateCollecting)
	if err != nil {
		s.log.Errorw("collection sweep: list campaigns failed", "err", err)
		return
	}
	for _, id := range ids {
		if _, err := s.svc.CollectCampaign(ctx, id); err != nil {
			s.log.Errorw("collection sweep failed", "campaign_id", id, "err", err)
		}
	}
}

// SweepPending reconciles pending payments whose state write may have been lost.
func (s *Scheduler) SweepPending() {
	moved, err := s.svc.ReconcilePending(context.Background(), reconcileBatch)
	if err != nil {
		s.log.Errorw("reconcile sweep failed", "err", err)
		return
	}
	if moved > 0 {
		s.log.Warnw("reconcile sweep repaired payments", "count", moved)
	}
}

func (s *Scheduler) Start() { s.scheduler.Start() }

func (s *Scheduler) Stop() error { return s.scheduler.Shutdown() }

func registerScheduler(lc fx.Lifecycle, cfg *config.Config, s *Scheduler, log *zap.SugaredLogger) error {
	if !cfg.Collection.Enabled {
		log.Infow("collection scheduler disabled")
		return nil
	}
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			log.Infow("collection scheduler started", "interval", s.interval.String())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := s.Stop(); err != nil {
				log.Errorw("failed to shutdown scheduler", "err", err)
			}
			return nil
		},
	})
	return nil
}

// Module exposes campaign collection via Fx. SchedulerModule adds the
// periodic sweeps and is only wired into long-running processes.
var Module = fx.Options(
	fx.Provide(NewService),
)

var SchedulerModule = fx.Options(
	fx.Provide(NewScheduler),
	fx.Invoke(registerScheduler),
)
