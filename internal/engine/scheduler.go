package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voicereach/voicereach-backend/internal/models"
	"github.com/voicereach/voicereach-backend/internal/repository"
)

// SchedulerConfig holds the scheduler's timing knobs.
type SchedulerConfig struct {
	PollInterval   time.Duration
	InterCallDelay time.Duration
}

// Status describes the polling loop for the engine status endpoint.
type Status struct {
	Active       bool       `json:"active"`
	PollInterval string     `json:"poll_interval"`
	LastPollAt   *time.Time `json:"last_poll_at,omitempty"`
}

// Scheduler is the polling loop: on each tick it finds running campaigns
// that are due, applies the calling-window policy, resolves contacts and
// dispatches calls sequentially.
//
// Campaigns within a poll and contacts within a campaign are processed one
// at a time. The loop re-reads campaign status and re-evaluates policy
// before every contact, so an external pause/stop takes effect within one
// contact-processing cycle.
type Scheduler struct {
	campaigns      repository.CampaignRepository
	resolver       *Resolver
	dispatcher     *Dispatcher
	pollInterval   time.Duration
	interCallDelay time.Duration
	logger         *slog.Logger

	// cycleMu is the single-flight guard: a tick that fires while the
	// previous cycle is still running is skipped, not queued.
	cycleMu sync.Mutex

	active  atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	stateMu sync.Mutex
	lastRun *time.Time
}

// NewScheduler creates a campaign scheduler
func NewScheduler(
	campaigns repository.CampaignRepository,
	resolver *Resolver,
	dispatcher *Dispatcher,
	cfg SchedulerConfig,
	logger *slog.Logger,
) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	return &Scheduler{
		campaigns:      campaigns,
		resolver:       resolver,
		dispatcher:     dispatcher,
		pollInterval:   cfg.PollInterval,
		interCallDelay: cfg.InterCallDelay,
		logger:         logger,
	}
}

// Start launches the polling loop: one immediate cycle, then one per
// interval. Starting an already-active scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if !s.active.CompareAndSwap(false, true) {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(runCtx)
}

// Stop halts the polling loop and waits for the current cycle to finish.
func (s *Scheduler) Stop() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.cancel()
	<-s.done
}

// Status reports whether the loop is active, its interval and the last poll
// time.
func (s *Scheduler) Status() Status {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return Status{
		Active:       s.active.Load(),
		PollInterval: s.pollInterval.String(),
		LastPollAt:   s.lastRun,
	}
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("campaign engine started",
		slog.Duration("poll_interval", s.pollInterval),
		slog.Duration("inter_call_delay", s.interCallDelay),
	)

	s.poll(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("campaign engine stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll runs one cycle: find due campaigns and process each sequentially.
// Errors never escape a cycle; the interval timer keeps running.
func (s *Scheduler) poll(ctx context.Context) {
	if !s.cycleMu.TryLock() {
		s.logger.Warn("previous poll cycle still in flight, skipping tick")
		return
	}
	defer s.cycleMu.Unlock()

	now := time.Now()
	s.stateMu.Lock()
	s.lastRun = &now
	s.stateMu.Unlock()

	due, err := s.campaigns.FindDue(ctx, now)
	if err != nil {
		s.logger.Error("failed to find due campaigns", slog.Any("error", err))
		return
	}
	if len(due) == 0 {
		return
	}

	s.logger.Info("poll cycle started", slog.Int("due_campaigns", len(due)))

	for _, c := range due {
		if ctx.Err() != nil {
			return
		}
		s.runCampaign(ctx, c)
	}
}

// runCampaign isolates one campaign's processing: a panic or a
// campaign-level error pauses that campaign with the message as the stored
// reason and never stops polling for others.
func (s *Scheduler) runCampaign(ctx context.Context, c *models.Campaign) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while processing campaign",
				slog.String("campaign_id", c.ID),
				slog.Any("panic", r),
			)
			s.pause(ctx, c.ID, fmt.Sprintf("engine error: %v", r))
		}
	}()

	if err := s.processCampaign(ctx, c); err != nil {
		s.logger.Error("campaign processing failed",
			slog.String("campaign_id", c.ID),
			slog.Any("error", err),
		)
		s.pause(ctx, c.ID, err.Error())
	}
}

func (s *Scheduler) processCampaign(ctx context.Context, c *models.Campaign) error {
	// Push next_call_at forward first so a crash mid-campaign cannot leave
	// it due forever.
	if err := s.campaigns.UpdateSchedule(ctx, c.ID, time.Now().Add(s.pollInterval)); err != nil {
		return err
	}

	if d := Evaluate(c, time.Now()); !d.Allowed {
		s.logger.Info("campaign outside calling window, pausing",
			slog.String("campaign_id", c.ID),
			slog.String("reason", string(d.Reason)),
		)
		return s.campaigns.MarkPaused(ctx, c.ID, d.Message)
	}

	seq, err := s.resolver.Resolve(ctx, c)
	if err != nil {
		return err
	}

	dispatched := 0
	for {
		contact, ok := seq.Next()
		if !ok {
			s.logger.Info("contacts exhausted, completing campaign",
				slog.String("campaign_id", c.ID),
				slog.Int("dispatched", dispatched),
			)
			return s.campaigns.MarkCompleted(ctx, c.ID)
		}

		// Re-read status and re-evaluate policy before every contact so
		// external pause/stop and the daily cap interleave correctly.
		fresh, err := s.campaigns.GetByID(ctx, c.ID)
		if err != nil {
			return err
		}
		if fresh.ExecutionStatus != models.CampaignStatusRunning {
			s.logger.Info("campaign no longer running, stopping contact loop",
				slog.String("campaign_id", c.ID),
				slog.String("execution_status", fresh.ExecutionStatus),
			)
			return nil
		}
		if d := Evaluate(fresh, time.Now()); !d.Allowed {
			s.logger.Info("calling window closed mid-run, pausing",
				slog.String("campaign_id", c.ID),
				slog.String("reason", string(d.Reason)),
			)
			return s.campaigns.MarkPaused(ctx, c.ID, d.Message)
		}

		// Dispatch failure is terminal for this contact only.
		if _, err := s.dispatcher.Dispatch(ctx, fresh, contact); err != nil {
			s.logger.Error("dispatch failed, continuing with next contact",
				slog.String("campaign_id", c.ID),
				slog.String("phone", contact.Phone),
				slog.Any("error", err),
			)
		} else {
			dispatched++
		}

		if err := sleepCtx(ctx, s.interCallDelay); err != nil {
			return nil
		}
	}
}

func (s *Scheduler) pause(ctx context.Context, id, reason string) {
	if err := s.campaigns.MarkPaused(ctx, id, reason); err != nil {
		s.logger.Error("failed to pause campaign",
			slog.String("campaign_id", id),
			slog.Any("error", err),
		)
	}
}

// sleepCtx waits for the inter-call delay, returning early on shutdown.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
