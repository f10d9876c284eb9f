package scheduler

import (
	"context"
	"log"
	"time"

	"prremind/metrics"
	"prremind/services"
)

const (
	// reminder sweeps fire on weekday mornings, cleanup on Sunday nights
	sweepHour   = 9
	cleanupHour = 2

	// notifications older than this are purged by the weekly cleanup
	retentionDays = 90
)

// Scheduler drives the recurring reminder sweep and retention cleanup.
// It ticks at a configurable interval and fires each job at most once
// per calendar day.
type Scheduler struct {
	interval             time.Duration
	remindersService     services.RemindersService
	notificationsService services.PRNotificationsService
	metricsColl          metrics.MetricsCollector
	now                  func() time.Time

	lastSweepDay   string
	lastCleanupDay string

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownDone chan struct{}
}

func NewScheduler(
	interval time.Duration,
	remindersService services.RemindersService,
	notificationsService services.PRNotificationsService,
	metricsColl metrics.MetricsCollector,
) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		interval:             interval,
		remindersService:     remindersService,
		notificationsService: notificationsService,
		metricsColl:          metricsColl,
		now:                  time.Now,
		ctx:                  ctx,
		cancel:               cancel,
		shutdownDone:         make(chan struct{}),
	}
}

// Start launches the scheduler loop in a background goroutine
func (s *Scheduler) Start() {
	go func() {
		log.Printf("📋 Starting reminder scheduler with interval: %s", s.interval)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				log.Printf("📋 Reminder scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop signals the scheduler to stop and waits for the loop to exit or
// the context to expire, whichever comes first
func (s *Scheduler) Stop(ctx context.Context) error {
	log.Printf("📋 Stopping reminder scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		log.Printf("✅ Reminder scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		log.Printf("⚠️ Reminder scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) tick() {
	now := s.now()
	if s.sweepDue(now) {
		s.lastSweepDay = dayKey(now)
		sent, err := s.remindersService.SweepAll(s.ctx)
		if err != nil {
			log.Printf("❌ Scheduled reminder sweep failed: %v", err)
		} else {
			s.metricsColl.RecordSweep()
			s.metricsColl.RecordRemindersSent("slack", sent)
			log.Printf("✅ Scheduled reminder sweep sent %d reminders", sent)
		}
	}
	if s.cleanupDue(now) {
		s.lastCleanupDay = dayKey(now)
		cutoff := now.AddDate(0, 0, -retentionDays)
		deleted, err := s.notificationsService.CleanupOlderThan(s.ctx, cutoff)
		if err != nil {
			log.Printf("❌ Scheduled cleanup failed: %v", err)
		} else {
			log.Printf("✅ Scheduled cleanup removed %d old notifications", deleted)
		}
	}
}

// sweepDue reports whether a weekday-morning sweep should fire now
func (s *Scheduler) sweepDue(now time.Time) bool {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}
	if now.Hour() < sweepHour {
		return false
	}
	return s.lastSweepDay != dayKey(now)
}

// cleanupDue reports whether the Sunday-night cleanup should fire now
func (s *Scheduler) cleanupDue(now time.Time) bool {
	if now.Weekday() != time.Sunday {
		return false
	}
	if now.Hour() < cleanupHour {
		return false
	}
	return s.lastCleanupDay != dayKey(now)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
