package scheduler

import (
	"context"
	"sync"
	"time"

	"wordloop/internal/domain"
	"wordloop/internal/notify"

	"go.uber.org/zap"
)

// notificationID is the single identifier reused for every word
// notification, so at most one is ever outstanding.
const notificationID = "wordloop.current"

// minDelay floors every notification delay.
const minDelay = time.Second

// LoopState is the manager surface the scheduler reads and drives.
type LoopState interface {
	Advance(automatic bool) bool
	CurrentWord() (domain.Word, bool)
	Settings() domain.Settings
}

// Scheduler owns the repeat timer that rotates the loop and the
// scheduling of word notifications. Both follow the current settings:
// disabling auto-change stops the timer and suppresses notifications.
type Scheduler struct {
	mu     sync.Mutex
	cancel context.CancelFunc

	state     LoopState
	notifier  notify.Notifier
	startHour int
	endHour   int

	// now is swapped out in tests to pin the daytime window.
	now func() time.Time

	logger *zap.Logger
}

// New creates a scheduler over the given loop state and notifier. The
// [startHour, endHour) window bounds when notifications may fire.
func New(state LoopState, notifier notify.Notifier, startHour, endHour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		state:     state,
		notifier:  notifier,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
		logger:    logger,
	}
}

// RestartTimer replaces the repeat timer with one matching the current
// settings, or leaves it stopped while auto-change is disabled.
func (s *Scheduler) RestartTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()

	settings := s.state.Settings()
	if !settings.AutoChange {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.runTimer(ctx, settings.Interval)

	s.logger.Info("Repeat timer started", zap.Duration("interval", settings.Interval))
}

// StopTimer halts the repeat timer.
func (s *Scheduler) StopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

func (s *Scheduler) stopTimerLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) runTimer(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.state.Advance(true)
		}
	}
}

// ScheduleNotification cancels the pending word notification and arms a
// new one for the current word. It is a no-op while the loop is empty,
// auto-change is disabled or the clock sits outside the allowed window.
// A non-positive delay falls back to the configured interval; every
// delay is floored at one second.
func (s *Scheduler) ScheduleNotification(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifier.Cancel(notificationID)

	settings := s.state.Settings()
	if !settings.AutoChange {
		return
	}

	word, ok := s.state.CurrentWord()
	if !ok {
		return
	}

	if hour := s.now().Hour(); hour < s.startHour || hour >= s.endHour {
		s.logger.Debug("Outside notification window", zap.Int("hour", hour))
		return
	}

	if delay <= 0 {
		delay = settings.Interval
	}
	if delay < minDelay {
		delay = minDelay
	}

	n := notify.Notification{
		ID:    notificationID,
		Title: word.Text,
		Body:  word.NotificationBody(),
	}
	if err := s.notifier.Schedule(n, delay); err != nil {
		s.logger.Warn("Failed to schedule notification", zap.Error(err))
	}
}

// CancelNotification disarms the pending word notification, if any.
func (s *Scheduler) CancelNotification() {
	s.notifier.Cancel(notificationID)
}

// Stop halts the timer and drops any pending notification, for
// shutdown.
func (s *Scheduler) Stop() {
	s.StopTimer()
	s.CancelNotification()
}
