package service

import (
	"math/rand"
	"sync"
	"time"

	"wordloop/internal/bundle"
	"wordloop/internal/domain"
	"wordloop/internal/repository"

	"go.uber.org/zap"
)

// loopSeedSize is how many words a freshly seeded daily loop holds.
const loopSeedSize = 7

// rescheduleDelay is the near-immediate delay used when a loop change
// should be reflected in the next notification.
const rescheduleDelay = time.Second

// defaultGracePeriod is how long an undo stays available after marking a
// word learned.
const defaultGracePeriod = 30 * time.Second

// Scheduler is the timer/notification surface the manager drives. It is
// attached after construction because the scheduler reads loop state back
// from the manager.
type Scheduler interface {
	ScheduleNotification(delay time.Duration)
	CancelNotification()
	RestartTimer()
	StopTimer()
}

// Manager owns the word set, the daily loop and the user preferences.
// Every state transition is serialized on its mutex; asynchronous callers
// (the repeat ticker, the grace-period expiry, Telegram handlers) re-enter
// through its exported methods and never touch state directly.
type Manager struct {
	mu sync.RWMutex

	words       []domain.Word
	daily       []domain.Word
	index       int
	lastLearned *domain.Word
	settings    domain.Settings

	graceTimer  *time.Timer
	graceGen    uint64
	gracePeriod time.Duration

	wordRepo repository.WordRepository
	prefRepo repository.SettingsRepository
	source   bundle.Source

	sched Scheduler

	rng    *rand.Rand
	logger *zap.Logger
}

// NewManager creates a new daily loop manager
func NewManager(
	wordRepo repository.WordRepository,
	prefRepo repository.SettingsRepository,
	source bundle.Source,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		settings:    domain.DefaultSettings(),
		gracePeriod: defaultGracePeriod,
		wordRepo:    wordRepo,
		prefRepo:    prefRepo,
		source:      source,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

// AttachScheduler wires the scheduler in once both sides exist. The
// manager tolerates a nil scheduler and simply skips rescheduling.
func (m *Manager) AttachScheduler(s Scheduler) {
	m.mu.Lock()
	m.sched = s
	m.mu.Unlock()
}

// Restore loads persisted preferences and loop state. Missing or corrupt
// state degrades to defaults rather than failing.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	settings, err := m.prefRepo.LoadSettings()
	if err != nil {
		m.logger.Warn("Failed to load settings, using defaults", zap.Error(err))
	}
	if !domain.ValidInterval(settings.Interval) {
		settings.Interval = domain.DefaultSettings().Interval
	}
	m.settings = settings

	words, err := m.wordRepo.Load()
	if err == nil {
		m.words = words
	}

	daily, err := m.prefRepo.LoadDailyLoop()
	if err != nil {
		m.logger.Warn("Failed to load daily loop", zap.Error(err))
	} else {
		m.daily = daily
	}

	index, err := m.prefRepo.LoadCurrentIndex()
	if err != nil {
		m.logger.Warn("Failed to load current index", zap.Error(err))
	} else {
		m.index = index
	}
	m.clampIndexLocked()
}

// Sync merges the reference word list with the persisted word file, then
// prunes the loop to words that survived the merge. It never fails; an
// unreadable source just narrows what the merge works from.
func (m *Manager) Sync() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncLocked()
}

func (m *Manager) syncLocked() {
	reference, err := m.source.Load()
	if err != nil {
		m.logger.Warn("Failed to read reference words, skipping sync", zap.Error(err))
		return
	}

	persisted, err := m.wordRepo.Load()
	if err != nil {
		m.logger.Info("No persisted words, using reference list only")
		persisted = nil
	}

	m.words = mergeWords(reference, persisted)
	m.persistWordsLocked()

	// Prune the loop to words still present, refreshing each entry from
	// the merged set.
	kept := make([]domain.Word, 0, len(m.daily))
	for _, w := range m.daily {
		if nw, ok := findWord(m.words, w.Text); ok {
			kept = append(kept, nw)
		}
	}
	m.daily = kept
	m.clampIndexLocked()

	if len(m.daily) == 0 {
		m.reseedLocked()
	}
	m.persistLoopLocked()

	m.logger.Info("Word set synced",
		zap.Int("words", len(m.words)),
		zap.Int("loop", len(m.daily)),
	)
}

// MarkLearned removes the current word from the loop, flips its learned
// flag in the word set and keeps it undoable for the grace period.
// Returns false when the loop is empty.
func (m *Manager) MarkLearned() bool {
	m.mu.Lock()
	ok := m.markLearnedLocked()
	sched := m.sched
	m.mu.Unlock()

	if ok && sched != nil {
		sched.ScheduleNotification(rescheduleDelay)
	}
	return ok
}

func (m *Manager) markLearnedLocked() bool {
	if len(m.daily) == 0 {
		return false
	}

	w := m.daily[m.index]
	m.daily = append(m.daily[:m.index], m.daily[m.index+1:]...)
	m.setLearnedLocked(w.Text, true)
	m.clampIndexLocked()

	w.Learned = true
	m.lastLearned = &w
	m.startGraceTimerLocked()

	m.persistWordsLocked()
	m.persistLoopLocked()

	m.logger.Info("Word marked as learned", zap.String("word", w.Text))
	return true
}

// UndoLastLearned reverses the most recent mark-learned if its grace
// period has not expired. Returns false when nothing is pending.
func (m *Manager) UndoLastLearned() bool {
	m.mu.Lock()
	ok := m.undoLocked()
	sched := m.sched
	m.mu.Unlock()

	if ok && sched != nil {
		sched.ScheduleNotification(rescheduleDelay)
	}
	return ok
}

func (m *Manager) undoLocked() bool {
	if m.lastLearned == nil {
		return false
	}

	w := *m.lastLearned
	w.Learned = false
	m.lastLearned = nil
	if m.graceTimer != nil {
		m.graceTimer.Stop()
		m.graceTimer = nil
	}

	// Re-insert at the current position
	m.daily = append(m.daily, domain.Word{})
	copy(m.daily[m.index+1:], m.daily[m.index:])
	m.daily[m.index] = w

	m.setLearnedLocked(w.Text, false)

	m.persistWordsLocked()
	m.persistLoopLocked()

	m.logger.Info("Mark-learned undone", zap.String("word", w.Text))
	return true
}

// RemoveFromLoop drops the loop entry at index. Returns false on an
// out-of-range index.
func (m *Manager) RemoveFromLoop(index int) bool {
	m.mu.Lock()
	ok := m.removeLocked(index)
	sched := m.sched
	m.mu.Unlock()

	if ok && sched != nil {
		sched.ScheduleNotification(rescheduleDelay)
	}
	return ok
}

func (m *Manager) removeLocked(index int) bool {
	if index < 0 || index >= len(m.daily) {
		return false
	}

	w := m.daily[index]
	m.daily = append(m.daily[:index], m.daily[index+1:]...)
	m.clampIndexLocked()
	m.persistLoopLocked()

	m.logger.Info("Word removed from loop", zap.String("word", w.Text))
	return true
}

// AddNewWord appends one word drawn uniformly at random from the
// unlearned words not already in the loop. Returns false when no
// candidate exists.
func (m *Manager) AddNewWord() (domain.Word, bool) {
	m.mu.Lock()
	w, ok := m.addLocked()
	sched := m.sched
	m.mu.Unlock()

	if ok && sched != nil {
		sched.ScheduleNotification(rescheduleDelay)
	}
	return w, ok
}

func (m *Manager) addLocked() (domain.Word, bool) {
	var pool []domain.Word
	for _, w := range m.words {
		if !w.Learned && !domain.ContainsText(m.daily, w.Text) {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		return domain.Word{}, false
	}

	w := pool[m.rng.Intn(len(pool))]
	m.daily = append(m.daily, w)
	m.persistLoopLocked()

	m.logger.Info("Word added to loop", zap.String("word", w.Text))
	return w, true
}

// Advance moves the loop to the next word. An automatic advance (from the
// repeat timer) is a no-op while auto-change is disabled; a manual one
// always moves but only reschedules the notification when auto-change is
// enabled.
func (m *Manager) Advance(automatic bool) bool {
	m.mu.Lock()
	ok, reschedule := m.advanceLocked(automatic)
	sched := m.sched
	m.mu.Unlock()

	if reschedule && sched != nil {
		sched.ScheduleNotification(rescheduleDelay)
	}
	return ok
}

func (m *Manager) advanceLocked(automatic bool) (advanced, reschedule bool) {
	if automatic && !m.settings.AutoChange {
		return false, false
	}
	if len(m.daily) == 0 {
		return false, false
	}

	m.index = (m.index + 1) % len(m.daily)
	if err := m.prefRepo.SaveCurrentIndex(m.index); err != nil {
		m.logger.Error("Failed to persist current index", zap.Error(err))
	}
	return true, m.settings.AutoChange
}

// ResetAllData wipes the persisted loop and word file, rebuilds the word
// set from the reference list alone and reseeds the loop. Preferences
// survive a reset.
func (m *Manager) ResetAllData() {
	m.mu.Lock()
	m.resetLocked()
	sched := m.sched
	m.mu.Unlock()

	if sched != nil {
		sched.RestartTimer()
		sched.ScheduleNotification(rescheduleDelay)
	}
}

func (m *Manager) resetLocked() {
	if err := m.prefRepo.ClearLoopState(); err != nil {
		m.logger.Error("Failed to clear loop state", zap.Error(err))
	}
	if err := m.wordRepo.Delete(); err != nil {
		m.logger.Error("Failed to delete word file", zap.Error(err))
	}

	m.daily = nil
	m.index = 0
	m.lastLearned = nil
	if m.graceTimer != nil {
		m.graceTimer.Stop()
		m.graceTimer = nil
	}
	m.graceGen++

	m.logger.Info("All data reset")
	m.syncLocked()
}

// SetInterval switches the auto-change period. Returns false for a value
// outside the allowed choices.
func (m *Manager) SetInterval(interval time.Duration) bool {
	m.mu.Lock()
	if !domain.ValidInterval(interval) {
		m.mu.Unlock()
		return false
	}
	m.settings.Interval = interval
	m.persistSettingsLocked()
	sched := m.sched
	m.mu.Unlock()

	m.logger.Info("Interval changed", zap.Duration("interval", interval))

	if sched != nil {
		sched.RestartTimer()
		sched.ScheduleNotification(rescheduleDelay)
	}
	return true
}

// SetAutoChange toggles automatic rotation. Disabling stops the repeat
// timer and cancels any pending notification.
func (m *Manager) SetAutoChange(enabled bool) {
	m.mu.Lock()
	m.settings.AutoChange = enabled
	m.persistSettingsLocked()
	sched := m.sched
	m.mu.Unlock()

	m.logger.Info("Auto-change toggled", zap.Bool("enabled", enabled))

	if sched == nil {
		return
	}
	if enabled {
		sched.RestartTimer()
		sched.ScheduleNotification(rescheduleDelay)
	} else {
		sched.StopTimer()
		sched.CancelNotification()
	}
}

// CurrentWord returns the word the loop currently points at.
func (m *Manager) CurrentWord() (domain.Word, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.daily) == 0 {
		return domain.Word{}, false
	}
	return m.daily[m.index], true
}

// DailyWords returns a copy of the current loop.
func (m *Manager) DailyWords() []domain.Word {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Word(nil), m.daily...)
}

// CurrentIndex returns the loop position.
func (m *Manager) CurrentIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index
}

// Settings returns the current preferences.
func (m *Manager) Settings() domain.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// HasPendingUndo reports whether a mark-learned is still undoable.
func (m *Manager) HasPendingUndo() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastLearned != nil
}

// Stats returns the derived progress counters.
func (m *Manager) Stats() domain.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	learned := 0
	for _, w := range m.words {
		if w.Learned {
			learned++
		}
	}
	return domain.Stats{
		TotalWords: len(m.words),
		Learned:    learned,
		Remaining:  len(m.words) - learned,
		LoopSize:   len(m.daily),
	}
}

func (m *Manager) startGraceTimerLocked() {
	if m.graceTimer != nil {
		m.graceTimer.Stop()
	}
	m.graceGen++
	gen := m.graceGen
	m.graceTimer = time.AfterFunc(m.gracePeriod, func() {
		m.expireGrace(gen)
	})
}

// expireGrace drops the pending undo once the grace period passes. The
// generation guard makes a stale timer a no-op when another word was
// marked in the meantime.
func (m *Manager) expireGrace(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.graceGen || m.lastLearned == nil {
		return
	}
	m.logger.Debug("Undo window expired", zap.String("word", m.lastLearned.Text))
	m.lastLearned = nil
	m.graceTimer = nil
}

// reseedLocked replaces the loop with up to loopSeedSize random distinct
// unlearned words and rewinds the index.
func (m *Manager) reseedLocked() {
	var pool []domain.Word
	for _, w := range m.words {
		if !w.Learned {
			pool = append(pool, w)
		}
	}
	m.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	n := loopSeedSize
	if len(pool) < n {
		n = len(pool)
	}
	m.daily = append([]domain.Word(nil), pool[:n]...)
	m.index = 0
}

func (m *Manager) clampIndexLocked() {
	if m.index < 0 || m.index >= len(m.daily) {
		m.index = 0
	}
}

func (m *Manager) setLearnedLocked(text string, learned bool) {
	for i := range m.words {
		if m.words[i].Text == text {
			m.words[i].Learned = learned
			return
		}
	}
}

func (m *Manager) persistWordsLocked() {
	if err := m.wordRepo.Save(m.words); err != nil {
		m.logger.Error("Failed to persist word set", zap.Error(err))
	}
}

func (m *Manager) persistLoopLocked() {
	if err := m.prefRepo.SaveDailyLoop(m.daily); err != nil {
		m.logger.Error("Failed to persist daily loop", zap.Error(err))
	}
	if err := m.prefRepo.SaveCurrentIndex(m.index); err != nil {
		m.logger.Error("Failed to persist current index", zap.Error(err))
	}
}

func (m *Manager) persistSettingsLocked() {
	if err := m.prefRepo.SaveSettings(m.settings); err != nil {
		m.logger.Error("Failed to persist settings", zap.Error(err))
	}
}

// mergeWords builds one entry per reference word, carrying the learned
// flag over from the persisted set by text. Words present only in the
// persisted set are dropped; duplicate reference texts collapse to the
// first occurrence.
func mergeWords(reference, persisted []domain.Word) []domain.Word {
	learned := make(map[string]bool, len(persisted))
	for _, w := range persisted {
		if w.Learned {
			learned[w.Text] = true
		}
	}

	merged := make([]domain.Word, 0, len(reference))
	seen := make(map[string]struct{}, len(reference))
	for _, w := range reference {
		if _, dup := seen[w.Text]; dup {
			continue
		}
		seen[w.Text] = struct{}{}
		w.Learned = learned[w.Text]
		merged = append(merged, w)
	}
	return merged
}

func findWord(words []domain.Word, text string) (domain.Word, bool) {
	for _, w := range words {
		if w.Text == text {
			return w, true
		}
	}
	return domain.Word{}, false
}
