package testutil

import (
	"os"
	"time"

	"wordloop/internal/domain"
)

// FakeWordRepo is an in-memory word repository for stateful tests
type FakeWordRepo struct {
	Words   []domain.Word
	Exists  bool
	LoadErr error
	SaveErr error
}

func (f *FakeWordRepo) Load() ([]domain.Word, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	if !f.Exists {
		return nil, os.ErrNotExist
	}
	return append([]domain.Word(nil), f.Words...), nil
}

func (f *FakeWordRepo) Save(words []domain.Word) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.Words = append([]domain.Word(nil), words...)
	f.Exists = true
	return nil
}

func (f *FakeWordRepo) Delete() error {
	f.Words = nil
	f.Exists = false
	return nil
}

// FakeSettingsRepo is an in-memory settings repository for stateful tests
type FakeSettingsRepo struct {
	Loop     []domain.Word
	HasLoop  bool
	Index    int
	HasIndex bool
	Prefs    domain.Settings
	HasPrefs bool
	Err      error
}

func (f *FakeSettingsRepo) SaveDailyLoop(words []domain.Word) error {
	if f.Err != nil {
		return f.Err
	}
	f.Loop = append([]domain.Word(nil), words...)
	f.HasLoop = true
	return nil
}

func (f *FakeSettingsRepo) LoadDailyLoop() ([]domain.Word, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if !f.HasLoop {
		return nil, nil
	}
	return append([]domain.Word(nil), f.Loop...), nil
}

func (f *FakeSettingsRepo) SaveCurrentIndex(index int) error {
	if f.Err != nil {
		return f.Err
	}
	f.Index = index
	f.HasIndex = true
	return nil
}

func (f *FakeSettingsRepo) LoadCurrentIndex() (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	if !f.HasIndex {
		return 0, nil
	}
	return f.Index, nil
}

func (f *FakeSettingsRepo) SaveSettings(s domain.Settings) error {
	if f.Err != nil {
		return f.Err
	}
	f.Prefs = s
	f.HasPrefs = true
	return nil
}

func (f *FakeSettingsRepo) LoadSettings() (domain.Settings, error) {
	if f.Err != nil {
		return domain.DefaultSettings(), f.Err
	}
	if !f.HasPrefs {
		return domain.DefaultSettings(), nil
	}
	return f.Prefs, nil
}

func (f *FakeSettingsRepo) ClearLoopState() error {
	if f.Err != nil {
		return f.Err
	}
	f.Loop, f.HasLoop = nil, false
	f.Index, f.HasIndex = 0, false
	return nil
}

// FakeSource is a canned word source for tests
type FakeSource struct {
	Words []domain.Word
	Err   error
}

func (f *FakeSource) Load() ([]domain.Word, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]domain.Word(nil), f.Words...), nil
}

// FakeScheduler records scheduling calls without running any timers
type FakeScheduler struct {
	Scheduled []time.Duration
	Cancelled int
	Restarted int
	Stopped   int
}

func (f *FakeScheduler) ScheduleNotification(delay time.Duration) {
	f.Scheduled = append(f.Scheduled, delay)
}

func (f *FakeScheduler) CancelNotification() {
	f.Cancelled++
}

func (f *FakeScheduler) RestartTimer() {
	f.Restarted++
}

func (f *FakeScheduler) StopTimer() {
	f.Stopped++
}
