package repository

import (
	"wordloop/internal/domain"
)

// WordRepository is the durable mirror of the word set, including learned
// flags. The file is overwritten wholesale on every save.
type WordRepository interface {
	// Load returns the persisted word set. Any read or decode failure is
	// reported as an error; callers treat it as "no persisted state".
	Load() ([]domain.Word, error)
	Save(words []domain.Word) error
	// Delete removes the persisted file. Removing an absent file is not
	// an error.
	Delete() error
}

// SettingsRepository is the lightweight key-value store holding the daily
// loop snapshot, the current index and the user settings. Absent keys load
// as zero values / defaults, not errors.
type SettingsRepository interface {
	SaveDailyLoop(words []domain.Word) error
	LoadDailyLoop() ([]domain.Word, error)

	SaveCurrentIndex(index int) error
	LoadCurrentIndex() (int, error)

	SaveSettings(s domain.Settings) error
	LoadSettings() (domain.Settings, error)

	// ClearLoopState removes the loop snapshot and index, leaving the
	// user settings in place.
	ClearLoopState() error
}
