package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"wordloop/internal/domain"
)

// Keys under which loop state and preferences live in the settings table.
const (
	keyDailyLoop    = "daily_words"
	keyCurrentIndex = "current_index"
	keyInterval     = "selected_interval"
	keyAutoChange   = "auto_change_enabled"
)

// SettingsRepo implements repository.SettingsRepository
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (r *SettingsRepo) set(key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// get returns the stored value and whether the key was present.
func (r *SettingsRepo) get(key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// SaveDailyLoop stores the daily loop snapshot as a JSON blob
func (r *SettingsRepo) SaveDailyLoop(words []domain.Word) error {
	if words == nil {
		words = []domain.Word{}
	}

	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode daily loop: %w", err)
	}

	return r.set(keyDailyLoop, string(data))
}

// LoadDailyLoop returns the stored loop snapshot, or nil when absent
func (r *SettingsRepo) LoadDailyLoop() ([]domain.Word, error) {
	raw, ok, err := r.get(keyDailyLoop)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var words []domain.Word
	if err := json.Unmarshal([]byte(raw), &words); err != nil {
		return nil, fmt.Errorf("failed to decode daily loop: %w", err)
	}

	return words, nil
}

// SaveCurrentIndex stores the loop position
func (r *SettingsRepo) SaveCurrentIndex(index int) error {
	return r.set(keyCurrentIndex, strconv.Itoa(index))
}

// LoadCurrentIndex returns the stored loop position, or 0 when absent
func (r *SettingsRepo) LoadCurrentIndex() (int, error) {
	raw, ok, err := r.get(keyCurrentIndex)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode current index: %w", err)
	}

	return index, nil
}

// SaveSettings stores the notification interval and the auto-change flag
func (r *SettingsRepo) SaveSettings(s domain.Settings) error {
	secs := strconv.FormatInt(int64(s.Interval/time.Second), 10)
	if err := r.set(keyInterval, secs); err != nil {
		return err
	}

	return r.set(keyAutoChange, strconv.FormatBool(s.AutoChange))
}

// LoadSettings returns the stored preferences, with defaults standing in
// for any absent key
func (r *SettingsRepo) LoadSettings() (domain.Settings, error) {
	s := domain.DefaultSettings()

	rawInterval, ok, err := r.get(keyInterval)
	if err != nil {
		return s, err
	}
	if ok {
		secs, err := strconv.ParseInt(rawInterval, 10, 64)
		if err != nil {
			return s, fmt.Errorf("failed to decode interval: %w", err)
		}
		s.Interval = time.Duration(secs) * time.Second
	}

	rawAuto, ok, err := r.get(keyAutoChange)
	if err != nil {
		return s, err
	}
	if ok {
		enabled, err := strconv.ParseBool(rawAuto)
		if err != nil {
			return s, fmt.Errorf("failed to decode auto-change flag: %w", err)
		}
		s.AutoChange = enabled
	}

	return s, nil
}

// ClearLoopState removes the loop snapshot and index, keeping preferences
func (r *SettingsRepo) ClearLoopState() error {
	query := `DELETE FROM settings WHERE key IN (?, ?)`
	_, err := r.db.Exec(query, keyDailyLoop, keyCurrentIndex)
	return err
}
