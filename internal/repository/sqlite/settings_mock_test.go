package sqlite

import (
	"errors"
	"testing"
	"time"

	"wordloop/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingsRepo_LoadDailyLoop_Errors(t *testing.T) {
	tests := []struct {
		name      string
		mockRows  *sqlmock.Rows
		mockError error
	}{
		{
			name:      "query fails",
			mockError: errors.New("database is locked"),
		},
		{
			name:     "stored blob is not JSON",
			mockRows: sqlmock.NewRows([]string{"value"}).AddRow("{broken"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSettingsRepo(db)

			query := "SELECT value FROM settings"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(keyDailyLoop).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(keyDailyLoop).WillReturnRows(tt.mockRows)
			}

			words, err := repo.LoadDailyLoop()

			assert.Error(t, err)
			assert.Nil(t, words)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSettingsRepo_LoadCurrentIndex_Corrupt(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(keyCurrentIndex).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("not-a-number"))

	index, err := repo.LoadCurrentIndex()

	assert.Error(t, err)
	assert.Equal(t, 0, index)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo_LoadSettings_Corrupt(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs(keyInterval).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("ninety"))

	s, err := repo.LoadSettings()

	assert.Error(t, err)
	// Defaults still come back so the caller can keep running
	assert.Equal(t, domain.DefaultSettings(), s)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo_SaveSettings_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectExec("INSERT INTO settings").
		WillReturnError(errors.New("database is locked"))

	err = repo.SaveSettings(domain.Settings{AutoChange: true, Interval: 30 * time.Minute})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo_ClearLoopState_Exec(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectExec("DELETE FROM settings").
		WithArgs(keyDailyLoop, keyCurrentIndex).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.ClearLoopState())
	assert.NoError(t, mock.ExpectationsWereMet())
}
