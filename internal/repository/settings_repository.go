package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusops/timetable-api/internal/models"
)

// SettingsRepository reads the institution-wide time settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetTimeSettings returns the stored working-day settings, falling back to
// the defaults when none are configured.
func (r *SettingsRepository) GetTimeSettings(ctx context.Context) (models.TimeSettings, error) {
	const query = `SELECT slot_duration, day_start, day_end, lunch_start, lunch_end
		FROM time_settings ORDER BY updated_at DESC LIMIT 1`

	var settings models.TimeSettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DefaultTimeSettings(), nil
		}
		return models.TimeSettings{}, fmt.Errorf("load time settings: %w", err)
	}
	if settings.SlotDuration <= 0 {
		settings = models.DefaultTimeSettings()
	}
	return settings, nil
}
