package dto

import (
	"github.com/campusops/timetable-api/internal/engine"
	"github.com/campusops/timetable-api/internal/models"
)

// GenerateTimetableRequest triggers a full timetable run for one term.
type GenerateTimetableRequest struct {
	Term string `json:"term" validate:"required,oneof=fall spring"`
	// Persist replaces the term's stored non-fixed placements with the run's
	// output. Preview runs leave the database untouched.
	Persist bool `json:"persist"`
	// Seed fixes the engine's random source for reproducible runs.
	Seed *int64 `json:"seed,omitempty"`
	// Settings optionally overrides the stored working-day settings.
	Settings *models.TimeSettings `json:"settings,omitempty"`
}

// GenerateTimetableResponse wraps the engine result with run metadata.
type GenerateTimetableResponse struct {
	Term      string         `json:"term"`
	Persisted bool           `json:"persisted"`
	Result    *engine.Result `json:"result"`
}

// TimetableQuery filters stored placements.
type TimetableQuery struct {
	Term        string `form:"term" validate:"required,oneof=fall spring"`
	CourseID    string `form:"courseId"`
	ClassroomID string `form:"classroomId"`
	Day         string `form:"day"`
}

// ExportTimetableQuery selects the export format for a stored timetable.
type ExportTimetableQuery struct {
	Term   string `form:"term" validate:"required,oneof=fall spring"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
