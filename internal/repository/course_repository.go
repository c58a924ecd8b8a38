package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusops/timetable-api/internal/models"
)

// CourseRepository loads course snapshots for the engine.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

type courseRow struct {
	ID                  string          `db:"id"`
	Code                string          `db:"code"`
	Name                string          `db:"name"`
	TeacherID           *string         `db:"teacher_id"`
	Faculty             string          `db:"faculty"`
	Level               int             `db:"level"`
	Category            string          `db:"category"`
	Term                string          `db:"term"`
	WeeklyHours         int             `db:"weekly_hours"`
	CapacityMargin      int             `db:"capacity_margin"`
	Active              bool            `db:"active"`
	Sessions            types.JSONText  `db:"sessions"`
	Enrollments         types.JSONText  `db:"enrollments"`
	TeacherAvailability types.JSONText  `db:"teacher_availability"`
	FixedPlacements     types.JSONText  `db:"fixed_placements"`
}

// ListActiveByTerm returns the active courses of a term with their JSON
// payloads decoded. Malformed JSON never fails the load: availability decodes
// to an empty (fully open) map and the list columns to empty lists, matching
// the contract the engine relies on.
func (r *CourseRepository) ListActiveByTerm(ctx context.Context, term models.Term) ([]models.CourseData, error) {
	const query = `SELECT id, code, name, teacher_id, faculty, level, category, term, weekly_hours,
		capacity_margin, active, sessions, enrollments, teacher_availability, fixed_placements
		FROM courses WHERE active = TRUE AND term = $1 ORDER BY code ASC`

	var rows []courseRow
	if err := r.db.SelectContext(ctx, &rows, query, string(term)); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}

	courses := make([]models.CourseData, 0, len(rows))
	for _, row := range rows {
		course := models.CourseData{
			ID:                  row.ID,
			Code:                row.Code,
			Name:                row.Name,
			Faculty:             row.Faculty,
			Level:               row.Level,
			Category:            models.Category(row.Category),
			Term:                models.Term(row.Term),
			WeeklyHours:         row.WeeklyHours,
			CapacityMargin:      row.CapacityMargin,
			Active:              row.Active,
			TeacherAvailability: models.AvailabilityMap{},
		}
		if row.TeacherID != nil {
			course.TeacherID = *row.TeacherID
		}
		decodeJSON(row.Sessions, &course.Sessions)
		decodeJSON(row.Enrollments, &course.Enrollments)
		decodeJSON(row.TeacherAvailability, &course.TeacherAvailability)
		decodeJSON(row.FixedPlacements, &course.FixedPlacements)
		courses = append(courses, course)
	}
	return courses, nil
}

// decodeJSON is best-effort: bad payloads leave the target at its zero value
// instead of aborting the run.
func decodeJSON(raw types.JSONText, target any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, target)
}
