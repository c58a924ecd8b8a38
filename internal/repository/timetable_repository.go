package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusops/timetable-api/internal/models"
)

// TimetableRepository persists generated schedule items.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListByTerm returns stored placements with optional filtering.
func (r *TimetableRepository) ListByTerm(ctx context.Context, filter models.TimetableFilter) ([]models.ScheduleItem, error) {
	base := "FROM schedule_items WHERE term = $1"
	args := []interface{}{string(filter.Term)}
	var conditions []string

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT id, course_id, classroom_id, day, time_range, session_type,
		session_hours, is_fixed, term, created_at %s ORDER BY day ASC, time_range ASC`, base)

	var items []models.ScheduleItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule items: %w", err)
	}
	return items, nil
}

// DeleteNonFixedByTerm clears every non-fixed placement of a term. The engine
// assumes a clean slate for non-fixed items, so this must run in the same
// transaction as the insert that follows.
func (r *TimetableRepository) DeleteNonFixedByTerm(ctx context.Context, tx *sqlx.Tx, term models.Term) error {
	const query = `DELETE FROM schedule_items WHERE term = $1 AND is_fixed = FALSE`
	if _, err := tx.ExecContext(ctx, query, string(term)); err != nil {
		return fmt.Errorf("delete non-fixed items: %w", err)
	}
	return nil
}

// BulkInsertWithTx stores schedule items inside the caller's transaction.
func (r *TimetableRepository) BulkInsertWithTx(ctx context.Context, tx *sqlx.Tx, items []models.ScheduleItem) error {
	const query = `INSERT INTO schedule_items
		(id, course_id, classroom_id, day, time_range, session_type, session_hours, is_fixed, term, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query,
			id,
			item.CourseID,
			item.ClassroomID,
			item.Day,
			item.TimeRange,
			string(item.SessionType),
			item.SessionHours,
			item.IsFixed,
			string(item.Term),
			now,
		); err != nil {
			return fmt.Errorf("insert schedule item: %w", err)
		}
	}
	return nil
}
