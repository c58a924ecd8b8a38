package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/campusops/timetable-api/internal/models"
)

// ClassroomRepository loads classroom snapshots for the engine.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository creates a new classroom repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

type classroomRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Capacity     int            `db:"capacity"`
	Type         string         `db:"type"`
	PriorityDept *string        `db:"priority_dept"`
	Availability types.JSONText `db:"availability"`
	Active       bool           `db:"active"`
}

// ListActive returns every active classroom. Malformed availability JSON
// decodes to a fully open map.
func (r *ClassroomRepository) ListActive(ctx context.Context) ([]models.ClassroomData, error) {
	const query = `SELECT id, name, capacity, type, priority_dept, availability, active
		FROM classrooms WHERE active = TRUE ORDER BY name ASC`

	var rows []classroomRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list active classrooms: %w", err)
	}

	rooms := make([]models.ClassroomData, 0, len(rows))
	for _, row := range rows {
		room := models.ClassroomData{
			ID:           row.ID,
			Name:         row.Name,
			Capacity:     row.Capacity,
			Type:         models.RoomType(row.Type),
			Active:       row.Active,
			Availability: models.AvailabilityMap{},
		}
		if row.PriorityDept != nil {
			room.PriorityDept = *row.PriorityDept
		}
		decodeJSON(row.Availability, &room.Availability)
		rooms = append(rooms, room)
	}
	return rooms, nil
}
