package models

import "time"

// ScheduleItem is one time block of occupancy for a course. Multi-block
// sessions are stored as multiple contiguous items sharing course, classroom
// and day.
type ScheduleItem struct {
	ID           string      `db:"id" json:"id,omitempty"`
	CourseID     string      `db:"course_id" json:"courseId"`
	ClassroomID  string      `db:"classroom_id" json:"classroomId"`
	Day          string      `db:"day" json:"day"`
	TimeRange    string      `db:"time_range" json:"timeRange"`
	SessionType  SessionType `db:"session_type" json:"sessionType"`
	SessionHours int         `db:"session_hours" json:"sessionHours"`
	IsFixed      bool        `db:"is_fixed" json:"isFixed"`
	Term         Term        `db:"term" json:"term"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt,omitempty"`
}

// TimetableFilter describes query params for listing stored placements.
type TimetableFilter struct {
	Term        Term
	CourseID    string
	ClassroomID string
	Day         string
}
