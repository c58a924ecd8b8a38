package engine

import (
	"math"

	"github.com/campusops/timetable-api/internal/models"
)

// FailureReason classifies why a (day, window) attempt could not host a
// session.
type FailureReason string

const (
	ReasonTeacherUnavailable FailureReason = "teacher_unavailable"
	ReasonTeacherConflict    FailureReason = "teacher_conflict"
	ReasonDepartmentConflict FailureReason = "department_conflict"
	ReasonNoClassroom        FailureReason = "no_classroom"
	ReasonInsufficientBlocks FailureReason = "insufficient_blocks"
)

// SlotAttempt records one failed (day, window) combination with enough detail
// to render a human-actionable report.
type SlotAttempt struct {
	Day                string        `json:"day"`
	TimeRange          string        `json:"timeRange"`
	Reason             FailureReason `json:"reason"`
	RequiredCapacity   int           `json:"requiredCapacity,omitempty"`
	CandidateRooms     int           `json:"candidateRooms,omitempty"`
	ConflictingCourses []string      `json:"conflictingCourses,omitempty"`
	TeacherOpenSlots   []string      `json:"teacherOpenSlots,omitempty"`
}

// SessionDiagnostics groups the failed attempts of one unplaced session.
type SessionDiagnostics struct {
	SessionType models.SessionType `json:"sessionType"`
	Hours       int                `json:"hours"`
	Attempts    []SlotAttempt      `json:"attempts"`
}

// CourseDiagnostics is the failure tree for a course with unplaced sessions.
type CourseDiagnostics struct {
	CourseID string               `json:"courseId"`
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	Sessions []SessionDiagnostics `json:"sessions"`
}

// Metrics summarises soft-constraint quality of a finished run.
type Metrics struct {
	AvgCapacityMargin float64 `json:"avg_capacity_margin"`
	MaxCapacityWaste  float64 `json:"max_capacity_waste"`
	TeacherLoadStddev float64 `json:"teacher_load_stddev"`
}

// collectMetrics aggregates utilisation and load statistics over the final
// schedule. Capacity figures are percentages of unused adjusted capacity.
func collectMetrics(items []models.ScheduleItem, courses map[string]*models.CourseData, rooms map[string]*models.ClassroomData, teacherLoads map[string]int) Metrics {
	var marginSum, maxWaste float64
	counted := 0
	for i := range items {
		course, okCourse := courses[items[i].CourseID]
		room, okRoom := rooms[items[i].ClassroomID]
		if !okCourse || !okRoom || room.Capacity <= 0 {
			continue
		}
		waste := (1 - float64(course.AdjustedSeatCount())/float64(room.Capacity)) * 100
		if waste < 0 {
			waste = 0
		}
		marginSum += waste
		if waste > maxWaste {
			maxWaste = waste
		}
		counted++
	}
	metrics := Metrics{MaxCapacityWaste: round2(maxWaste)}
	if counted > 0 {
		metrics.AvgCapacityMargin = round2(marginSum / float64(counted))
	}
	metrics.TeacherLoadStddev = round2(loadStddev(teacherLoads))
	return metrics
}

func loadStddev(loads map[string]int) float64 {
	if len(loads) == 0 {
		return 0
	}
	var sum float64
	for _, load := range loads {
		sum += float64(load)
	}
	mean := sum / float64(len(loads))
	var variance float64
	for _, load := range loads {
		diff := float64(load) - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(loads)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
