package models

import "math"

// SessionType distinguishes theoretical and laboratory contact hours.
type SessionType string

const (
	SessionTheory SessionType = "theory"
	SessionLab    SessionType = "lab"
)

// Category marks whether attendance is mandatory for enrolled departments.
type Category string

const (
	CategoryCompulsory Category = "compulsory"
	CategoryElective   Category = "elective"
)

// Term identifies the academic half-year a course runs in.
type Term string

const (
	TermFall   Term = "fall"
	TermSpring Term = "spring"
)

// Session is one schedulable block of a course's weekly hours. A session is
// placed as a single contiguous run of time blocks.
type Session struct {
	Type  SessionType `json:"type"`
	Hours int         `json:"hours"`
}

// FixedPlacement is a manually pinned session. The engine never moves it.
type FixedPlacement struct {
	Day         string      `json:"day"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	SessionType SessionType `json:"sessionType"`
	ClassroomID string      `json:"classroomId,omitempty"`
}

// Enrollment records how many students of a department take the course.
type Enrollment struct {
	Department   string `json:"department"`
	StudentCount int    `json:"studentCount"`
}

// AvailabilityMap is a sparse per-day allow-list of slot start times.
// An empty map means fully available. A day key that is missing or maps to an
// empty list means the entity is unavailable that whole day. Day keys may use
// either supported day-naming scheme.
type AvailabilityMap map[string][]string

// CourseData is the read-only course snapshot consumed by the engine.
type CourseData struct {
	ID                  string           `db:"id" json:"id"`
	Code                string           `db:"code" json:"code"`
	Name                string           `db:"name" json:"name"`
	TeacherID           string           `db:"teacher_id" json:"teacherId"`
	Faculty             string           `db:"faculty" json:"faculty"`
	Level               int              `db:"level" json:"level"`
	Category            Category         `db:"category" json:"category"`
	Term                Term             `db:"term" json:"term"`
	WeeklyHours         int              `db:"weekly_hours" json:"weeklyHours"`
	CapacityMargin      int              `db:"capacity_margin" json:"capacityMargin"`
	Sessions            []Session        `json:"sessions"`
	Enrollments         []Enrollment     `json:"enrollments"`
	TeacherAvailability AvailabilityMap  `json:"teacherAvailability"`
	FixedPlacements     []FixedPlacement `json:"fixedPlacements"`
	Active              bool             `db:"active" json:"active"`
}

// StudentCount sums enrolled students across departments.
func (c *CourseData) StudentCount() int {
	total := 0
	for _, e := range c.Enrollments {
		total += e.StudentCount
	}
	return total
}

// MainDepartment is the enrollment with the most students; the first listed
// wins ties.
func (c *CourseData) MainDepartment() string {
	best := ""
	bestCount := -1
	for _, e := range c.Enrollments {
		if e.StudentCount > bestCount {
			best = e.Department
			bestCount = e.StudentCount
		}
	}
	return best
}

// Departments returns the set of enrolled department codes.
func (c *CourseData) Departments() map[string]bool {
	set := make(map[string]bool, len(c.Enrollments))
	for _, e := range c.Enrollments {
		set[e.Department] = true
	}
	return set
}

// AdjustedSeatCount reduces the seat requirement by the capacity margin
// percentage (0-30). A zero margin leaves the raw student count untouched.
func (c *CourseData) AdjustedSeatCount() int {
	students := c.StudentCount()
	if c.CapacityMargin <= 0 {
		return students
	}
	return int(math.Ceil(float64(students) * (1 - float64(c.CapacityMargin)/100)))
}
