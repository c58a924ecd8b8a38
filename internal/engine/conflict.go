package engine

import "github.com/campusops/timetable-api/internal/models"

// conflictChecker decides whether adding a placement violates a hard
// constraint against the items committed so far.
type conflictChecker struct {
	courses map[string]*models.CourseData
}

func newConflictChecker(courses []*models.CourseData) *conflictChecker {
	index := make(map[string]*models.CourseData, len(courses))
	for _, course := range courses {
		index[course.ID] = course
	}
	return &conflictChecker{courses: index}
}

// Check inspects every existing item sharing (day, timeRange) with the
// candidate. Teacher double-booking always conflicts, fixed items included.
// Department checks only apply when the two courses share a department:
// compulsory courses of the same term and level conflict, and — independent of
// term — a compulsory candidate conflicts with any same-level course it shares
// a department with. The latter rule is intentionally broader than the former;
// it matches long-standing production behaviour and must not be narrowed.
func (c *conflictChecker) Check(placed []models.ScheduleItem, candidate *models.CourseData, day Day, timeRange string) (FailureReason, []string) {
	var conflicting []string
	var reason FailureReason
	for i := range placed {
		item := &placed[i]
		if item.Day != string(day) || item.TimeRange != timeRange {
			continue
		}
		other, ok := c.courses[item.CourseID]
		if !ok || other.ID == candidate.ID {
			continue
		}
		if candidate.TeacherID != "" && candidate.TeacherID == other.TeacherID {
			return ReasonTeacherConflict, []string{other.Code}
		}
		if !departmentsIntersect(candidate, other) {
			continue
		}
		bothCompulsory := candidate.Category == models.CategoryCompulsory && other.Category == models.CategoryCompulsory
		sameLevel := candidate.Level == other.Level
		if bothCompulsory && sameLevel && candidate.Term == other.Term {
			reason = ReasonDepartmentConflict
			conflicting = append(conflicting, other.Code)
			continue
		}
		if sameLevel && candidate.Category == models.CategoryCompulsory {
			reason = ReasonDepartmentConflict
			conflicting = append(conflicting, other.Code)
		}
	}
	return reason, conflicting
}

// HasConflict is the boolean form used by the placement loop and improver.
func (c *conflictChecker) HasConflict(placed []models.ScheduleItem, candidate *models.CourseData, day Day, timeRange string) bool {
	reason, _ := c.Check(placed, candidate, day, timeRange)
	return reason != ""
}

func departmentsIntersect(a, b *models.CourseData) bool {
	set := a.Departments()
	for _, e := range b.Enrollments {
		if set[e.Department] {
			return true
		}
	}
	return false
}
