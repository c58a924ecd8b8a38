package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusops/timetable-api/internal/models"
)

func placedItem(courseID string, day Day, timeRange string, fixed bool) models.ScheduleItem {
	return models.ScheduleItem{
		CourseID:    courseID,
		ClassroomID: "room-1",
		Day:         string(day),
		TimeRange:   timeRange,
		SessionType: models.SessionTheory,
		IsFixed:     fixed,
	}
}

func TestConflictCheckerTeacherDoubleBooking(t *testing.T) {
	a := testCourse("a", func(c *models.CourseData) { c.TeacherID = "t-1"; c.Enrollments = nil })
	b := testCourse("b", func(c *models.CourseData) { c.TeacherID = "t-1"; c.Enrollments = nil })
	checker := newConflictChecker([]*models.CourseData{a, b})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	reason, codes := checker.Check(placed, b, Monday, "08:00-09:00")

	assert.Equal(t, ReasonTeacherConflict, reason)
	assert.Equal(t, []string{"CRS-A"}, codes)
}

func TestConflictCheckerTeacherRuleAppliesToFixedItems(t *testing.T) {
	a := testCourse("a", func(c *models.CourseData) { c.TeacherID = "t-1" })
	b := testCourse("b", func(c *models.CourseData) { c.TeacherID = "t-1" })
	checker := newConflictChecker([]*models.CourseData{a, b})

	placed := []models.ScheduleItem{placedItem("a", Tuesday, "09:00-10:00", true)}
	assert.True(t, checker.HasConflict(placed, b, Tuesday, "09:00-10:00"))
}

func TestConflictCheckerNoDepartmentIntersection(t *testing.T) {
	a := testCourse("a", func(c *models.CourseData) {
		c.Enrollments = []models.Enrollment{{Department: "CENG", StudentCount: 40}}
	})
	b := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-2"
		c.Enrollments = []models.Enrollment{{Department: "MATH", StudentCount: 40}}
	})
	checker := newConflictChecker([]*models.CourseData{a, b})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	assert.False(t, checker.HasConflict(placed, b, Monday, "08:00-09:00"))
}

func TestConflictCheckerCompulsorySameTermAndLevel(t *testing.T) {
	a := testCourse("a", nil)
	b := testCourse("b", func(c *models.CourseData) { c.TeacherID = "t-2" })
	checker := newConflictChecker([]*models.CourseData{a, b})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	reason, codes := checker.Check(placed, b, Monday, "08:00-09:00")

	assert.Equal(t, ReasonDepartmentConflict, reason)
	assert.Contains(t, codes, "CRS-A")
}

func TestConflictCheckerCompulsoryCandidateIgnoresTerm(t *testing.T) {
	// The candidate-side rule is term-independent on purpose: a compulsory
	// candidate conflicts with any same-level course sharing a department.
	placedCourse := testCourse("a", func(c *models.CourseData) {
		c.Category = models.CategoryElective
		c.Term = models.TermSpring
	})
	candidate := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-2"
		c.Term = models.TermFall
	})
	checker := newConflictChecker([]*models.CourseData{placedCourse, candidate})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	assert.True(t, checker.HasConflict(placed, candidate, Monday, "08:00-09:00"))
}

func TestConflictCheckerElectiveCandidateAgainstElective(t *testing.T) {
	placedCourse := testCourse("a", func(c *models.CourseData) { c.Category = models.CategoryElective })
	candidate := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-2"
		c.Category = models.CategoryElective
	})
	checker := newConflictChecker([]*models.CourseData{placedCourse, candidate})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	assert.False(t, checker.HasConflict(placed, candidate, Monday, "08:00-09:00"),
		"elective-vs-elective department overlap is allowed")
}

func TestConflictCheckerDifferentSlotNeverConflicts(t *testing.T) {
	a := testCourse("a", nil)
	b := testCourse("b", nil)
	checker := newConflictChecker([]*models.CourseData{a, b})

	placed := []models.ScheduleItem{placedItem("a", Monday, "08:00-09:00", false)}
	assert.False(t, checker.HasConflict(placed, b, Monday, "09:00-10:00"))
	assert.False(t, checker.HasConflict(placed, b, Tuesday, "08:00-09:00"))
}
