package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/timetable-api/internal/models"
)

func newTestImprover(courses []*models.CourseData, rooms []*models.ClassroomData, seed int64) *improver {
	courseIndex := make(map[string]*models.CourseData)
	for _, c := range courses {
		courseIndex[c.ID] = c
	}
	roomIndex := make(map[string]*models.ClassroomData)
	for _, r := range rooms {
		roomIndex[r.ID] = r
	}
	return &improver{
		checker:   newConflictChecker(courses),
		occupancy: newOccupancyIndex(),
		courses:   courseIndex,
		rooms:     roomIndex,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func TestImproverNeverMovesFixedItems(t *testing.T) {
	courseA := testCourse("a", nil)
	courseB := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-b"
		c.Enrollments = []models.Enrollment{{Department: "MATH", StudentCount: 40}}
	})
	room := testRoom("r1", 50, nil)
	im := newTestImprover([]*models.CourseData{courseA, courseB}, []*models.ClassroomData{room}, 1)

	schedule := []models.ScheduleItem{
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "08:00-09:00", IsFixed: true},
		{CourseID: "b", ClassroomID: "r1", Day: "Tuesday", TimeRange: "09:00-10:00"},
		{CourseID: "b", ClassroomID: "r1", Day: "Wednesday", TimeRange: "10:00-11:00"},
	}
	for _, item := range schedule {
		im.occupyItem(item)
	}

	im.Improve(schedule, map[string]int{"t-a": 1, "t-b": 2}, 50)

	assert.Equal(t, "Monday", schedule[0].Day)
	assert.Equal(t, "08:00-09:00", schedule[0].TimeRange)
	assert.True(t, schedule[0].IsFixed)
}

func TestImproverKeepsClassroomAssignments(t *testing.T) {
	courseA := testCourse("a", nil)
	courseB := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-b"
		c.Enrollments = []models.Enrollment{{Department: "MATH", StudentCount: 30}}
	})
	rooms := []*models.ClassroomData{testRoom("r1", 50, nil), testRoom("r2", 40, nil)}
	im := newTestImprover([]*models.CourseData{courseA, courseB}, rooms, 2)

	schedule := []models.ScheduleItem{
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "08:00-09:00"},
		{CourseID: "b", ClassroomID: "r2", Day: "Tuesday", TimeRange: "09:00-10:00"},
	}
	for _, item := range schedule {
		im.occupyItem(item)
	}

	im.Improve(schedule, map[string]int{"t-a": 1, "t-b": 1}, 50)

	assert.Equal(t, "r1", schedule[0].ClassroomID)
	assert.Equal(t, "r2", schedule[1].ClassroomID)
}

func TestImproverRejectsSwapIntoClosedRoomSlot(t *testing.T) {
	courseA := testCourse("a", nil)
	courseB := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-b"
		c.Enrollments = []models.Enrollment{{Department: "MATH", StudentCount: 30}}
	})
	// r2 is only open on Tuesday; a swap would move course b to Monday.
	rooms := []*models.ClassroomData{
		testRoom("r1", 50, nil),
		testRoom("r2", 40, func(r *models.ClassroomData) {
			r.Availability = models.AvailabilityMap{"Tuesday": {"09:00"}}
		}),
	}
	im := newTestImprover([]*models.CourseData{courseA, courseB}, rooms, 3)

	schedule := []models.ScheduleItem{
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "08:00-09:00"},
		{CourseID: "b", ClassroomID: "r2", Day: "Tuesday", TimeRange: "09:00-10:00"},
	}
	for _, item := range schedule {
		im.occupyItem(item)
	}

	accepted := im.Improve(schedule, map[string]int{"t-a": 1, "t-b": 1}, 100)

	assert.Zero(t, accepted)
	assert.Equal(t, "Tuesday", schedule[1].Day)
	assert.Equal(t, "09:00-10:00", schedule[1].TimeRange)
}

func TestImproverAcceptsLateralMoves(t *testing.T) {
	courseA := testCourse("a", nil)
	courseB := testCourse("b", func(c *models.CourseData) {
		c.TeacherID = "t-b"
		c.Enrollments = []models.Enrollment{{Department: "MATH", StudentCount: 40}}
	})
	room := testRoom("r1", 50, nil)
	im := newTestImprover([]*models.CourseData{courseA, courseB}, []*models.ClassroomData{room}, 4)

	schedule := []models.ScheduleItem{
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "08:00-09:00"},
		{CourseID: "b", ClassroomID: "r1", Day: "Tuesday", TimeRange: "09:00-10:00"},
	}
	for _, item := range schedule {
		im.occupyItem(item)
	}

	// Swapping day/time between the two items leaves the soft score unchanged,
	// so the move is lateral and must be accepted.
	accepted := im.Improve(schedule, map[string]int{"t-a": 1, "t-b": 1}, 200)
	require.Greater(t, accepted, 0)
}

func TestImproverTooFewMovableItems(t *testing.T) {
	course := testCourse("a", nil)
	room := testRoom("r1", 50, nil)
	im := newTestImprover([]*models.CourseData{course}, []*models.ClassroomData{room}, 5)

	schedule := []models.ScheduleItem{
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "08:00-09:00", IsFixed: true},
		{CourseID: "a", ClassroomID: "r1", Day: "Monday", TimeRange: "09:00-10:00"},
	}
	assert.Zero(t, im.Improve(schedule, map[string]int{"t-a": 2}, 30))
}
