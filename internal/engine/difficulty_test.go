package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/timetable-api/internal/models"
)

func TestDifficultyBiggerCohortIsHarder(t *testing.T) {
	rooms := []*models.ClassroomData{testRoom("r1", 200, nil)}
	small := testCourse("small", func(c *models.CourseData) {
		c.Enrollments = []models.Enrollment{{Department: "CENG", StudentCount: 20}}
	})
	big := testCourse("big", func(c *models.CourseData) {
		c.Enrollments = []models.Enrollment{{Department: "CENG", StudentCount: 120}}
	})

	assert.Greater(t, difficulty(big, rooms), difficulty(small, rooms))
}

func TestDifficultyNoQualifyingRoomPenalty(t *testing.T) {
	course := testCourse("a", func(c *models.CourseData) {
		c.Sessions = []models.Session{{Type: models.SessionLab, Hours: 3}}
	})
	theoryOnly := []*models.ClassroomData{testRoom("r1", 200, nil)}

	// 40*2 + 100*5 + 3 when no room can serve any session type.
	assert.InDelta(t, 583.0, difficulty(course, theoryOnly), 0.001)
}

func TestRankByDifficultyHardestFirst(t *testing.T) {
	rooms := []*models.ClassroomData{testRoom("r1", 200, nil)}
	easy := testCourse("easy", func(c *models.CourseData) {
		c.Enrollments = []models.Enrollment{{Department: "CENG", StudentCount: 10}}
	})
	hard := testCourse("hard", func(c *models.CourseData) {
		c.Enrollments = []models.Enrollment{{Department: "CENG", StudentCount: 90}}
	})

	ranked := rankByDifficulty([]*models.CourseData{easy, hard}, rooms, map[string]int{})
	require.Len(t, ranked, 2)
	assert.Equal(t, "hard", ranked[0].ID)
}

func TestRankByDifficultyTieBrokenByTeacherLoad(t *testing.T) {
	rooms := []*models.ClassroomData{testRoom("r1", 50, nil)}
	first := testCourse("first", func(c *models.CourseData) { c.TeacherID = "busy" })
	second := testCourse("second", func(c *models.CourseData) { c.TeacherID = "idle" })

	ranked := rankByDifficulty([]*models.CourseData{first, second}, rooms, map[string]int{
		"busy": 6,
		"idle": 1,
	})
	require.Len(t, ranked, 2)
	assert.Equal(t, "second", ranked[0].ID, "equal scores fall back to the less loaded teacher")
}
