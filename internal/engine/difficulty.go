package engine

import (
	"sort"

	"github.com/campusops/timetable-api/internal/models"
)

const difficultyTieBand = 0.1

// difficulty estimates how constrained a course is. Bigger cohorts, fewer
// usable rooms and longer sessions all push a course earlier in the placement
// order so it is not crowded out by easier ones.
func difficulty(course *models.CourseData, rooms []*models.ClassroomData) float64 {
	roomCount := 0
	adjusted := course.AdjustedSeatCount()
	for _, room := range rooms {
		if !room.Active || room.Capacity < adjusted {
			continue
		}
		for _, session := range course.Sessions {
			if room.Fits(session.Type, false) {
				roomCount++
				break
			}
		}
	}
	roomPenalty := 100.0
	if roomCount > 0 {
		roomPenalty = 1.0 / float64(roomCount)
	}

	var totalHours float64
	for _, session := range course.Sessions {
		totalHours += float64(session.Hours)
	}
	avgHours := 0.0
	if len(course.Sessions) > 0 {
		avgHours = totalHours / float64(len(course.Sessions))
	}
	return float64(course.StudentCount())*2 + roomPenalty*5 + avgHours
}

// rankByDifficulty orders courses hardest first. Scores within 0.1 of each
// other fall back to ascending current teacher load, balancing assignment
// order across instructors.
func rankByDifficulty(courses []*models.CourseData, rooms []*models.ClassroomData, teacherLoads map[string]int) []*models.CourseData {
	scores := make(map[string]float64, len(courses))
	for _, course := range courses {
		scores[course.ID] = difficulty(course, rooms)
	}
	ranked := make([]*models.CourseData, len(courses))
	copy(ranked, courses)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		diff := scores[a.ID] - scores[b.ID]
		if diff > difficultyTieBand {
			return true
		}
		if diff < -difficultyTieBand {
			return false
		}
		return teacherLoads[a.TeacherID] < teacherLoads[b.TeacherID]
	})
	return ranked
}
