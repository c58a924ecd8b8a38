package engine

import (
	"math/rand"

	"github.com/campusops/timetable-api/internal/models"
)

// placementState threads the mutable accumulators of the greedy loop so the
// core search stays testable in isolation.
type placementState struct {
	grid         []TimeBlock
	days         []Day
	rng          *rand.Rand
	checker      *conflictChecker
	occupancy    *occupancyIndex
	rooms        []*models.ClassroomData
	teacherLoads map[string]int
	schedule     []models.ScheduleItem
}

// placeSession searches shuffled days and window start indices for a
// contiguous run of blocks satisfying teacher availability, hard constraints
// and a classroom valid across the whole window. On success the placement is
// committed and the attempt log discarded; on failure every attempted
// (day, window) combination is returned for diagnostics.
func (s *placementState) placeSession(course *models.CourseData, session models.Session) (bool, []SlotAttempt) {
	duration := session.Hours
	if duration <= 0 {
		return true, nil
	}
	var attempts []SlotAttempt

	days := make([]Day, len(s.days))
	copy(days, s.days)
	s.rng.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })

	for _, day := range days {
		windowCount := len(s.grid) - duration + 1
		if windowCount <= 0 {
			attempts = append(attempts, SlotAttempt{
				Day:       string(day),
				TimeRange: dayRange(s.grid),
				Reason:    ReasonInsufficientBlocks,
			})
			continue
		}
		starts := s.rng.Perm(windowCount)
		for _, start := range starts {
			window := s.grid[start : start+duration]
			if attempt, ok := s.tryWindow(course, session, day, window); ok {
				return true, nil
			} else {
				attempts = append(attempts, attempt)
			}
		}
	}
	return false, attempts
}

// tryWindow validates one candidate window and commits it when everything
// holds. The returned attempt describes the first violated constraint.
func (s *placementState) tryWindow(course *models.CourseData, session models.Session, day Day, window []TimeBlock) (SlotAttempt, bool) {
	attempt := SlotAttempt{Day: string(day), TimeRange: windowRange(window)}

	// A lunch break inside the window breaks contiguity even though the grid
	// indices are adjacent.
	for i := 0; i < len(window)-1; i++ {
		if window[i].End != window[i+1].Start {
			attempt.Reason = ReasonInsufficientBlocks
			return attempt, false
		}
	}

	for _, block := range window {
		if !TeacherAvailable(course, day, block) {
			attempt.Reason = ReasonTeacherUnavailable
			attempt.TeacherOpenSlots = openSlots(course.TeacherAvailability, day)
			return attempt, false
		}
		if reason, codes := s.checker.Check(s.schedule, course, day, block.Range()); reason != "" {
			attempt.Reason = reason
			attempt.ConflictingCourses = codes
			return attempt, false
		}
	}

	adjusted := course.AdjustedSeatCount()
	room := findClassroom(s.rooms, s.occupancy, matchRequest{
		sessionType:    session.Type,
		studentCount:   course.StudentCount(),
		capacityMargin: course.CapacityMargin,
		preferredDept:  course.MainDepartment(),
		day:            day,
		blocks:         window,
	})
	if room == nil {
		attempt.Reason = ReasonNoClassroom
		attempt.RequiredCapacity = adjusted
		attempt.CandidateRooms = countCandidateRooms(s.rooms, session.Type, adjusted)
		return attempt, false
	}

	for _, block := range window {
		s.schedule = append(s.schedule, models.ScheduleItem{
			CourseID:     course.ID,
			ClassroomID:  room.ID,
			Day:          string(day),
			TimeRange:    block.Range(),
			SessionType:  session.Type,
			SessionHours: 1,
			Term:         course.Term,
		})
		s.occupancy.Occupy(room.ID, day, block.Range())
	}
	if course.TeacherID != "" {
		s.teacherLoads[course.TeacherID] += len(window)
	}
	return SlotAttempt{}, true
}

func windowRange(window []TimeBlock) string {
	if len(window) == 0 {
		return ""
	}
	return window[0].Start + "-" + window[len(window)-1].End
}

func dayRange(grid []TimeBlock) string {
	return windowRange(grid)
}
