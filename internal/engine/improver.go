package engine

import (
	"math/rand"

	"github.com/campusops/timetable-api/internal/models"
)

const improverIterations = 30

// improver runs a bounded hill-climbing pass over committed placements. It
// swaps the (day, timeRange) of two random non-fixed items, rejects swaps that
// introduce hard conflicts or land a room on a closed or taken slot, and
// accepts the rest when the whole-schedule soft score does not drop. Lateral
// moves are accepted; the fixed iteration count guards against oscillation.
// Fixed items and classroom assignments are never touched.
type improver struct {
	checker   *conflictChecker
	occupancy *occupancyIndex
	courses   map[string]*models.CourseData
	rooms     map[string]*models.ClassroomData
	rng       *rand.Rand
}

// Improve mutates schedule in place and returns the number of accepted swaps.
func (im *improver) Improve(schedule []models.ScheduleItem, teacherLoads map[string]int, iterations int) int {
	var movable []int
	for i := range schedule {
		if !schedule[i].IsFixed {
			movable = append(movable, i)
		}
	}
	if len(movable) < 2 {
		return 0
	}

	accepted := 0
	current := im.softScore(schedule, teacherLoads)
	for iter := 0; iter < iterations; iter++ {
		i := movable[im.rng.Intn(len(movable))]
		j := movable[im.rng.Intn(len(movable))]
		if i == j {
			continue
		}
		if !im.swapValid(schedule, i, j) {
			continue
		}

		im.applySwap(schedule, i, j)
		next := im.softScore(schedule, teacherLoads)
		if next >= current {
			current = next
			accepted++
			continue
		}
		im.applySwap(schedule, i, j)
	}
	return accepted
}

// swapValid re-evaluates both moved items against the rest of the schedule.
func (im *improver) swapValid(schedule []models.ScheduleItem, i, j int) bool {
	a, b := schedule[i], schedule[j]
	movedA, movedB := a, b
	movedA.Day, movedA.TimeRange = b.Day, b.TimeRange
	movedB.Day, movedB.TimeRange = a.Day, a.TimeRange

	rest := make([]models.ScheduleItem, 0, len(schedule))
	for k := range schedule {
		if k != i && k != j {
			rest = append(rest, schedule[k])
		}
	}

	return im.itemValid(movedA, append(rest, movedB)) && im.itemValid(movedB, append(rest, movedA))
}

func (im *improver) itemValid(item models.ScheduleItem, others []models.ScheduleItem) bool {
	day, ok := CanonicalDay(item.Day)
	if !ok {
		return false
	}
	course, ok := im.courses[item.CourseID]
	if !ok {
		return false
	}
	if im.checker.HasConflict(others, course, day, item.TimeRange) {
		return false
	}
	room, ok := im.rooms[item.ClassroomID]
	if !ok {
		return false
	}
	if !ClassroomAvailable(room, day, TimeBlock{Start: rangeStart(item.TimeRange)}) {
		return false
	}
	for k := range others {
		if others[k].ClassroomID == item.ClassroomID &&
			others[k].Day == item.Day && others[k].TimeRange == item.TimeRange {
			return false
		}
	}
	return true
}

func (im *improver) applySwap(schedule []models.ScheduleItem, i, j int) {
	a, b := &schedule[i], &schedule[j]
	im.releaseOccupancy(*a)
	im.releaseOccupancy(*b)
	a.Day, b.Day = b.Day, a.Day
	a.TimeRange, b.TimeRange = b.TimeRange, a.TimeRange
	im.occupyItem(*a)
	im.occupyItem(*b)
}

func (im *improver) releaseOccupancy(item models.ScheduleItem) {
	if day, ok := CanonicalDay(item.Day); ok {
		im.occupancy.Release(item.ClassroomID, day, item.TimeRange)
	}
}

func (im *improver) occupyItem(item models.ScheduleItem) {
	if day, ok := CanonicalDay(item.Day); ok {
		im.occupancy.Occupy(item.ClassroomID, day, item.TimeRange)
	}
}

// softScore rewards rooms filled near the ideal ratio, penalises wasteful
// assignments, and subtracts half the teacher-load spread.
func (im *improver) softScore(schedule []models.ScheduleItem, teacherLoads map[string]int) float64 {
	var score float64
	for k := range schedule {
		course, okCourse := im.courses[schedule[k].CourseID]
		room, okRoom := im.rooms[schedule[k].ClassroomID]
		if !okCourse || !okRoom || room.Capacity <= 0 {
			continue
		}
		ratio := float64(course.AdjustedSeatCount()) / float64(room.Capacity)
		switch {
		case ratio >= 0.7 && ratio <= 0.9:
			score += 10
		case ratio < 0.4:
			score -= 5
		}
	}
	return score - 0.5*loadStddev(teacherLoads)
}

func rangeStart(timeRange string) string {
	for i := 0; i < len(timeRange); i++ {
		if timeRange[i] == '-' {
			return timeRange[:i]
		}
	}
	return timeRange
}
