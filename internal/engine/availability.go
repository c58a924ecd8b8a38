package engine

import "github.com/campusops/timetable-api/internal/models"

// available answers whether an entity with the given allow-list map can be
// used at day+block. An empty map means fully available. A non-empty map with
// the day missing or empty means the whole day is closed. Otherwise the
// block's start time must be literally present in the day's allow-list:
// available slots are enumerated per slot start, not as ranges.
func available(hours models.AvailabilityMap, day Day, block TimeBlock) bool {
	if len(hours) == 0 {
		return true
	}
	slots := slotsForDay(hours, day)
	if len(slots) == 0 {
		return false
	}
	for _, slot := range slots {
		if slot == block.Start {
			return true
		}
	}
	return false
}

// slotsForDay resolves the day key under either naming scheme.
func slotsForDay(hours models.AvailabilityMap, day Day) []string {
	for key, slots := range hours {
		if canonical, ok := CanonicalDay(key); ok && canonical == day {
			return slots
		}
	}
	return nil
}

// openSlots lists the allow-list entries for a day, for diagnostics. A nil
// result with a non-empty map means the day is closed; a nil result with an
// empty map means fully open.
func openSlots(hours models.AvailabilityMap, day Day) []string {
	return slotsForDay(hours, day)
}

// TeacherAvailable reports whether the course's teacher can take the block.
func TeacherAvailable(course *models.CourseData, day Day, block TimeBlock) bool {
	return available(course.TeacherAvailability, day, block)
}

// ClassroomAvailable reports whether the classroom is open at the block.
func ClassroomAvailable(room *models.ClassroomData, day Day, block TimeBlock) bool {
	return available(room.Availability, day, block)
}
