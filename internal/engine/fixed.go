package engine

import (
	"fmt"

	"github.com/campusops/timetable-api/internal/models"
)

// fixedResult carries the pinned items plus the per-course hours they consume,
// which are subtracted from session lists before greedy placement.
type fixedResult struct {
	items    []models.ScheduleItem
	consumed map[string]map[models.SessionType]int
	warnings []string
}

// processFixedPlacements ingests manually pinned sessions. Each pin is
// expanded into one item per slot-duration block, a classroom is resolved or
// auto-selected (hybrid rooms may host lab pins), and occupancy plus teacher
// load are updated so greedy placement sees the pins as committed.
func processFixedPlacements(
	courses []*models.CourseData,
	rooms []*models.ClassroomData,
	settings models.TimeSettings,
	occupancy *occupancyIndex,
	teacherLoads map[string]int,
) fixedResult {
	result := fixedResult{consumed: make(map[string]map[models.SessionType]int)}
	roomByID := make(map[string]*models.ClassroomData, len(rooms))
	for _, room := range rooms {
		roomByID[room.ID] = room
	}
	lunchStart := clockToMinutes(settings.LunchStart)
	lunchEnd := clockToMinutes(settings.LunchEnd)

	for _, course := range courses {
		for _, pin := range course.FixedPlacements {
			day, ok := CanonicalDay(pin.Day)
			if !ok {
				result.warnings = append(result.warnings,
					fmt.Sprintf("course %s: fixed placement on unknown day %q skipped", course.Code, pin.Day))
				continue
			}
			blocks := expandPinnedBlocks(pin, settings.SlotDuration)
			if len(blocks) == 0 {
				continue
			}
			if clockToMinutes(pin.Start) < lunchEnd && clockToMinutes(pin.End) > lunchStart {
				result.warnings = append(result.warnings,
					fmt.Sprintf("course %s: fixed placement %s %s-%s spans the lunch window", course.Code, day, pin.Start, pin.End))
			}

			room := roomByID[pin.ClassroomID]
			if room == nil {
				room = findClassroom(rooms, occupancy, matchRequest{
					sessionType:    pin.SessionType,
					studentCount:   course.StudentCount(),
					capacityMargin: course.CapacityMargin,
					preferredDept:  course.MainDepartment(),
					day:            day,
					blocks:         blocks,
					allowHybrid:    true,
				})
			}
			roomID := ""
			if room != nil {
				roomID = room.ID
			}

			for _, block := range blocks {
				result.items = append(result.items, models.ScheduleItem{
					CourseID:     course.ID,
					ClassroomID:  roomID,
					Day:          string(day),
					TimeRange:    block.Range(),
					SessionType:  pin.SessionType,
					SessionHours: 1,
					IsFixed:      true,
					Term:         course.Term,
				})
				if roomID != "" {
					occupancy.Occupy(roomID, day, block.Range())
				}
				if course.TeacherID != "" {
					teacherLoads[course.TeacherID]++
				}
			}
			if result.consumed[course.ID] == nil {
				result.consumed[course.ID] = make(map[models.SessionType]int)
			}
			result.consumed[course.ID][pin.SessionType] += len(blocks)
		}
	}
	return result
}

// expandPinnedBlocks slices a pinned range into slot-duration blocks. A
// trailing remainder shorter than a slot is dropped.
func expandPinnedBlocks(pin models.FixedPlacement, slotDuration int) []TimeBlock {
	if slotDuration <= 0 {
		slotDuration = 60
	}
	start := clockToMinutes(pin.Start)
	end := clockToMinutes(pin.End)
	var blocks []TimeBlock
	for cursor := start; cursor+slotDuration <= end; cursor += slotDuration {
		blocks = append(blocks, TimeBlock{Start: minutesToClock(cursor), End: minutesToClock(cursor + slotDuration)})
	}
	return blocks
}

// remainingSessions subtracts consumed fixed hours from a course's session
// list so pinned hours are never re-scheduled.
func remainingSessions(course *models.CourseData, consumed map[models.SessionType]int) []models.Session {
	if len(consumed) == 0 {
		return course.Sessions
	}
	left := make(map[models.SessionType]int, len(consumed))
	for sessionType, hours := range consumed {
		left[sessionType] = hours
	}
	var sessions []models.Session
	for _, session := range course.Sessions {
		hours := session.Hours
		if deduct := left[session.Type]; deduct > 0 {
			take := min(deduct, hours)
			hours -= take
			left[session.Type] -= take
		}
		if hours > 0 {
			sessions = append(sessions, models.Session{Type: session.Type, Hours: hours})
		}
	}
	return sessions
}
