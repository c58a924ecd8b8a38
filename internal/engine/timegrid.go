package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusops/timetable-api/internal/models"
)

// TimeBlock is one slot of the working day, lunch excluded. Contiguous blocks
// share End(i) == Start(i+1).
type TimeBlock struct {
	Start string
	End   string
}

// Range renders the block the way schedule items store it.
func (b TimeBlock) Range() string {
	return b.Start + "-" + b.End
}

// BuildTimeGrid expands time settings into the ordered list of schedulable
// blocks. Blocks overlapping the lunch window are dropped, as is a trailing
// block whose end would pass the day end.
func BuildTimeGrid(settings models.TimeSettings) []TimeBlock {
	duration := settings.SlotDuration
	if duration <= 0 {
		duration = 60
	}
	dayStart := clockToMinutes(settings.DayStart)
	dayEnd := clockToMinutes(settings.DayEnd)
	lunchStart := clockToMinutes(settings.LunchStart)
	lunchEnd := clockToMinutes(settings.LunchEnd)

	var blocks []TimeBlock
	for start := dayStart; start+duration <= dayEnd; start += duration {
		end := start + duration
		if start < lunchEnd && end > lunchStart {
			continue
		}
		blocks = append(blocks, TimeBlock{Start: minutesToClock(start), End: minutesToClock(end)})
	}
	return blocks
}

func clockToMinutes(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

func minutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
