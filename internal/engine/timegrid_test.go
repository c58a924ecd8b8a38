package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/timetable-api/internal/models"
)

func TestBuildTimeGridDefaultSettings(t *testing.T) {
	grid := BuildTimeGrid(models.DefaultTimeSettings())

	require.Len(t, grid, 9)
	for _, block := range grid {
		assert.NotEqual(t, "12:00", block.Start, "lunch block must be excluded")
		assert.LessOrEqual(t, clockToMinutes(block.End), clockToMinutes("18:00"))
	}
	assert.Equal(t, "08:00", grid[0].Start)
	assert.Equal(t, "17:00", grid[len(grid)-1].Start)
}

func TestBuildTimeGridExcludesLunchOverlap(t *testing.T) {
	grid := BuildTimeGrid(models.TimeSettings{
		SlotDuration: 90,
		DayStart:     "08:00",
		DayEnd:       "18:00",
		LunchStart:   "12:00",
		LunchEnd:     "13:00",
	})

	for _, block := range grid {
		start := clockToMinutes(block.Start)
		end := clockToMinutes(block.End)
		overlaps := start < clockToMinutes("13:00") && end > clockToMinutes("12:00")
		assert.False(t, overlaps, "block %s overlaps lunch", block.Range())
	}
}

func TestBuildTimeGridDropsPartialTrailingBlock(t *testing.T) {
	grid := BuildTimeGrid(models.TimeSettings{
		SlotDuration: 60,
		DayStart:     "08:00",
		DayEnd:       "10:30",
		LunchStart:   "12:00",
		LunchEnd:     "13:00",
	})

	require.Len(t, grid, 2)
	assert.Equal(t, "10:00", grid[len(grid)-1].End)
}

func TestBuildTimeGridIdempotent(t *testing.T) {
	settings := models.DefaultTimeSettings()
	assert.Equal(t, BuildTimeGrid(settings), BuildTimeGrid(settings))
}

func TestBuildTimeGridContiguityWithinRuns(t *testing.T) {
	grid := BuildTimeGrid(models.DefaultTimeSettings())

	// 08-12 and 13-18 are each contiguous; the lunch gap sits between index 3 and 4.
	for i := 0; i < len(grid)-1; i++ {
		if grid[i].End == "12:00" {
			assert.Equal(t, "13:00", grid[i+1].Start)
			continue
		}
		assert.Equal(t, grid[i].End, grid[i+1].Start)
	}
}
