package engine

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/campusops/timetable-api/internal/models"
)

// scoreTieBand treats candidates within one point as equally good so the
// secondary ordering rules can decide.
const scoreTieBand = 1.0

// occupancyIndex tracks which rooms are taken per (day, timeRange).
type occupancyIndex struct {
	taken map[string]map[string]bool
}

func newOccupancyIndex() *occupancyIndex {
	return &occupancyIndex{taken: make(map[string]map[string]bool)}
}

func (o *occupancyIndex) key(day Day, timeRange string) string {
	return string(day) + "|" + timeRange
}

func (o *occupancyIndex) Occupy(roomID string, day Day, timeRange string) {
	if o.taken[roomID] == nil {
		o.taken[roomID] = make(map[string]bool)
	}
	o.taken[roomID][o.key(day, timeRange)] = true
}

func (o *occupancyIndex) Release(roomID string, day Day, timeRange string) {
	if o.taken[roomID] != nil {
		delete(o.taken[roomID], o.key(day, timeRange))
	}
}

func (o *occupancyIndex) IsOccupied(roomID string, day Day, timeRange string) bool {
	return o.taken[roomID] != nil && o.taken[roomID][o.key(day, timeRange)]
}

// matchRequest describes what findClassroom must satisfy across a whole
// window of blocks.
type matchRequest struct {
	sessionType   models.SessionType
	studentCount  int
	capacityMargin int
	preferredDept string
	day           Day
	blocks        []TimeBlock
	allowHybrid   bool
}

// findClassroom returns the best-fitting room free across every block of the
// request, or nil. Candidates are ranked by utilisation score, then priority
// department, then smaller capacity.
func findClassroom(rooms []*models.ClassroomData, occupancy *occupancyIndex, req matchRequest) *models.ClassroomData {
	adjusted := adjustedSeats(req.studentCount, req.capacityMargin)

	candidates := lo.Filter(rooms, func(room *models.ClassroomData, _ int) bool {
		if !room.Active || room.Capacity < adjusted || !room.Fits(req.sessionType, req.allowHybrid) {
			return false
		}
		for _, block := range req.blocks {
			if !ClassroomAvailable(room, req.day, block) {
				return false
			}
			if occupancy.IsOccupied(room.ID, req.day, block.Range()) {
				return false
			}
		}
		return true
	})
	if len(candidates) == 0 {
		return nil
	}

	scores := make(map[string]float64, len(candidates))
	for _, room := range candidates {
		scores[room.ID] = utilizationScore(adjusted, room.Capacity)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(scores[a.ID]-scores[b.ID]) > scoreTieBand {
			return scores[a.ID] > scores[b.ID]
		}
		aPriority := a.PriorityDept != "" && a.PriorityDept == req.preferredDept
		bPriority := b.PriorityDept != "" && b.PriorityDept == req.preferredDept
		if aPriority != bPriority {
			return aPriority
		}
		return a.Capacity < b.Capacity
	})
	return candidates[0]
}

func adjustedSeats(students, margin int) int {
	if margin <= 0 {
		return students
	}
	return int(math.Ceil(float64(students) * (1 - float64(margin)/100)))
}

// utilizationScore peaks at a fill ratio of 0.8. Ratios in [0.7,0.9] score
// 100-|r-0.8|*100, ratios under 0.4 are penalised at r*50, ratios over 1.0
// are rejected outright, and the gaps between bands interpolate linearly
// toward the nearest band boundary.
func utilizationScore(adjusted, capacity int) float64 {
	if capacity <= 0 {
		return -1000
	}
	r := float64(adjusted) / float64(capacity)
	switch {
	case r > 1.0:
		return -1000
	case r >= 0.7 && r <= 0.9:
		return 100 - math.Abs(r-0.8)*100
	case r < 0.4:
		return r * 50
	case r < 0.7:
		// from 20 at r=0.4 up to 90 at r=0.7
		return 20 + (r-0.4)/0.3*70
	default:
		// from 90 at r=0.9 down to 50 at r=1.0
		return 90 - (r-0.9)/0.1*40
	}
}

// countCandidateRooms reports how many active rooms could take the session on
// type and capacity alone, for diagnostics.
func countCandidateRooms(rooms []*models.ClassroomData, sessionType models.SessionType, adjusted int) int {
	return lo.CountBy(rooms, func(room *models.ClassroomData) bool {
		return room.Active && room.Capacity >= adjusted && room.Fits(sessionType, false)
	})
}
