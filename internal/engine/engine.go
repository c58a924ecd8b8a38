package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/campusops/timetable-api/internal/models"
)

// Engine assigns course sessions to (day, time, classroom) triples for one
// term. It consumes a snapshot of course and classroom data, performs no I/O,
// and runs to completion on the calling goroutine; callers wanting a timeout
// should enforce it around the whole run.
type Engine struct {
	settings   models.TimeSettings
	rng        *rand.Rand
	logger     *zap.Logger
	iterations int
}

// New builds an engine. A nil rng falls back to a time-seeded source; pass a
// fixed-seed source for reproducible runs. A nil logger is replaced with a
// no-op one.
func New(settings models.TimeSettings, rng *rand.Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		settings:   settings,
		rng:        rng,
		logger:     logger,
		iterations: improverIterations,
	}
}

// UnscheduledCourse summarises a course that ended the run with unplaced
// sessions.
type UnscheduledCourse struct {
	CourseID     string `json:"courseId"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	TotalHours   int    `json:"totalHours"`
	StudentCount int    `json:"studentCount"`
	Reason       string `json:"reason"`
}

// Result is the sole output artifact of a run.
type Result struct {
	Success               bool                  `json:"success"`
	Message               string                `json:"message"`
	ScheduledCount        int                   `json:"scheduled_count"`
	UnscheduledCount      int                   `json:"unscheduled_count"`
	SuccessRate           float64               `json:"success_rate"`
	Schedule              []models.ScheduleItem `json:"schedule"`
	Unscheduled           []UnscheduledCourse   `json:"unscheduled"`
	Perfect               bool                  `json:"perfect"`
	Diagnostics           []CourseDiagnostics   `json:"diagnostics,omitempty"`
	Metrics               Metrics               `json:"metrics"`
	LunchOverflowWarnings []string              `json:"lunch_overflow_warnings,omitempty"`
	ImproverSwaps         int                   `json:"improver_swaps"`
}

// Run executes the full pipeline: time grid, fixed placements, difficulty
// ranking, greedy placement, hill-climbing improvement, metrics.
func (e *Engine) Run(allCourses []models.CourseData, allRooms []models.ClassroomData) *Result {
	courses := activeCourses(allCourses)
	rooms := activeRooms(allRooms)

	if len(courses) == 0 {
		return &Result{
			Success:     false,
			Message:     "no active courses",
			Schedule:    []models.ScheduleItem{},
			Unscheduled: []UnscheduledCourse{},
		}
	}
	if len(rooms) == 0 {
		unscheduled := lo.Map(courses, func(course *models.CourseData, _ int) UnscheduledCourse {
			return UnscheduledCourse{
				CourseID:     course.ID,
				Code:         course.Code,
				Name:         course.Name,
				TotalHours:   course.WeeklyHours,
				StudentCount: course.StudentCount(),
				Reason:       "no active classrooms",
			}
		})
		return &Result{
			Success:          false,
			Message:          "no active classrooms",
			UnscheduledCount: len(unscheduled),
			Schedule:         []models.ScheduleItem{},
			Unscheduled:      unscheduled,
		}
	}

	started := time.Now()
	grid := BuildTimeGrid(e.settings)
	occupancy := newOccupancyIndex()
	teacherLoads := make(map[string]int)

	fixed := processFixedPlacements(courses, rooms, e.settings, occupancy, teacherLoads)
	ranked := rankByDifficulty(courses, rooms, teacherLoads)
	checker := newConflictChecker(courses)

	state := &placementState{
		grid:         grid,
		days:         WorkingDays(),
		rng:          e.rng,
		checker:      checker,
		occupancy:    occupancy,
		rooms:        rooms,
		teacherLoads: teacherLoads,
		schedule:     fixed.items,
	}

	var (
		unscheduled    []UnscheduledCourse
		diagnostics    []CourseDiagnostics
		scheduledCount int
		requiredHours  int
		placedHours    int
	)
	for _, consumed := range fixed.consumed {
		for _, hours := range consumed {
			placedHours += hours
		}
	}

	for _, course := range ranked {
		requiredHours += course.WeeklyHours
		sessions := remainingSessions(course, fixed.consumed[course.ID])
		courseDiag := CourseDiagnostics{CourseID: course.ID, Code: course.Code, Name: course.Name}

		for _, session := range sessions {
			placed, attempts := state.placeSession(course, session)
			if placed {
				placedHours += session.Hours
				continue
			}
			courseDiag.Sessions = append(courseDiag.Sessions, SessionDiagnostics{
				SessionType: session.Type,
				Hours:       session.Hours,
				Attempts:    attempts,
			})
		}

		if len(courseDiag.Sessions) > 0 {
			diagnostics = append(diagnostics, courseDiag)
			unscheduled = append(unscheduled, UnscheduledCourse{
				CourseID:     course.ID,
				Code:         course.Code,
				Name:         course.Name,
				TotalHours:   course.WeeklyHours,
				StudentCount: course.StudentCount(),
				Reason:       dominantReason(courseDiag),
			})
		} else {
			scheduledCount++
		}
	}

	courseIndex := lo.KeyBy(courses, func(c *models.CourseData) string { return c.ID })
	roomIndex := lo.KeyBy(rooms, func(r *models.ClassroomData) string { return r.ID })
	im := &improver{
		checker:   checker,
		occupancy: occupancy,
		courses:   courseIndex,
		rooms:     roomIndex,
		rng:       e.rng,
	}
	swaps := im.Improve(state.schedule, teacherLoads, e.iterations)

	sortSchedule(state.schedule)
	metrics := collectMetrics(state.schedule, courseIndex, roomIndex, teacherLoads)

	successRate := 0.0
	if requiredHours > 0 {
		successRate = math.Round(float64(placedHours)/float64(requiredHours)*10000) / 100
	}
	message := "timetable generated"
	if len(unscheduled) > 0 {
		message = fmt.Sprintf("timetable generated with %d unscheduled course(s)", len(unscheduled))
	}

	e.logger.Info("timetable run finished",
		zap.Int("courses", len(courses)),
		zap.Int("classrooms", len(rooms)),
		zap.Int("items", len(state.schedule)),
		zap.Int("unscheduled", len(unscheduled)),
		zap.Int("improver_swaps", swaps),
		zap.Float64("success_rate", successRate),
		zap.Duration("elapsed", time.Since(started)),
	)

	if unscheduled == nil {
		unscheduled = []UnscheduledCourse{}
	}
	return &Result{
		Success:               true,
		Message:               message,
		ScheduledCount:        scheduledCount,
		UnscheduledCount:      len(unscheduled),
		SuccessRate:           successRate,
		Schedule:              state.schedule,
		Unscheduled:           unscheduled,
		Perfect:               len(unscheduled) == 0,
		Diagnostics:           diagnostics,
		Metrics:               metrics,
		LunchOverflowWarnings: fixed.warnings,
		ImproverSwaps:         swaps,
	}
}

func activeCourses(courses []models.CourseData) []*models.CourseData {
	var result []*models.CourseData
	for i := range courses {
		if courses[i].Active {
			result = append(result, &courses[i])
		}
	}
	return result
}

func activeRooms(rooms []models.ClassroomData) []*models.ClassroomData {
	var result []*models.ClassroomData
	for i := range rooms {
		if rooms[i].Active {
			result = append(result, &rooms[i])
		}
	}
	return result
}

// dominantReason picks the most frequent failure reason across a course's
// attempts for the summary line; the full tree stays in diagnostics.
func dominantReason(diag CourseDiagnostics) string {
	counts := make(map[FailureReason]int)
	for _, session := range diag.Sessions {
		for _, attempt := range session.Attempts {
			counts[attempt.Reason]++
		}
	}
	best := ReasonNoClassroom
	bestCount := 0
	for reason, count := range counts {
		if count > bestCount {
			best = reason
			bestCount = count
		}
	}
	return string(best)
}

var dayOrder = map[string]int{
	string(Monday):    1,
	string(Tuesday):   2,
	string(Wednesday): 3,
	string(Thursday):  4,
	string(Friday):    5,
}

func sortSchedule(items []models.ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if dayOrder[items[i].Day] != dayOrder[items[j].Day] {
			return dayOrder[items[i].Day] < dayOrder[items[j].Day]
		}
		if items[i].TimeRange != items[j].TimeRange {
			return items[i].TimeRange < items[j].TimeRange
		}
		return items[i].CourseID < items[j].CourseID
	})
}
