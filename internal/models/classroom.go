package models

// RoomType describes what kind of sessions a classroom can host.
type RoomType string

const (
	RoomTheory RoomType = "theory"
	RoomLab    RoomType = "lab"
	RoomHybrid RoomType = "hybrid"
)

// ClassroomData is the read-only classroom snapshot consumed by the engine.
type ClassroomData struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Capacity     int             `db:"capacity" json:"capacity"`
	Type         RoomType        `db:"type" json:"type"`
	PriorityDept string          `db:"priority_dept" json:"priorityDept,omitempty"`
	Availability AvailabilityMap `json:"availability"`
	Active       bool            `db:"active" json:"active"`
}

// Fits reports whether the room type can host the session type. Lab sessions
// need a lab room; theory sessions need a non-lab room. When allowHybrid is
// set (fixed-placement processing) a hybrid room also serves lab sessions.
func (r *ClassroomData) Fits(session SessionType, allowHybrid bool) bool {
	if session == SessionLab {
		if r.Type == RoomLab {
			return true
		}
		return allowHybrid && r.Type == RoomHybrid
	}
	return r.Type != RoomLab
}
