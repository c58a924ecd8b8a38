package models

// TimeSettings define the working day the time grid is generated from.
// All clock values are "HH:MM" strings; SlotDuration is minutes.
type TimeSettings struct {
	SlotDuration int    `db:"slot_duration" json:"slotDuration"`
	DayStart     string `db:"day_start" json:"dayStart"`
	DayEnd       string `db:"day_end" json:"dayEnd"`
	LunchStart   string `db:"lunch_start" json:"lunchStart"`
	LunchEnd     string `db:"lunch_end" json:"lunchEnd"`
}

// DefaultTimeSettings mirror the institution-wide defaults.
func DefaultTimeSettings() TimeSettings {
	return TimeSettings{
		SlotDuration: 60,
		DayStart:     "08:00",
		DayEnd:       "18:00",
		LunchStart:   "12:00",
		LunchEnd:     "13:00",
	}
}
