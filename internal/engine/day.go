package engine

import "strings"

// Day is a canonical working-day name. Input data may use either the English
// or the Turkish naming scheme; CanonicalDay resolves both.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
)

// WorkingDays returns the five schedulable days in week order.
func WorkingDays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
}

var dayAliases = map[string]Day{
	"monday":    Monday,
	"tuesday":   Tuesday,
	"wednesday": Wednesday,
	"thursday":  Thursday,
	"friday":    Friday,
	"pazartesi": Monday,
	"salı":      Tuesday,
	"sali":      Tuesday,
	"çarşamba":  Wednesday,
	"carsamba":  Wednesday,
	"perşembe":  Thursday,
	"persembe":  Thursday,
	"cuma":      Friday,
}

// CanonicalDay resolves a day name from either naming scheme. The second
// return value is false for weekend days and unknown strings.
func CanonicalDay(name string) (Day, bool) {
	day, ok := dayAliases[strings.ToLower(strings.TrimSpace(name))]
	return day, ok
}
