package domain

import "time"

// Weekday is a lower-case English day name used as the working hours key
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists days in calendar order starting from Monday
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf resolves the day name for a date
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Shift is a sub-range of open time, "HH:MM" boundaries, end exclusive
type Shift struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule is the open flag and shifts of one weekday
type DaySchedule struct {
	IsOpen bool    `json:"isOpen"`
	Shifts []Shift `json:"shifts"`
}

// WorkingHours maps day names to their schedule.
// A day missing from the map is closed.
type WorkingHours map[Weekday]DaySchedule

// ForDate returns the schedule for the weekday of date
func (w WorkingHours) ForDate(date time.Time) DaySchedule {
	return w[WeekdayOf(date)]
}

// DefaultWorkingHours is used when the business has not published its hours:
// Monday to Friday 09:00-18:00, closed on weekends
func DefaultWorkingHours() WorkingHours {
	hours := make(WorkingHours, len(Weekdays))
	for _, day := range Weekdays {
		if day == Saturday || day == Sunday {
			hours[day] = DaySchedule{IsOpen: false, Shifts: []Shift{}}
			continue
		}
		hours[day] = DaySchedule{
			IsOpen: true,
			Shifts: []Shift{{Start: DefaultOpenTime, End: DefaultCloseTime}},
		}
	}
	return hours
}
