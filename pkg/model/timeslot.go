package model

import (
	"fmt"
	"strings"
)

type Day uint64

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var Days = map[Day]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

// Aliases accepted by ParseDay, the french names come from legacy curriculum exports
var dayAliases = map[string]Day{
	"monday": Monday, "mon": Monday, "lundi": Monday,
	"tuesday": Tuesday, "tue": Tuesday, "mardi": Tuesday,
	"wednesday": Wednesday, "wed": Wednesday, "mercredi": Wednesday,
	"thursday": Thursday, "thu": Thursday, "jeudi": Thursday,
	"friday": Friday, "fri": Friday, "vendredi": Friday,
	"saturday": Saturday, "sat": Saturday, "samedi": Saturday,
}

func ParseDay(value string) (Day, error) {
	day, ok := dayAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownDay, value)
	}
	return day, nil
}

func (day Day) Valid() bool {
	return day <= Saturday
}

func (day Day) String() string {
	if name, ok := Days[day]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", uint64(day))
}

// TimeSlot is a half-open hour interval [Start, End) on a given day
type TimeSlot struct {
	Day   Day
	Start int
	End   int
}

func NewTimeSlot(day Day, start, end int) (TimeSlot, error) {
	slot := TimeSlot{Day: day, Start: start, End: end}
	return slot, slot.Validate()
}

func (slot TimeSlot) Validate() error {
	if !slot.Day.Valid() {
		return fmt.Errorf("%w: day %d is out of range", ErrInvalidTimeSlot, uint64(slot.Day))
	} else if slot.Start < 0 || slot.End > 24 || slot.Start >= slot.End {
		return fmt.Errorf("%w: hours [%d, %d) are not a valid interval", ErrInvalidTimeSlot, slot.Start, slot.End)
	}
	return nil
}

// Overlaps reports whether both slots share a non-empty interval on the same day
func (slot TimeSlot) Overlaps(other TimeSlot) bool {
	return slot.Day == other.Day && max(slot.Start, other.Start) < min(slot.End, other.End)
}

func (slot TimeSlot) Duration() int {
	return slot.End - slot.Start
}

func (slot TimeSlot) String() string {
	return fmt.Sprintf("%v %02d-%02d", slot.Day, slot.Start, slot.End)
}

// Compare orders slots by day, then start hour, then end hour
func (slot TimeSlot) Compare(other TimeSlot) int {
	compare := func(a, b int) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	}

	if dayComparison := compare(int(slot.Day), int(other.Day)); dayComparison != 0 {
		return dayComparison
	}
	if startComparison := compare(slot.Start, other.Start); startComparison != 0 {
		return startComparison
	}
	return compare(slot.End, other.End)
}
