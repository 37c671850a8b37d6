package schedule

import (
	"cmp"
	"slices"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

type RoomUsage struct {
	Room      uint64
	Code      string
	Sessions  int
	Occupancy float64 // Percentage of the grid slots in use
}

type UsageReport struct {
	Assignments   int
	Rooms         int
	Slots         int
	OccupancyRate float64 // Percentage of the (room, slot) pairs in use
	PerRoom       []RoomUsage
	PerDay        map[model.Day]int
}

// Statistics summarizes how much of the room capacity of the grid an assignment set consumes
func Statistics(assignments []model.Assignment, rooms []model.Room, grid model.Grid) UsageReport {
	report := UsageReport{
		Assignments: len(assignments),
		Rooms:       len(rooms),
		Slots:       len(grid),
		PerDay:      lo.CountValuesBy(assignments, func(assignment model.Assignment) model.Day { return assignment.Slot.Day }),
	}
	if total := len(rooms) * len(grid); total > 0 {
		report.OccupancyRate = percentage(len(assignments), total)
	}

	sessions := lo.CountValuesBy(assignments, func(assignment model.Assignment) uint64 { return assignment.Room })
	report.PerRoom = lo.Map(rooms, func(room model.Room, _ int) RoomUsage {
		usage := RoomUsage{Room: room.Id, Code: room.Code, Sessions: sessions[room.Id]}
		if len(grid) > 0 {
			usage.Occupancy = percentage(usage.Sessions, len(grid))
		}
		return usage
	})

	return report
}

func percentage(part, total int) float64 {
	return float64(part) * 100 / float64(total)
}

// FreeRooms lists the rooms holding at least minCapacity students and carrying the equipment that no assignment
// nor approved reservation occupies during slot, smallest first
func FreeRooms(
	catalog *model.Catalog,
	assignments []model.Assignment,
	reservations []model.Reservation,
	slot model.TimeSlot,
	minCapacity int,
	equipment model.Equipment,
) ([]model.Room, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	oracle, err := NewOracle(catalog, assignments, reservations)
	if err != nil {
		return nil, err
	}

	return lo.Filter(sortedRooms(catalog.Rooms), func(room model.Room, _ int) bool {
		return room.Capacity >= minCapacity && room.Equipment.Covers(equipment) && !oracle.IsBusy(slot, RoomOf(room.Id))
	}), nil
}

// TeacherTimetable returns the assignments taught by teacher in chronological order
func TeacherTimetable(catalog *model.Catalog, assignments []model.Assignment, teacher uint64) []model.Assignment {
	return chronological(lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		return catalog.Courses[assignment.Course].Teacher == teacher
	}))
}

// CohortTimetable returns the sessions attended by a cohort in chronological order. A group attends its own
// sessions and its program's lectures; a whole program (model.NoGroup) attends every session of the program
func CohortTimetable(catalog *model.Catalog, assignments []model.Assignment, program uint64, group uint64) []model.Assignment {
	return chronological(lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		course := catalog.Courses[assignment.Course]
		if course.Program != program {
			return false
		}
		return group == model.NoGroup || course.ProgramWide() || course.Group == group
	}))
}

// RoomTimetable returns the assignments held in room in chronological order
func RoomTimetable(assignments []model.Assignment, room uint64) []model.Assignment {
	return chronological(lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		return assignment.Room == room
	}))
}

func chronological(assignments []model.Assignment) []model.Assignment {
	slices.SortStableFunc(assignments, func(a, b model.Assignment) int {
		if bySlot := a.Slot.Compare(b.Slot); bySlot != 0 {
			return bySlot
		}
		return cmp.Compare(a.Room, b.Room)
	})
	return assignments
}
