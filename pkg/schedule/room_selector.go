package schedule

import (
	"cmp"
	"slices"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

type RoomSelector interface {
	// Select returns the smallest suitable room that is free during slot, ties are broken by room id
	Select(course model.CourseDemand, slot model.TimeSlot) (model.Room, bool)
	// Candidates returns every suitable free room in selection order
	Candidates(course model.CourseDemand, slot model.TimeSlot) []model.Room
	// Suitable reports whether the room fits the course regardless of availability
	Suitable(room model.Room, course model.CourseDemand) bool
}

type smallestRoomSelector struct {
	rooms  []model.Room // Sorted by capacity, then id
	oracle Oracle
}

func NewRoomSelector(rooms []model.Room, oracle Oracle) RoomSelector {
	return &smallestRoomSelector{
		rooms:  sortedRooms(rooms),
		oracle: oracle,
	}
}

func (selector *smallestRoomSelector) Select(course model.CourseDemand, slot model.TimeSlot) (model.Room, bool) {
	return lo.Find(selector.rooms, func(room model.Room) bool {
		return selector.Suitable(room, course) && !selector.oracle.IsBusy(slot, RoomOf(room.Id))
	})
}

func (selector *smallestRoomSelector) Candidates(course model.CourseDemand, slot model.TimeSlot) []model.Room {
	return lo.Filter(selector.rooms, func(room model.Room, _ int) bool {
		return selector.Suitable(room, course) && !selector.oracle.IsBusy(slot, RoomOf(room.Id))
	})
}

func (selector *smallestRoomSelector) Suitable(room model.Room, course model.CourseDemand) bool {
	return suitable(room, course)
}

func suitable(room model.Room, course model.CourseDemand) bool {
	return room.Capacity >= course.StudentCount && room.Equipment.Covers(course.Equipment)
}

func sortedRooms(rooms []model.Room) []model.Room {
	sorted := slices.Clone(rooms)
	slices.SortFunc(sorted, func(a, b model.Room) int {
		if byCapacity := cmp.Compare(a.Capacity, b.Capacity); byCapacity != 0 {
			return byCapacity
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return sorted
}
