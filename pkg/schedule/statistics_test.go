package schedule

import (
	"testing"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics(t *testing.T) {
	rooms := []model.Room{room("R0", 30), room("R1", 60)}
	for i := range rooms {
		rooms[i].Id = uint64(i)
	}
	grid := model.DefaultGrid()
	assignments := []model.Assignment{
		{Course: 0, Room: 0, Slot: monday8},
		{Course: 1, Room: 0, Slot: monday10},
		{Course: 2, Room: 1, Slot: tuesday10},
		{Course: 3, Room: 0, Slot: tuesday10},
	}

	report := Statistics(assignments, rooms, grid)

	assert.Equal(t, 4, report.Assignments)
	assert.Equal(t, 20, report.Slots)
	assert.InDelta(t, 10.0, report.OccupancyRate, 1e-9)
	assert.Equal(t, map[model.Day]int{model.Monday: 2, model.Tuesday: 2}, report.PerDay)
	assert.Equal(t, []RoomUsage{
		{Room: 0, Code: "R0", Sessions: 3, Occupancy: 15},
		{Room: 1, Code: "R1", Sessions: 1, Occupancy: 5},
	}, report.PerRoom)

	empty := Statistics(nil, nil, grid)
	assert.Zero(t, empty.OccupancyRate)
}

func TestFreeRooms(t *testing.T) {
	catalog := testCatalog(
		[]model.Room{room("BIG", 100, "projector"), room("SMALL", 20), room("MEDIUM", 40, "projector")},
		[]model.CourseDemand{course("C", 0, programP, groupP1, 20)},
	)
	assignments := []model.Assignment{{Course: 0, Room: 2, Slot: monday8}}
	reservations := []model.Reservation{
		{Id: "approved", Room: 0, Slot: monday10, Status: model.Approved},
		{Id: "pending", Room: 1, Slot: monday8, Status: model.Pending},
	}
	codes := func(rooms []model.Room) []string {
		return lo.Map(rooms, func(room model.Room, _ int) string { return room.Code })
	}

	free, err := FreeRooms(catalog, assignments, reservations, monday8, 0, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{"SMALL", "BIG"}, codes(free))

	free, err = FreeRooms(catalog, assignments, reservations, model.TimeSlot{Day: model.Monday, Start: 9, End: 11}, 30, model.NewEquipment("projector"))
	require.Nil(t, err)
	assert.Empty(t, free)

	free, err = FreeRooms(catalog, assignments, reservations, monday10, 30, nil)
	require.Nil(t, err)
	assert.Equal(t, []string{"MEDIUM"}, codes(free))

	_, err = FreeRooms(catalog, assignments, reservations, model.TimeSlot{Day: model.Monday, Start: 10, End: 9}, 0, nil)
	assert.ErrorIs(t, err, model.ErrInvalidTimeSlot)
}

func TestTimetableViews(t *testing.T) {
	catalog := testCatalog(
		[]model.Room{room("R0", 60), room("R1", 60)},
		[]model.CourseDemand{
			course("P-CM", 0, programP, model.NoGroup, 40),
			course("P1-TD", 1, programP, groupP1, 20),
			course("P2-TD", 0, programP, groupP2, 20),
			course("Q1-TD", 1, programQ, groupQ1, 15),
		},
	)
	assignments := []model.Assignment{
		{Course: 3, Room: 1, Slot: tuesday10},
		{Course: 2, Room: 1, Slot: monday10},
		{Course: 1, Room: 0, Slot: monday10},
		{Course: 0, Room: 0, Slot: monday8},
	}
	courses := func(assignments []model.Assignment) []uint64 {
		return lo.Map(assignments, func(assignment model.Assignment, _ int) uint64 { return assignment.Course })
	}

	assert.Equal(t, []uint64{0, 2}, courses(TeacherTimetable(catalog, assignments, 0)))
	assert.Equal(t, []uint64{0, 1}, courses(CohortTimetable(catalog, assignments, programP, groupP1)))
	assert.Equal(t, []uint64{0, 1, 2}, courses(CohortTimetable(catalog, assignments, programP, model.NoGroup)))
	assert.Equal(t, []uint64{3}, courses(CohortTimetable(catalog, assignments, programQ, groupQ1)))
	assert.Equal(t, []uint64{0, 1}, courses(RoomTimetable(assignments, 0)))
}

func TestSessions(t *testing.T) {
	catalog := testCatalog(
		[]model.Room{room("R0", 60)},
		[]model.CourseDemand{
			course("P-CM", 0, programP, model.NoGroup, 40),
			course("P1-TD", 1, programP, groupP1, 20),
		},
	)
	assignments := []model.Assignment{{Course: 1, Room: 0, Slot: monday10}, {Course: 0, Room: 0, Slot: monday8}}

	sessions := Sessions(catalog, assignments)

	assert.Equal(t, []Session{
		{Day: "Monday", Start: 8, End: 10, Course: "P-CM", Name: "P-CM", Kind: "LECTURE", Teacher: "T0", Program: "P", Room: "R0", Size: 40},
		{Day: "Monday", Start: 10, End: 12, Course: "P1-TD", Name: "P1-TD", Kind: "TUTORIAL", Teacher: "T1", Program: "P", Group: "P-G1", Room: "R0", Size: 20},
	}, sessions)
	assert.Equal(t, uint64(1), assignments[0].Course, "the input order is preserved")
}
