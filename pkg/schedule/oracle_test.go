package schedule

import (
	"testing"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracle(t *testing.T) {
	catalog := testCatalog(
		[]model.Room{room("R0", 50), room("R1", 50)},
		[]model.CourseDemand{
			course("P-CM", 0, programP, model.NoGroup, 40),
			course("P1-TD", 1, programP, groupP1, 20),
			course("Q1-TD", 2, programQ, groupQ1, 15),
		},
		model.Unavailability{Teacher: 2, Slot: tuesday10},
	)
	reservations := []model.Reservation{
		{Id: "approved", Teacher: 1, Room: 1, Slot: monday10, Status: model.Approved},
		{Id: "pending", Teacher: 1, Room: 0, Slot: monday10, Status: model.Pending},
		{Id: "rejected", Teacher: 1, Room: 0, Slot: tuesday10, Status: model.Rejected},
	}

	t.Run("Room scope", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 0, Room: 0, Slot: monday8}}, reservations)
		require.Nil(t, err)

		assert.True(t, oracle.IsBusy(monday8, RoomOf(0)))
		assert.True(t, oracle.IsBusy(model.TimeSlot{Day: model.Monday, Start: 9, End: 11}, RoomOf(0)))
		assert.False(t, oracle.IsBusy(monday10, RoomOf(0)), "adjacent slots do not overlap and pending reservations do not block")
		assert.False(t, oracle.IsBusy(tuesday10, RoomOf(0)), "rejected reservations do not block")
		assert.True(t, oracle.IsBusy(monday10, RoomOf(1)))
		assert.False(t, oracle.IsBusy(monday8, RoomOf(1)))
	})

	t.Run("Teacher scope", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 0, Room: 0, Slot: monday8}}, reservations)
		require.Nil(t, err)

		assert.True(t, oracle.IsBusy(monday8, TeacherOf(0)))
		assert.False(t, oracle.IsBusy(monday8, TeacherOf(1)), "reservations only block rooms")
		assert.True(t, oracle.IsBusy(model.TimeSlot{Day: model.Tuesday, Start: 11, End: 13}, TeacherOf(2)))
		assert.False(t, oracle.IsBusy(monday8, TeacherOf(2)))
	})

	t.Run("Lecture blocks the groups of its program", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 0, Room: 0, Slot: monday8}}, nil)
		require.Nil(t, err)

		assert.True(t, oracle.IsBusy(monday8, CohortOf(programP, groupP1)))
		assert.True(t, oracle.IsBusy(monday8, CohortOf(programP, groupP2)))
		assert.True(t, oracle.IsBusy(monday8, CohortOf(programP, model.NoGroup)))
		assert.False(t, oracle.IsBusy(monday8, CohortOf(programQ, groupQ1)))
		assert.False(t, oracle.IsBusy(monday8, CohortOf(programQ, model.NoGroup)))
	})

	t.Run("Group session blocks the lectures of its program", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 1, Room: 0, Slot: monday8}}, nil)
		require.Nil(t, err)

		assert.True(t, oracle.IsBusy(monday8, CohortOf(programP, model.NoGroup)))
		assert.True(t, oracle.IsBusy(monday8, CohortOf(programP, groupP1)))
		assert.False(t, oracle.IsBusy(monday8, CohortOf(programP, groupP2)), "sibling groups are independent")
		assert.False(t, oracle.IsBusy(monday10, CohortOf(programP, model.NoGroup)))
	})

	t.Run("Commit is immediately visible", func(t *testing.T) {
		oracle, err := NewOracle(catalog, nil, nil)
		require.Nil(t, err)
		assert.False(t, oracle.IsBusy(monday8, RoomOf(1)))

		oracle.Commit(model.Assignment{Course: 2, Room: 1, Slot: monday8})

		assert.True(t, oracle.IsBusy(monday8, RoomOf(1)))
		assert.True(t, oracle.IsBusy(monday8, TeacherOf(2)))
		assert.True(t, oracle.IsBusy(monday8, CohortOf(programQ, model.NoGroup)))
	})

	t.Run("Queries do not mutate", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 0, Room: 0, Slot: monday8}}, nil)
		require.Nil(t, err)

		for range 3 {
			assert.True(t, oracle.IsBusy(monday8, RoomOf(0)))
			assert.Len(t, oracle.Conflicts(monday8, RoomOf(0)), 1)
		}
	})

	t.Run("Conflicts describe their source", func(t *testing.T) {
		oracle, err := NewOracle(catalog, []model.Assignment{{Course: 2, Room: 1, Slot: tuesday10}}, reservations)
		require.Nil(t, err)

		conflicts := oracle.Conflicts(monday10, RoomOf(1))
		require.Len(t, conflicts, 1)
		assert.Equal(t, FromReservation, conflicts[0].Source)
		assert.Equal(t, "approved", conflicts[0].Reservation)

		conflicts = oracle.Conflicts(tuesday10, TeacherOf(2))
		require.Len(t, conflicts, 2)
		assert.Equal(t, FromUnavailability, conflicts[0].Source)
		assert.Equal(t, FromAssignment, conflicts[1].Source)
		assert.Equal(t, uint64(2), conflicts[1].Course)

		assert.Empty(t, oracle.Conflicts(monday8, TeacherOf(2)))
	})

	t.Run("Dangling references", func(t *testing.T) {
		var dangling *model.DanglingReferenceError

		_, err := NewOracle(catalog, []model.Assignment{{Course: 9, Room: 0, Slot: monday8}}, nil)
		assert.ErrorAs(t, err, &dangling)

		_, err = NewOracle(catalog, nil, []model.Reservation{{Id: "x", Teacher: 0, Room: 7, Slot: monday8, Status: model.Approved}})
		assert.ErrorAs(t, err, &dangling)
	})

	t.Run("Unknown scopes panic", func(t *testing.T) {
		oracle, err := NewOracle(catalog, nil, nil)
		require.Nil(t, err)

		assert.Panics(t, func() { oracle.IsBusy(monday8, RoomOf(5)) })
		assert.Panics(t, func() { oracle.IsBusy(monday8, TeacherOf(5)) })
		assert.Panics(t, func() { oracle.IsBusy(monday8, CohortOf(5, model.NoGroup)) })
		assert.Panics(t, func() { oracle.IsBusy(monday8, CohortOf(programQ, groupP1)) })
	})
}
