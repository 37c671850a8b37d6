package schedule

import (
	"testing"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	catalog := testCatalog(
		[]model.Room{room("R0", 30), room("R1", 60, "projector")},
		[]model.CourseDemand{
			course("P-CM", 0, programP, model.NoGroup, 40, "projector"),
			course("P1-TD", 1, programP, groupP1, 20),
			course("Q1-TD", 0, programQ, groupQ1, 15),
			course("P2-TD", 2, programP, groupP2, 20),
		},
		model.Unavailability{Teacher: 2, Slot: tuesday10},
	)
	input := Input{
		Catalog:      catalog,
		Reservations: []model.Reservation{{Id: "r", Room: 0, Slot: model.TimeSlot{Day: model.Friday, Start: 8, End: 10}, Status: model.Approved}},
		Grid:         model.DefaultGrid(),
	}

	rules := func(violations []Violation) []Rule {
		return lo.Uniq(lo.Map(violations, func(violation Violation, _ int) Rule { return violation.Rule }))
	}

	t.Run("Valid set", func(t *testing.T) {
		assert.Empty(t, Verify([]model.Assignment{
			{Course: 0, Room: 1, Slot: monday8},
			{Course: 1, Room: 0, Slot: monday10},
			{Course: 2, Room: 1, Slot: monday10},
		}, input))
	})

	cases := map[Rule][]model.Assignment{
		RoomClash:          {{Course: 1, Room: 0, Slot: monday8}, {Course: 3, Room: 0, Slot: monday8}},
		TeacherClash:       {{Course: 0, Room: 1, Slot: monday8}, {Course: 2, Room: 0, Slot: monday8}},
		CohortClash:        {{Course: 0, Room: 1, Slot: monday8}, {Course: 3, Room: 0, Slot: monday8}},
		TeacherUnavailable: {{Course: 3, Room: 0, Slot: tuesday10}},
		CapacityShortfall:  {{Course: 0, Room: 0, Slot: monday8}},
		ReservedRoom:       {{Course: 1, Room: 0, Slot: model.TimeSlot{Day: model.Friday, Start: 9, End: 11}}},
		DuplicateCourse:    {{Course: 1, Room: 0, Slot: monday8}, {Course: 1, Room: 0, Slot: monday10}},
		InvalidReference:   {{Course: 7, Room: 0, Slot: monday8}},
	}
	for rule, assignments := range cases {
		t.Run(string(rule), func(t *testing.T) {
			assert.Contains(t, rules(Verify(assignments, input)), rule)
		})
	}

	t.Run(string(MissingEquipment), func(t *testing.T) {
		violations := Verify([]model.Assignment{{Course: 0, Room: 0, Slot: monday8}}, input)
		assert.ElementsMatch(t, []Rule{CapacityShortfall, MissingEquipment}, rules(violations))
	})
}
