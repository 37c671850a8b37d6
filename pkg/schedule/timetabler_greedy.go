package schedule

import (
	"github.com/limaJavier/roomscheduler/pkg/model"
)

type greedyTimetabler struct {
	tieBreak TieBreak
}

// NewGreedyTimetabler places the largest courses first, each one at the first grid slot where its teacher and
// cohort are free and a room is available, in the smallest suitable room
func NewGreedyTimetabler(tieBreak TieBreak) Timetabler {
	return &greedyTimetabler{tieBreak: tieBreak}
}

func (timetabler *greedyTimetabler) Build(input Input) (Result, error) {
	if err := input.validate(); err != nil {
		return Result{}, err
	}

	//** Reset
	oracle, err := NewOracle(input.Catalog, nil, input.Reservations)
	if err != nil {
		return Result{}, err
	}
	selector := NewRoomSelector(input.Catalog.Rooms, oracle)

	result := Result{
		Assignments: make([]model.Assignment, 0, len(input.Catalog.Courses)),
		Unscheduled: make([]Unscheduled, 0),
	}

	//** Order and place
	for _, course := range orderCourses(input.Catalog, timetabler.tieBreak) {
		if err := checkDemand(course, input.Catalog.Rooms); err != nil {
			result.Unscheduled = append(result.Unscheduled, Unscheduled{Course: course.Id, Code: course.Code, Err: err})
			continue
		}

		placed := false
		for _, slot := range input.Grid {
			if oracle.IsBusy(slot, TeacherOf(course.Teacher)) || oracle.IsBusy(slot, CourseCohort(course)) {
				continue
			}

			room, ok := selector.Select(course, slot)
			if !ok {
				continue
			}

			assignment := model.Assignment{Course: course.Id, Room: room.Id, Slot: slot}
			oracle.Commit(assignment)
			result.Assignments = append(result.Assignments, assignment)
			placed = true
			break
		}

		//** Fail soft
		if !placed {
			result.Unscheduled = append(result.Unscheduled, Unscheduled{Course: course.Id, Code: course.Code, Err: ErrNoFeasibleSlot})
		}
	}

	return result, nil
}

func (timetabler *greedyTimetabler) Verify(assignments []model.Assignment, input Input) []Violation {
	return Verify(assignments, input)
}
