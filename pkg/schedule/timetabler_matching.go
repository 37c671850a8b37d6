package schedule

import (
	"errors"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type unassignableError struct {
}

func (err unassignableError) Error() string {
	return "not all courses can be assigned a room"
}

type matchingTimetabler struct {
	tieBreak TieBreak
}

// NewMatchingTimetabler walks the grid like the greedy timetabler, but when no room is left at a slot it
// re-shuffles the rooms of the courses already placed there, looking for a maximum bipartite matching between
// courses and rooms. The grid must be aligned (slots pairwise identical or disjoint)
func NewMatchingTimetabler(tieBreak TieBreak) Timetabler {
	return &matchingTimetabler{tieBreak: tieBreak}
}

func (timetabler *matchingTimetabler) Build(input Input) (Result, error) {
	if err := input.validate(); err != nil {
		return Result{}, err
	} else if !input.Grid.Aligned() {
		return Result{}, errors.New("room matching requires a grid whose slots are pairwise identical or disjoint")
	}

	//** Initialize dependencies
	// The cohort oracle only answers teacher and cohort queries, rooms may move after being committed
	cohorts, err := NewOracle(input.Catalog, nil, nil)
	if err != nil {
		return Result{}, err
	}
	reserved, err := NewOracle(input.Catalog, nil, input.Reservations)
	if err != nil {
		return Result{}, err
	}
	rooms := sortedRooms(input.Catalog.Rooms)

	assignments := make([]model.Assignment, 0, len(input.Catalog.Courses))
	placedAt := make(map[model.TimeSlot][]int) // Indices of the assignments placed at each slot
	unscheduled := make([]Unscheduled, 0)

	for _, course := range orderCourses(input.Catalog, timetabler.tieBreak) {
		if err := checkDemand(course, input.Catalog.Rooms); err != nil {
			unscheduled = append(unscheduled, Unscheduled{Course: course.Id, Code: course.Code, Err: err})
			continue
		}

		placed := false
		for _, slot := range input.Grid {
			if cohorts.IsBusy(slot, TeacherOf(course.Teacher)) || cohorts.IsBusy(slot, CourseCohort(course)) {
				continue
			}

			free := lo.Filter(rooms, func(room model.Room, _ int) bool { return !reserved.IsBusy(slot, RoomOf(room.Id)) })
			taken := lo.SliceToMap(placedAt[slot], func(index int) (uint64, bool) { return assignments[index].Room, true })

			// Prefer the smallest untaken room, fall back to re-assigning the rooms of the whole slot
			room, ok := lo.Find(free, func(room model.Room) bool { return !taken[room.Id] && suitable(room, course) })
			if !ok {
				courses := lo.Map(placedAt[slot], func(index int, _ int) model.CourseDemand {
					return input.Catalog.Courses[assignments[index].Course]
				})
				matching, err := assignRooms(append(courses, course), free)
				if _, unassignable := err.(unassignableError); unassignable {
					continue
				} else if err != nil {
					return Result{}, err
				}

				for i, index := range placedAt[slot] {
					assignments[index].Room = matching[i]
				}
				room = input.Catalog.Rooms[matching[len(matching)-1]]
			}

			assignment := model.Assignment{Course: course.Id, Room: room.Id, Slot: slot}
			cohorts.Commit(assignment)
			placedAt[slot] = append(placedAt[slot], len(assignments))
			assignments = append(assignments, assignment)
			placed = true
			break
		}

		if !placed {
			unscheduled = append(unscheduled, Unscheduled{Course: course.Id, Code: course.Code, Err: ErrNoFeasibleSlot})
		}
	}

	return Result{Assignments: assignments, Unscheduled: unscheduled}, nil
}

func (timetabler *matchingTimetabler) Verify(assignments []model.Assignment, input Input) []Violation {
	return Verify(assignments, input)
}

// assignRooms returns, for every course, the id of the room it is matched with
func assignRooms(courses []model.CourseDemand, rooms []model.Room) ([]uint64, error) {
	// Build neighbors predicate based on suitability
	neighbors := func(courseAny any, roomAny any) (bool, error) {
		course := courses[courseAny.(int)]
		room := rooms[roomAny.(int)]
		return suitable(room, course), nil
	}

	// Nodes are positions in courses and rooms
	coursesAny := lo.Times(len(courses), func(i int) any { return i })
	roomsAny := lo.Times(len(rooms), func(i int) any { return i })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(courses) {
		return nil, unassignableError{}
	}

	assignments := make([]uint64, len(courses))
	for _, edge := range matching {
		courseIndex, roomIndex := edge.Node1, edge.Node2-len(courses)
		assignments[courseIndex] = rooms[roomIndex].Id
	}
	return assignments, nil
}
