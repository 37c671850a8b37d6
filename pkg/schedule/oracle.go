package schedule

import (
	"fmt"
	"log"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

type Source uint8

const (
	FromAssignment Source = iota
	FromUnavailability
	FromReservation
)

var Sources = map[Source]string{
	FromAssignment:     "assignment",
	FromUnavailability: "unavailability",
	FromReservation:    "reservation",
}

func (source Source) String() string {
	return Sources[source]
}

// Occupancy is a record blocking a scope during Slot. Course is only meaningful for assignments and
// Reservation only for reservations
type Occupancy struct {
	Source      Source
	Slot        model.TimeSlot
	Course      uint64
	Room        uint64
	Teacher     uint64
	Reservation string
}

// Oracle answers whether a room, a teacher or a cohort is busy during a timeslot, given the committed
// assignments, the teachers' unavailability and the approved reservations
type Oracle interface {
	IsBusy(slot model.TimeSlot, scope Scope) bool
	Conflicts(slot model.TimeSlot, scope Scope) []Occupancy
	Commit(assignment model.Assignment)
}

type indexKind uint8

const (
	roomIndex           indexKind = iota
	teacherIndex                  // Assignments and unavailability by teacher
	groupIndex                    // Group-scoped assignments by group
	programLectureIndex           // Program-wide assignments by program
	programGroupsIndex            // Group-scoped assignments by the group's program
)

type indexKey struct {
	kind indexKind
	day  model.Day
	id   uint64
}

type indexedOracle struct {
	catalog *model.Catalog
	index   map[indexKey][]Occupancy
}

// NewOracle indexes the given records by (day, scope). Reservations that are not APPROVED are ignored and
// a record referencing an entity outside of the catalog is reported as a *model.DanglingReferenceError
func NewOracle(catalog *model.Catalog, assignments []model.Assignment, reservations []model.Reservation) (Oracle, error) {
	oracle := &indexedOracle{
		catalog: catalog,
		index:   make(map[indexKey][]Occupancy),
	}

	for i, unavailability := range catalog.Unavailabilities {
		if unavailability.Teacher >= uint64(len(catalog.Teachers)) {
			return nil, &model.DanglingReferenceError{Entity: "unavailability", Key: fmt.Sprint(i), Field: "teacher", Reference: fmt.Sprint(unavailability.Teacher)}
		}
		oracle.add(indexKey{teacherIndex, unavailability.Slot.Day, unavailability.Teacher}, Occupancy{
			Source:  FromUnavailability,
			Slot:    unavailability.Slot,
			Teacher: unavailability.Teacher,
		})
	}

	for _, reservation := range reservations {
		if reservation.Status != model.Approved {
			continue
		}
		if err := catalog.ValidateReservation(reservation); err != nil {
			return nil, err
		}
		oracle.add(indexKey{roomIndex, reservation.Slot.Day, reservation.Room}, Occupancy{
			Source:      FromReservation,
			Slot:        reservation.Slot,
			Room:        reservation.Room,
			Teacher:     reservation.Teacher,
			Reservation: reservation.Id,
		})
	}

	for _, assignment := range assignments {
		if err := catalog.ValidateAssignment(assignment); err != nil {
			return nil, err
		}
		oracle.Commit(assignment)
	}

	return oracle, nil
}

func (oracle *indexedOracle) IsBusy(slot model.TimeSlot, scope Scope) bool {
	for _, key := range oracle.keys(slot.Day, scope) {
		if lo.SomeBy(oracle.index[key], func(occupancy Occupancy) bool { return occupancy.Slot.Overlaps(slot) }) {
			return true
		}
	}
	return false
}

func (oracle *indexedOracle) Conflicts(slot model.TimeSlot, scope Scope) []Occupancy {
	conflicts := make([]Occupancy, 0)
	for _, key := range oracle.keys(slot.Day, scope) {
		conflicts = append(conflicts, lo.Filter(oracle.index[key], func(occupancy Occupancy, _ int) bool {
			return occupancy.Slot.Overlaps(slot)
		})...)
	}
	return conflicts
}

// Commit makes the assignment visible to every subsequent query, its references must have been validated
func (oracle *indexedOracle) Commit(assignment model.Assignment) {
	course := oracle.catalog.Courses[assignment.Course]
	occupancy := Occupancy{
		Source:  FromAssignment,
		Slot:    assignment.Slot,
		Course:  assignment.Course,
		Room:    assignment.Room,
		Teacher: course.Teacher,
	}
	day := assignment.Slot.Day

	oracle.add(indexKey{roomIndex, day, assignment.Room}, occupancy)
	oracle.add(indexKey{teacherIndex, day, course.Teacher}, occupancy)
	if course.ProgramWide() {
		oracle.add(indexKey{programLectureIndex, day, course.Program}, occupancy)
	} else {
		oracle.add(indexKey{groupIndex, day, course.Group}, occupancy)
		oracle.add(indexKey{programGroupsIndex, day, course.Program}, occupancy)
	}
}

func (oracle *indexedOracle) add(key indexKey, occupancy Occupancy) {
	oracle.index[key] = append(oracle.index[key], occupancy)
}

// keys returns the index entries matching the scope. A group is blocked by its own sessions and by the lectures
// of its program, while a lecture is blocked by the program's lectures and by any session of its groups
func (oracle *indexedOracle) keys(day model.Day, scope Scope) []indexKey {
	switch scope.Kind {
	case RoomScope:
		if scope.Id >= uint64(len(oracle.catalog.Rooms)) {
			log.Panicf("unknown room %d", scope.Id)
		}
		return []indexKey{{roomIndex, day, scope.Id}}
	case TeacherScope:
		if scope.Id >= uint64(len(oracle.catalog.Teachers)) {
			log.Panicf("unknown teacher %d", scope.Id)
		}
		return []indexKey{{teacherIndex, day, scope.Id}}
	case CohortScope:
		if scope.Id >= uint64(len(oracle.catalog.Programs)) {
			log.Panicf("unknown program %d", scope.Id)
		}
		if scope.Group == model.NoGroup {
			return []indexKey{{programLectureIndex, day, scope.Id}, {programGroupsIndex, day, scope.Id}}
		}
		if scope.Group >= uint64(len(oracle.catalog.Groups)) {
			log.Panicf("unknown group %d", scope.Group)
		} else if oracle.catalog.Groups[scope.Group].Program != scope.Id {
			log.Panicf("group %d does not belong to program %d", scope.Group, scope.Id)
		}
		return []indexKey{{groupIndex, day, scope.Group}, {programLectureIndex, day, scope.Id}}
	}
	log.Panicf("unknown scope kind %d", scope.Kind)
	return nil
}
