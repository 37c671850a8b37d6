package schedule

import (
	"fmt"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

type Rule string

const (
	InvalidReference   Rule = "invalid-reference"
	DuplicateCourse    Rule = "duplicate-course"
	RoomClash          Rule = "room-clash"
	TeacherClash       Rule = "teacher-clash"
	TeacherUnavailable Rule = "teacher-unavailable"
	CohortClash        Rule = "cohort-clash"
	CapacityShortfall  Rule = "capacity-shortfall"
	MissingEquipment   Rule = "missing-equipment"
	ReservedRoom       Rule = "reserved-room"
)

// Violation is a broken invariant, Assignments holds the positions of the offending assignments
type Violation struct {
	Rule        Rule
	Assignments []int
	Detail      string
}

func (violation Violation) String() string {
	return fmt.Sprintf("%v %v: %v", violation.Rule, violation.Assignments, violation.Detail)
}

// Verify re-checks an assignment set against the catalog, the teachers' unavailability and the approved
// reservations of the input. An empty result means the set can be published
func Verify(assignments []model.Assignment, input Input) []Violation {
	catalog := input.Catalog
	violations := make([]Violation, 0)
	valid := make([]bool, len(assignments))
	courseAssignment := make(map[uint64]int)

	approved := lo.Filter(input.Reservations, func(reservation model.Reservation, _ int) bool {
		return reservation.Status == model.Approved
	})

	//** Check each assignment on its own
	for i, assignment := range assignments {
		if err := catalog.ValidateAssignment(assignment); err != nil {
			violations = append(violations, Violation{Rule: InvalidReference, Assignments: []int{i}, Detail: err.Error()})
			continue
		}
		valid[i] = true

		course, room := catalog.Courses[assignment.Course], catalog.Rooms[assignment.Room]

		if first, ok := courseAssignment[course.Id]; ok {
			violations = append(violations, Violation{Rule: DuplicateCourse, Assignments: []int{first, i}, Detail: fmt.Sprintf("course %q is assigned twice", course.Code)})
		} else {
			courseAssignment[course.Id] = i
		}

		if room.Capacity < course.StudentCount {
			violations = append(violations, Violation{Rule: CapacityShortfall, Assignments: []int{i}, Detail: fmt.Sprintf("room %q holds %d students, course %q has %d", room.Code, room.Capacity, course.Code, course.StudentCount)})
		}
		if missing := room.Equipment.Missing(course.Equipment); len(missing) > 0 {
			violations = append(violations, Violation{Rule: MissingEquipment, Assignments: []int{i}, Detail: fmt.Sprintf("room %q lacks %v for course %q", room.Code, missing, course.Code)})
		}

		for _, unavailability := range catalog.Unavailabilities {
			if unavailability.Teacher == course.Teacher && unavailability.Slot.Overlaps(assignment.Slot) {
				violations = append(violations, Violation{Rule: TeacherUnavailable, Assignments: []int{i}, Detail: fmt.Sprintf("teacher %q is unavailable on %v", catalog.Teachers[course.Teacher].Code, unavailability.Slot)})
			}
		}
		for _, reservation := range approved {
			if reservation.Room == assignment.Room && reservation.Slot.Overlaps(assignment.Slot) {
				violations = append(violations, Violation{Rule: ReservedRoom, Assignments: []int{i}, Detail: fmt.Sprintf("room %q is reserved on %v by %v", room.Code, reservation.Slot, reservation.Id)})
			}
		}
	}

	//** Check every pair of overlapping assignments
	for i := range len(assignments) - 1 {
		if !valid[i] {
			continue
		}
		for j := i + 1; j < len(assignments); j++ {
			if !valid[j] || !assignments[i].Slot.Overlaps(assignments[j].Slot) {
				continue
			}

			first, second := catalog.Courses[assignments[i].Course], catalog.Courses[assignments[j].Course]
			pair := []int{i, j}

			if assignments[i].Room == assignments[j].Room {
				violations = append(violations, Violation{Rule: RoomClash, Assignments: pair, Detail: fmt.Sprintf("courses %q and %q share room %q", first.Code, second.Code, catalog.Rooms[assignments[i].Room].Code)})
			}
			if first.Teacher == second.Teacher {
				violations = append(violations, Violation{Rule: TeacherClash, Assignments: pair, Detail: fmt.Sprintf("courses %q and %q share teacher %q", first.Code, second.Code, catalog.Teachers[first.Teacher].Code)})
			}
			if cohortsCollide(first, second) {
				violations = append(violations, Violation{Rule: CohortClash, Assignments: pair, Detail: fmt.Sprintf("courses %q and %q share students of program %q", first.Code, second.Code, catalog.Programs[first.Program].Code)})
			}
		}
	}

	return violations
}

// cohortsCollide reports whether two courses share students: same group, or same program when either is a lecture
func cohortsCollide(first, second model.CourseDemand) bool {
	return first.Program == second.Program && (first.ProgramWide() || second.ProgramWide() || first.Group == second.Group)
}
