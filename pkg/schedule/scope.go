package schedule

import (
	"fmt"

	"github.com/limaJavier/roomscheduler/pkg/model"
)

type ScopeKind uint8

const (
	RoomScope ScopeKind = iota
	TeacherScope
	CohortScope
)

// Scope identifies the resource an availability query is about. A cohort scope carries the program in Id and
// either one of its groups or model.NoGroup when the whole program (a lecture) is being scheduled
type Scope struct {
	Kind  ScopeKind
	Id    uint64
	Group uint64
}

func RoomOf(room uint64) Scope {
	return Scope{Kind: RoomScope, Id: room}
}

func TeacherOf(teacher uint64) Scope {
	return Scope{Kind: TeacherScope, Id: teacher}
}

func CohortOf(program uint64, group uint64) Scope {
	return Scope{Kind: CohortScope, Id: program, Group: group}
}

// CourseCohort returns the cohort attending the course
func CourseCohort(course model.CourseDemand) Scope {
	return CohortOf(course.Program, course.Group)
}

func (scope Scope) String() string {
	switch scope.Kind {
	case RoomScope:
		return fmt.Sprintf("room %d", scope.Id)
	case TeacherScope:
		return fmt.Sprintf("teacher %d", scope.Id)
	case CohortScope:
		if scope.Group == model.NoGroup {
			return fmt.Sprintf("program %d", scope.Id)
		}
		return fmt.Sprintf("program %d group %d", scope.Id, scope.Group)
	}
	return fmt.Sprintf("scope(%d, %d)", scope.Kind, scope.Id)
}
