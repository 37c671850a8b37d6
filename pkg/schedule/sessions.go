package schedule

import (
	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

// Session is an assignment with its references resolved to codes, as handed to consumers
type Session struct {
	Day     string `json:"day"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Course  string `json:"course"`
	Name    string `json:"name,omitempty"`
	Kind    string `json:"kind"`
	Teacher string `json:"teacher"`
	Program string `json:"program"`
	Group   string `json:"group,omitempty"`
	Room    string `json:"room"`
	Size    int    `json:"students"`
}

// Sessions describes the assignments in chronological order
func Sessions(catalog *model.Catalog, assignments []model.Assignment) []Session {
	return lo.Map(chronological(append([]model.Assignment(nil), assignments...)), func(assignment model.Assignment, _ int) Session {
		course := catalog.Courses[assignment.Course]
		session := Session{
			Day:     assignment.Slot.Day.String(),
			Start:   assignment.Slot.Start,
			End:     assignment.Slot.End,
			Course:  course.Code,
			Name:    course.Name,
			Kind:    course.Kind.String(),
			Teacher: catalog.Teachers[course.Teacher].Code,
			Program: catalog.Programs[course.Program].Code,
			Room:    catalog.Rooms[assignment.Room].Code,
			Size:    course.StudentCount,
		}
		if !course.ProgramWide() {
			session.Group = catalog.Groups[course.Group].Code
		}
		return session
	})
}
