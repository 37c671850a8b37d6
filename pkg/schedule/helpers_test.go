package schedule

import (
	"fmt"
	"testing"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/stretchr/testify/assert"
)

const (
	programP uint64 = 0
	programQ uint64 = 1
	groupP1  uint64 = 0
	groupP2  uint64 = 1
	groupQ1  uint64 = 2
)

var (
	monday8   = model.TimeSlot{Day: model.Monday, Start: 8, End: 10}
	monday10  = model.TimeSlot{Day: model.Monday, Start: 10, End: 12}
	tuesday10 = model.TimeSlot{Day: model.Tuesday, Start: 10, End: 12}
)

func room(code string, capacity int, equipment ...string) model.Room {
	return model.Room{Code: code, Name: code, Capacity: capacity, Equipment: model.NewEquipment(equipment...)}
}

func course(code string, teacher uint64, program uint64, group uint64, students int, equipment ...string) model.CourseDemand {
	kind := model.Tutorial
	if group == model.NoGroup {
		kind = model.Lecture
	}
	return model.CourseDemand{
		Code:         code,
		Name:         code,
		Teacher:      teacher,
		Program:      program,
		Group:        group,
		Kind:         kind,
		StudentCount: students,
		Equipment:    model.NewEquipment(equipment...),
	}
}

// testCatalog builds a catalog with three teachers, programs P (two groups) and Q (one group)
func testCatalog(rooms []model.Room, courses []model.CourseDemand, unavailabilities ...model.Unavailability) *model.Catalog {
	for i := range rooms {
		rooms[i].Id = uint64(i)
	}
	for i := range courses {
		courses[i].Id = uint64(i)
	}
	catalog := &model.Catalog{
		Teachers: []model.Teacher{{Id: 0, Code: "T0"}, {Id: 1, Code: "T1"}, {Id: 2, Code: "T2"}},
		Programs: []model.Program{{Id: programP, Code: "P", Level: "L2"}, {Id: programQ, Code: "Q", Level: "L1"}},
		Groups: []model.Group{
			{Id: groupP1, Code: "P-G1", Program: programP, Size: 20},
			{Id: groupP2, Code: "P-G2", Program: programP, Size: 20},
			{Id: groupQ1, Code: "Q-G1", Program: programQ, Size: 15},
		},
		Rooms:            rooms,
		Courses:          courses,
		Unavailabilities: unavailabilities,
	}
	catalog.Reindex()
	return catalog
}

// syntheticCatalog builds a deterministic catalog dense enough to exercise every constraint
func syntheticCatalog() *model.Catalog {
	rooms := []model.Room{
		room("AMPHI", 120, "projector", "microphone"),
		room("S1", 30, "projector"),
		room("S2", 30),
		room("S3", 25),
		room("LAB", 24, "computers"),
	}

	courses := make([]model.CourseDemand, 0)
	for i := range 6 {
		teacher := uint64(i % 3)
		courses = append(courses,
			course("P-CM", teacher, programP, model.NoGroup, 40, "projector"),
			course("P1-TD", (teacher+1)%3, programP, groupP1, 20),
			course("P2-TP", (teacher+2)%3, programP, groupP2, 20, "computers"),
			course("Q-CM", teacher, programQ, model.NoGroup, 15),
			course("Q1-TD", (teacher+1)%3, programQ, groupQ1, 15),
		)
	}
	for i := range courses {
		courses[i].Code = fmt.Sprintf("%v-%02d", courses[i].Code, i)
	}

	return testCatalog(rooms, courses,
		model.Unavailability{Teacher: 0, Slot: tuesday10},
		model.Unavailability{Teacher: 2, Slot: model.TimeSlot{Day: model.Wednesday, Start: 8, End: 18}},
	)
}

// assertInvariants checks the committed set pairwise, independently of Verify
func assertInvariants(t *testing.T, input Input, assignments []model.Assignment) {
	catalog := input.Catalog
	for i, a := range assignments {
		courseA, roomA := catalog.Courses[a.Course], catalog.Rooms[a.Room]
		assert.GreaterOrEqual(t, roomA.Capacity, courseA.StudentCount)
		assert.True(t, roomA.Equipment.Covers(courseA.Equipment))

		for _, unavailability := range catalog.Unavailabilities {
			assert.False(t, unavailability.Teacher == courseA.Teacher && unavailability.Slot.Overlaps(a.Slot), "unavailable teacher")
		}
		for _, reservation := range input.Reservations {
			assert.False(t, reservation.Status == model.Approved && reservation.Room == a.Room && reservation.Slot.Overlaps(a.Slot), "reserved room")
		}

		for _, b := range assignments[i+1:] {
			if !a.Slot.Overlaps(b.Slot) {
				continue
			}
			courseB := catalog.Courses[b.Course]
			assert.NotEqual(t, a.Room, b.Room, "room clash")
			assert.NotEqual(t, courseA.Teacher, courseB.Teacher, "teacher clash")
			if courseA.Program == courseB.Program {
				assert.False(t, courseA.ProgramWide() || courseB.ProgramWide(), "lecture overlaps a session of its program")
				assert.NotEqual(t, courseA.Group, courseB.Group, "group clash")
			}
		}
	}
}

func placedAt(result Result, courseId uint64) (model.Assignment, bool) {
	for _, assignment := range result.Assignments {
		if assignment.Course == courseId {
			return assignment, true
		}
	}
	return model.Assignment{}, false
}
