package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NoGroup marks a course demand scoped to its whole program (a lecture)
const NoGroup uint64 = math.MaxUint64

type SessionKind uint64

const (
	Lecture SessionKind = iota
	Tutorial
	Lab
)

var SessionKinds = map[SessionKind]string{
	Lecture:  "LECTURE",
	Tutorial: "TUTORIAL",
	Lab:      "LAB",
}

func ParseSessionKind(value string) (SessionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "LECTURE", "CM":
		return Lecture, nil
	case "TUTORIAL", "TD":
		return Tutorial, nil
	case "LAB", "TP":
		return Lab, nil
	}
	return 0, fmt.Errorf("unknown session kind %q", value)
}

func (kind SessionKind) String() string {
	if name, ok := SessionKinds[kind]; ok {
		return name
	}
	return fmt.Sprintf("SessionKind(%d)", uint64(kind))
}

type Teacher struct {
	Id   uint64
	Code string
	Name string
}

type Program struct {
	Id    uint64
	Code  string
	Name  string
	Level string
}

type Group struct {
	Id      uint64
	Code    string
	Program uint64
	Size    int
}

type Room struct {
	Id        uint64
	Code      string
	Name      string
	Capacity  int
	Equipment Equipment
	Building  string
}

type CourseDemand struct {
	Id           uint64
	Code         string
	Name         string
	Teacher      uint64
	Program      uint64
	Group        uint64 // NoGroup for program-wide sessions
	Kind         SessionKind
	StudentCount int
	Equipment    Equipment
}

func (course CourseDemand) ProgramWide() bool {
	return course.Group == NoGroup
}

type Assignment struct {
	Course uint64
	Room   uint64
	Slot   TimeSlot
}

type Unavailability struct {
	Teacher uint64
	Slot    TimeSlot
}

type ReservationStatus string

const (
	Pending  ReservationStatus = "PENDING"
	Approved ReservationStatus = "APPROVED"
	Rejected ReservationStatus = "REJECTED"
)

type Reservation struct {
	Id         string
	Teacher    uint64
	Room       uint64
	Slot       TimeSlot
	Reason     string
	Status     ReservationStatus
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// Catalog holds every entity the engine reads. Entities are stored in slices and their Id is their index,
// therefore the iteration order is the catalog order. The code lookups are built by Reindex, a catalog assembled
// by hand finds no code until it is reindexed.
type Catalog struct {
	Teachers         []Teacher
	Programs         []Program
	Groups           []Group
	Rooms            []Room
	Courses          []CourseDemand
	Unavailabilities []Unavailability

	teachersByCode map[string]uint64
	roomsByCode    map[string]uint64
	groupsByCode   map[string]uint64
	programsByCode map[string]uint64
	coursesByCode  map[string]uint64
}

// Validate verifies that ids match indices and that every reference points inside the catalog
func (catalog *Catalog) Validate() error {
	teachers, programs, groups := uint64(len(catalog.Teachers)), uint64(len(catalog.Programs)), uint64(len(catalog.Groups))

	for i, teacher := range catalog.Teachers {
		if teacher.Id != uint64(i) {
			return fmt.Errorf("teacher %q has id %d at index %d", teacher.Code, teacher.Id, i)
		}
	}
	for i, program := range catalog.Programs {
		if program.Id != uint64(i) {
			return fmt.Errorf("program %q has id %d at index %d", program.Code, program.Id, i)
		}
	}
	for i, room := range catalog.Rooms {
		if room.Id != uint64(i) {
			return fmt.Errorf("room %q has id %d at index %d", room.Code, room.Id, i)
		} else if room.Capacity < 0 {
			return fmt.Errorf("room %q has a negative capacity: %d", room.Code, room.Capacity)
		}
	}
	for i, group := range catalog.Groups {
		if group.Id != uint64(i) {
			return fmt.Errorf("group %q has id %d at index %d", group.Code, group.Id, i)
		} else if group.Program >= programs {
			return danglingIndex("group", group.Code, "program", group.Program)
		}
	}
	for i, course := range catalog.Courses {
		if course.Id != uint64(i) {
			return fmt.Errorf("course %q has id %d at index %d", course.Code, course.Id, i)
		} else if course.Teacher >= teachers {
			return danglingIndex("course", course.Code, "teacher", course.Teacher)
		} else if course.Program >= programs {
			return danglingIndex("course", course.Code, "program", course.Program)
		} else if !course.ProgramWide() && course.Group >= groups {
			return danglingIndex("course", course.Code, "group", course.Group)
		} else if !course.ProgramWide() && catalog.Groups[course.Group].Program != course.Program {
			return fmt.Errorf("course %q: group %q does not belong to program %q", course.Code, catalog.Groups[course.Group].Code, catalog.Programs[course.Program].Code)
		}
	}
	for i, unavailability := range catalog.Unavailabilities {
		if unavailability.Teacher >= teachers {
			return danglingIndex("unavailability", fmt.Sprint(i), "teacher", unavailability.Teacher)
		} else if err := unavailability.Slot.Validate(); err != nil {
			return fmt.Errorf("unavailability %d: %w", i, err)
		}
	}

	return nil
}

// ValidateAssignment checks the references of an assignment against the catalog
func (catalog *Catalog) ValidateAssignment(assignment Assignment) error {
	if assignment.Course >= uint64(len(catalog.Courses)) {
		return danglingIndex("assignment", assignment.Slot.String(), "course", assignment.Course)
	} else if assignment.Room >= uint64(len(catalog.Rooms)) {
		return danglingIndex("assignment", assignment.Slot.String(), "room", assignment.Room)
	}
	return assignment.Slot.Validate()
}

// ValidateReservation checks the references of a reservation against the catalog
func (catalog *Catalog) ValidateReservation(reservation Reservation) error {
	if reservation.Teacher >= uint64(len(catalog.Teachers)) {
		return danglingIndex("reservation", reservation.Id, "teacher", reservation.Teacher)
	} else if reservation.Room >= uint64(len(catalog.Rooms)) {
		return danglingIndex("reservation", reservation.Id, "room", reservation.Room)
	}
	return reservation.Slot.Validate()
}

func (catalog *Catalog) TeacherByCode(code string) (Teacher, bool) {
	id, ok := catalog.teachersByCode[code]
	if !ok {
		return Teacher{}, false
	}
	return catalog.Teachers[id], true
}

func (catalog *Catalog) RoomByCode(code string) (Room, bool) {
	id, ok := catalog.roomsByCode[code]
	if !ok {
		return Room{}, false
	}
	return catalog.Rooms[id], true
}

func (catalog *Catalog) GroupByCode(code string) (Group, bool) {
	id, ok := catalog.groupsByCode[code]
	if !ok {
		return Group{}, false
	}
	return catalog.Groups[id], true
}

func (catalog *Catalog) ProgramByCode(code string) (Program, bool) {
	id, ok := catalog.programsByCode[code]
	if !ok {
		return Program{}, false
	}
	return catalog.Programs[id], true
}

func (catalog *Catalog) CourseByCode(code string) (CourseDemand, bool) {
	id, ok := catalog.coursesByCode[code]
	if !ok {
		return CourseDemand{}, false
	}
	return catalog.Courses[id], true
}

// Reindex rebuilds the code lookups. It must be called after mutating the catalog slices and is not safe for concurrent use
func (catalog *Catalog) Reindex() {
	catalog.teachersByCode = make(map[string]uint64, len(catalog.Teachers))
	for _, teacher := range catalog.Teachers {
		catalog.teachersByCode[teacher.Code] = teacher.Id
	}
	catalog.roomsByCode = make(map[string]uint64, len(catalog.Rooms))
	for _, room := range catalog.Rooms {
		catalog.roomsByCode[room.Code] = room.Id
	}
	catalog.groupsByCode = make(map[string]uint64, len(catalog.Groups))
	for _, group := range catalog.Groups {
		catalog.groupsByCode[group.Code] = group.Id
	}
	catalog.programsByCode = make(map[string]uint64, len(catalog.Programs))
	for _, program := range catalog.Programs {
		catalog.programsByCode[program.Code] = program.Id
	}
	catalog.coursesByCode = make(map[string]uint64, len(catalog.Courses))
	for _, course := range catalog.Courses {
		catalog.coursesByCode[course.Code] = course.Id
	}
}
