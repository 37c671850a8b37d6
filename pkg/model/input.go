package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Raw entities reference each other by code, ProcessRawInput resolves them into arena ids

type RawTeacher struct {
	Code string `mapstructure:"code" csv:"code" validate:"required"`
	Name string `mapstructure:"name" csv:"name"`
}

type RawProgram struct {
	Code  string `mapstructure:"code" csv:"code" validate:"required"`
	Name  string `mapstructure:"name" csv:"name"`
	Level string `mapstructure:"level" csv:"level"`
}

type RawGroup struct {
	Code    string `mapstructure:"code" csv:"code" validate:"required"`
	Program string `mapstructure:"program" csv:"program" validate:"required"`
	Size    int    `mapstructure:"size" csv:"size" validate:"gte=0"`
}

type RawRoom struct {
	Code      string    `mapstructure:"code" csv:"code" validate:"required"`
	Name      string    `mapstructure:"name" csv:"name"`
	Capacity  int       `mapstructure:"capacity" csv:"capacity" validate:"gte=0"`
	Equipment Equipment `mapstructure:"equipment" csv:"equipment"`
	Building  string    `mapstructure:"building" csv:"building"`
}

type RawCourse struct {
	Code         string    `mapstructure:"code" csv:"code" validate:"required"`
	Name         string    `mapstructure:"name" csv:"name"`
	Teacher      string    `mapstructure:"teacher" csv:"teacher" validate:"required"`
	Program      string    `mapstructure:"program" csv:"program" validate:"required"`
	Group        string    `mapstructure:"group" csv:"group"` // Empty for program-wide sessions
	Kind         string    `mapstructure:"kind" csv:"kind" validate:"required"`
	StudentCount *int      `mapstructure:"studentCount" csv:"student_count,omitempty" validate:"omitempty,gte=0"` // Nil is derived from the scope
	Equipment    Equipment `mapstructure:"equipment" csv:"equipment"`
}

type RawUnavailability struct {
	Teacher string `mapstructure:"teacher" csv:"teacher" validate:"required"`
	Day     string `mapstructure:"day" csv:"day" validate:"required"`
	Start   int    `mapstructure:"start" csv:"start"`
	End     int    `mapstructure:"end" csv:"end"`
}

type RawCatalog struct {
	Teachers         []RawTeacher        `mapstructure:"teachers" validate:"dive"`
	Programs         []RawProgram        `mapstructure:"programs" validate:"dive"`
	Groups           []RawGroup          `mapstructure:"groups" validate:"dive"`
	Rooms            []RawRoom           `mapstructure:"rooms" validate:"dive"`
	Courses          []RawCourse         `mapstructure:"courses" validate:"dive"`
	Unavailabilities []RawUnavailability `mapstructure:"unavailabilities" validate:"dive"`
}

func InputFromJson(file string) (*Catalog, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return nil, err
	}

	var rawInput RawCatalog
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rawInput,
		WeaklyTypedInput: true, // Accept numbers written as strings and single equipment tags
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return nil, fmt.Errorf("cannot decode catalog %v: %w", file, err)
	}

	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawCatalog) (*Catalog, error) {
	if err := validate.Struct(rawInput); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	catalog := &Catalog{}

	//** Manage teachers
	teachers, err := indexCodes("teacher", rawInput.Teachers, func(teacher RawTeacher) string { return teacher.Code })
	if err != nil {
		return nil, err
	}
	catalog.Teachers = lo.Map(rawInput.Teachers, func(teacher RawTeacher, i int) Teacher {
		return Teacher{Id: uint64(i), Code: teacher.Code, Name: teacher.Name}
	})

	//** Manage programs
	programs, err := indexCodes("program", rawInput.Programs, func(program RawProgram) string { return program.Code })
	if err != nil {
		return nil, err
	}
	catalog.Programs = lo.Map(rawInput.Programs, func(program RawProgram, i int) Program {
		return Program{Id: uint64(i), Code: program.Code, Name: program.Name, Level: program.Level}
	})

	//** Manage groups
	groups, err := indexCodes("group", rawInput.Groups, func(group RawGroup) string { return group.Code })
	if err != nil {
		return nil, err
	}
	catalog.Groups = make([]Group, 0, len(rawInput.Groups))
	for i, rawGroup := range rawInput.Groups {
		program, ok := programs[rawGroup.Program]
		if !ok {
			return nil, &DanglingReferenceError{Entity: "group", Key: rawGroup.Code, Field: "program", Reference: rawGroup.Program}
		}
		catalog.Groups = append(catalog.Groups, Group{Id: uint64(i), Code: rawGroup.Code, Program: program, Size: rawGroup.Size})
	}

	//** Manage rooms
	if _, err := indexCodes("room", rawInput.Rooms, func(room RawRoom) string { return room.Code }); err != nil {
		return nil, err
	}
	catalog.Rooms = lo.Map(rawInput.Rooms, func(room RawRoom, i int) Room {
		return Room{
			Id:        uint64(i),
			Code:      room.Code,
			Name:      room.Name,
			Capacity:  room.Capacity,
			Equipment: NewEquipment(room.Equipment...),
			Building:  room.Building,
		}
	})

	//** Manage courses
	if _, err := indexCodes("course", rawInput.Courses, func(course RawCourse) string { return course.Code }); err != nil {
		return nil, err
	}
	programSizes := make(map[uint64]int)
	for _, group := range catalog.Groups {
		programSizes[group.Program] += group.Size
	}
	catalog.Courses = make([]CourseDemand, 0, len(rawInput.Courses))
	for i, rawCourse := range rawInput.Courses {
		course := CourseDemand{
			Id:        uint64(i),
			Code:      rawCourse.Code,
			Name:      rawCourse.Name,
			Group:     NoGroup,
			Equipment: NewEquipment(rawCourse.Equipment...),
		}

		var ok bool
		if course.Teacher, ok = teachers[rawCourse.Teacher]; !ok {
			return nil, &DanglingReferenceError{Entity: "course", Key: rawCourse.Code, Field: "teacher", Reference: rawCourse.Teacher}
		}
		if course.Program, ok = programs[rawCourse.Program]; !ok {
			return nil, &DanglingReferenceError{Entity: "course", Key: rawCourse.Code, Field: "program", Reference: rawCourse.Program}
		}
		if rawCourse.Group != "" {
			if course.Group, ok = groups[rawCourse.Group]; !ok {
				return nil, &DanglingReferenceError{Entity: "course", Key: rawCourse.Code, Field: "group", Reference: rawCourse.Group}
			}
		}
		if course.Kind, err = ParseSessionKind(rawCourse.Kind); err != nil {
			return nil, fmt.Errorf("course %q: %w", rawCourse.Code, err)
		}

		// Derive the head count from the scope when it is not stated
		if rawCourse.StudentCount != nil {
			course.StudentCount = *rawCourse.StudentCount
		} else if course.ProgramWide() {
			course.StudentCount = programSizes[course.Program]
		} else {
			course.StudentCount = catalog.Groups[course.Group].Size
		}

		catalog.Courses = append(catalog.Courses, course)
	}

	//** Manage unavailabilities
	catalog.Unavailabilities = make([]Unavailability, 0, len(rawInput.Unavailabilities))
	for i, rawUnavailability := range rawInput.Unavailabilities {
		teacher, ok := teachers[rawUnavailability.Teacher]
		if !ok {
			return nil, &DanglingReferenceError{Entity: "unavailability", Key: fmt.Sprint(i), Field: "teacher", Reference: rawUnavailability.Teacher}
		}
		day, err := ParseDay(rawUnavailability.Day)
		if err != nil {
			return nil, fmt.Errorf("unavailability %d: %w", i, err)
		}
		slot, err := NewTimeSlot(day, rawUnavailability.Start, rawUnavailability.End)
		if err != nil {
			return nil, fmt.Errorf("unavailability %d: %w", i, err)
		}
		catalog.Unavailabilities = append(catalog.Unavailabilities, Unavailability{Teacher: teacher, Slot: slot})
	}

	// Group/program consistency and ids are re-checked on the resolved catalog
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	catalog.Reindex()
	return catalog, nil
}

// indexCodes maps every code to its position and rejects duplicates
func indexCodes[T any](entity string, items []T, code func(T) string) (map[string]uint64, error) {
	codes := make(map[string]uint64, len(items))
	for i, item := range items {
		key := code(item)
		if _, ok := codes[key]; ok {
			return nil, fmt.Errorf("%w: %v %q", ErrDuplicateCode, entity, key)
		}
		codes[key] = uint64(i)
	}
	return codes, nil
}

// InputFromPath reads a CSV catalog when path is a directory and a JSON one otherwise
func InputFromPath(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return InputFromCsv(path)
	}
	return InputFromJson(path)
}
