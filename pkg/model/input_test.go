package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogFile = "testdata/catalog.json"

func TestInputFromJson(t *testing.T) {
	//** Act
	catalog, err := InputFromJson(catalogFile)

	//** Assert
	require.Nil(t, err)
	assert.Len(t, catalog.Teachers, 3)
	assert.Len(t, catalog.Programs, 2)
	assert.Len(t, catalog.Groups, 3)
	assert.Len(t, catalog.Rooms, 4)
	assert.Len(t, catalog.Courses, 5)
	assert.Len(t, catalog.Unavailabilities, 1)

	t.Run("Equipment is normalized", func(t *testing.T) {
		amphi, ok := catalog.RoomByCode("AMPHI-A")
		require.True(t, ok)
		assert.Equal(t, Equipment{"microphone", "projector"}, amphi.Equipment)

		b102, ok := catalog.RoomByCode("B102")
		require.True(t, ok)
		assert.Empty(t, b102.Equipment)
	})

	t.Run("Scopes and kinds are resolved", func(t *testing.T) {
		lecture, ok := catalog.CourseByCode("ALGO-CM")
		require.True(t, ok)
		assert.True(t, lecture.ProgramWide())
		assert.Equal(t, Lecture, lecture.Kind)

		tutorial, ok := catalog.CourseByCode("ALGO-TD2")
		require.True(t, ok)
		group, _ := catalog.GroupByCode("L1-INFO-G2")
		assert.Equal(t, group.Id, tutorial.Group)
		assert.Equal(t, Tutorial, tutorial.Kind)

		lab, _ := catalog.CourseByCode("PROG-TP1")
		assert.Equal(t, Lab, lab.Kind)
	})

	t.Run("Student counts are derived from the scope", func(t *testing.T) {
		lecture, _ := catalog.CourseByCode("ALGO-CM")
		assert.Equal(t, 54, lecture.StudentCount)

		tutorial, _ := catalog.CourseByCode("ALGO-TD1")
		assert.Equal(t, 28, tutorial.StudentCount)

		stated, _ := catalog.CourseByCode("ANALYSE-CM")
		assert.Equal(t, 20, stated.StudentCount)
	})

	t.Run("Unavailability is resolved", func(t *testing.T) {
		teacher, _ := catalog.TeacherByCode("T-BERNARD")
		assert.Equal(t, Unavailability{Teacher: teacher.Id, Slot: TimeSlot{Day: Monday, Start: 8, End: 12}}, catalog.Unavailabilities[0])
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := InputFromJson("testdata/missing.json")
		assert.NotNil(t, err)
	})
}

func validRawCatalog() RawCatalog {
	return RawCatalog{
		Teachers: []RawTeacher{{Code: "T1"}},
		Programs: []RawProgram{{Code: "P1"}, {Code: "P2"}},
		Groups:   []RawGroup{{Code: "G1", Program: "P1", Size: 20}, {Code: "G2", Program: "P2", Size: 10}},
		Rooms:    []RawRoom{{Code: "R1", Capacity: 30}},
		Courses:  []RawCourse{{Code: "C1", Teacher: "T1", Program: "P1", Group: "G1", Kind: "TD"}},
	}
}

func TestProcessRawInput(t *testing.T) {
	t.Run("Valid catalog", func(t *testing.T) {
		catalog, err := ProcessRawInput(validRawCatalog())

		require.Nil(t, err)
		assert.Equal(t, 20, catalog.Courses[0].StudentCount)
	})

	t.Run("A stated head count is kept, zero included", func(t *testing.T) {
		raw := validRawCatalog()
		raw.Courses = append(raw.Courses,
			RawCourse{Code: "C2", Teacher: "T1", Program: "P1", Group: "G1", Kind: "TD", StudentCount: lo.ToPtr(0)},
			RawCourse{Code: "C3", Teacher: "T1", Program: "P2", Kind: "CM", StudentCount: lo.ToPtr(45)},
		)

		catalog, err := ProcessRawInput(raw)

		require.Nil(t, err)
		assert.Equal(t, 20, catalog.Courses[0].StudentCount)
		assert.Equal(t, 0, catalog.Courses[1].StudentCount)
		assert.Equal(t, 45, catalog.Courses[2].StudentCount)
	})

	t.Run("Dangling references", func(t *testing.T) {
		cases := map[string]func(raw *RawCatalog){
			"teacher": func(raw *RawCatalog) { raw.Courses[0].Teacher = "T9" },
			"program": func(raw *RawCatalog) { raw.Courses[0].Program = "P9" },
			"group":   func(raw *RawCatalog) { raw.Courses[0].Group = "G9" },
		}

		for field, mutate := range cases {
			raw := validRawCatalog()
			mutate(&raw)

			_, err := ProcessRawInput(raw)

			var dangling *DanglingReferenceError
			require.ErrorAs(t, err, &dangling, field)
			assert.Equal(t, "course", dangling.Entity)
			assert.Equal(t, field, dangling.Field)
		}

		raw := validRawCatalog()
		raw.Groups[0].Program = "P9"
		_, err := ProcessRawInput(raw)
		var dangling *DanglingReferenceError
		assert.ErrorAs(t, err, &dangling)

		raw = validRawCatalog()
		raw.Unavailabilities = []RawUnavailability{{Teacher: "T9", Day: "Monday", Start: 8, End: 10}}
		_, err = ProcessRawInput(raw)
		assert.ErrorAs(t, err, &dangling)
	})

	t.Run("Group outside of the course program", func(t *testing.T) {
		raw := validRawCatalog()
		raw.Courses[0].Group = "G2"

		_, err := ProcessRawInput(raw)

		assert.NotNil(t, err)
	})

	t.Run("Duplicate codes", func(t *testing.T) {
		raw := validRawCatalog()
		raw.Rooms = append(raw.Rooms, RawRoom{Code: "R1", Capacity: 10})

		_, err := ProcessRawInput(raw)

		assert.ErrorIs(t, err, ErrDuplicateCode)
	})

	t.Run("Rejected by validation", func(t *testing.T) {
		raw := validRawCatalog()
		raw.Rooms[0].Capacity = -1
		_, err := ProcessRawInput(raw)
		assert.NotNil(t, err)

		raw = validRawCatalog()
		raw.Courses[0].StudentCount = lo.ToPtr(-1)
		_, err = ProcessRawInput(raw)
		assert.NotNil(t, err)

		raw = validRawCatalog()
		raw.Teachers[0].Code = ""
		_, err = ProcessRawInput(raw)
		assert.NotNil(t, err)
	})

	t.Run("Unknown kind and invalid slot", func(t *testing.T) {
		raw := validRawCatalog()
		raw.Courses[0].Kind = "SEMINAR"
		_, err := ProcessRawInput(raw)
		assert.NotNil(t, err)

		raw = validRawCatalog()
		raw.Unavailabilities = []RawUnavailability{{Teacher: "T1", Day: "Monday", Start: 10, End: 8}}
		_, err = ProcessRawInput(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeSlot)
	})
}

func TestCatalogLookups(t *testing.T) {
	catalog, err := ProcessRawInput(validRawCatalog())
	require.Nil(t, err)

	copied := *catalog
	room, ok := copied.RoomByCode("R1")
	assert.True(t, ok, "lookups are plain maps and survive a value copy")
	assert.Equal(t, "R1", room.Code)

	assembled := &Catalog{Rooms: []Room{{Id: 0, Code: "R9"}}}
	_, ok = assembled.RoomByCode("R9")
	assert.False(t, ok, "not reindexed yet")
	assembled.Reindex()
	_, ok = assembled.RoomByCode("R9")
	assert.True(t, ok)
}
