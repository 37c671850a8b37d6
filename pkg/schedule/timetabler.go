package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/roomscheduler/pkg/model"
	"github.com/samber/lo"
)

var ErrNoFeasibleSlot = errors.New("no timeslot satisfies every constraint")

// InvalidDemandError reports a course that no room of the catalog can host regardless of availability,
// it calls for a data fix rather than a rerun
type InvalidDemandError struct {
	Course          string
	StudentCount    int
	Missing         model.Equipment // Required tags carried by no room
	LargestCapacity int             // Capacity of the largest room carrying the required equipment, -1 if there is none
}

func (err *InvalidDemandError) Error() string {
	if len(err.Missing) > 0 {
		return fmt.Sprintf("course %q requires equipment no room carries: %v", err.Course, err.Missing)
	} else if err.LargestCapacity < 0 {
		return fmt.Sprintf("course %q requires an equipment combination no single room carries", err.Course)
	}
	return fmt.Sprintf("course %q needs %d seats but the largest suitable room holds %d", err.Course, err.StudentCount, err.LargestCapacity)
}

type Input struct {
	Catalog      *model.Catalog
	Reservations []model.Reservation // Only APPROVED ones block rooms
	Grid         model.Grid
}

type Unscheduled struct {
	Course uint64
	Code   string
	Err    error // ErrNoFeasibleSlot or *InvalidDemandError
}

type Result struct {
	Assignments []model.Assignment
	Unscheduled []Unscheduled
}

// Timetabler places every course demand of the catalog in a (room, timeslot) pair. Placement is single-pass:
// a committed assignment is never revisited, therefore the number of placed courses depends on the order
// in which courses are considered
type Timetabler interface {
	Build(input Input) (Result, error)
	Verify(assignments []model.Assignment, input Input) []Violation
}

type Strategy string

const (
	StrategyGreedy   Strategy = "greedy"
	StrategyMatching Strategy = "matching"
)

var Strategies = []Strategy{StrategyGreedy, StrategyMatching}

func ParseStrategy(value string) (Strategy, error) {
	strategy := Strategy(strings.ToLower(strings.TrimSpace(value)))
	if strategy == "" {
		return StrategyGreedy, nil
	} else if !slices.Contains(Strategies, strategy) {
		return "", fmt.Errorf("%v is not a valid strategy", value)
	}
	return strategy, nil
}

func NewTimetabler(strategy Strategy, tieBreak TieBreak) (Timetabler, error) {
	switch strategy {
	case StrategyGreedy:
		return NewGreedyTimetabler(tieBreak), nil
	case StrategyMatching:
		return NewMatchingTimetabler(tieBreak), nil
	}
	return nil, fmt.Errorf("%v is not a valid strategy", strategy)
}

func (input Input) validate() error {
	if input.Catalog == nil {
		return errors.New("a catalog is required")
	} else if len(input.Grid) == 0 {
		return errors.New("the timeslot grid is empty")
	}
	for _, slot := range input.Grid {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("grid: %w", err)
		}
	}
	return input.Catalog.Validate()
}

// checkDemand reports an *InvalidDemandError when no room is suitable for the course
func checkDemand(course model.CourseDemand, rooms []model.Room) error {
	if lo.SomeBy(rooms, func(room model.Room) bool { return suitable(room, course) }) {
		return nil
	}

	carried := model.NewEquipment(lo.FlatMap(rooms, func(room model.Room, _ int) []string { return room.Equipment })...)
	equipped := lo.Filter(rooms, func(room model.Room, _ int) bool { return room.Equipment.Covers(course.Equipment) })

	largest := -1
	if len(equipped) > 0 {
		largest = lo.MaxBy(equipped, func(a, b model.Room) bool { return a.Capacity > b.Capacity }).Capacity
	}

	return &InvalidDemandError{
		Course:          course.Code,
		StudentCount:    course.StudentCount,
		Missing:         carried.Missing(course.Equipment),
		LargestCapacity: largest,
	}
}
