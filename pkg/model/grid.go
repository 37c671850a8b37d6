package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Block is a [Start, End) hour range repeated on every teaching day
type Block struct {
	Start int
	End   int
}

// Grid is the fixed weekly sequence of timeslots walked by the scheduler, in day-major order
type Grid []TimeSlot

var DefaultBlocks = []Block{
	{Start: 8, End: 10},
	{Start: 10, End: 12},
	{Start: 14, End: 16},
	{Start: 16, End: 18},
}

func NewGrid(teachingDays int, blocks []Block) (Grid, error) {
	if teachingDays != 5 && teachingDays != 6 {
		return nil, fmt.Errorf("teaching days must be 5 or 6: %v", teachingDays)
	} else if len(blocks) == 0 {
		return nil, fmt.Errorf("at least one block is required")
	}

	grid := make(Grid, 0, teachingDays*len(blocks))
	for day := range teachingDays {
		for _, block := range blocks {
			slot, err := NewTimeSlot(Day(day), block.Start, block.End)
			if err != nil {
				return nil, err
			}
			grid = append(grid, slot)
		}
	}

	// Blocks of the same day must not overlap each other
	for i := range len(blocks) - 1 {
		for j := i + 1; j < len(blocks); j++ {
			if grid[i].Overlaps(grid[j]) {
				return nil, fmt.Errorf("blocks %v and %v overlap", grid[i], grid[j])
			}
		}
	}

	return grid, nil
}

func DefaultGrid() Grid {
	return lo.Must(NewGrid(5, DefaultBlocks))
}

// ParseBlock parses "8-10" or "08:00-10:00" into a Block
func ParseBlock(value string) (Block, error) {
	bounds := strings.Split(strings.TrimSpace(value), "-")
	if len(bounds) != 2 {
		return Block{}, fmt.Errorf("invalid block %q: expected <start>-<end>", value)
	}

	hours := make([]int, 2)
	for i, bound := range bounds {
		bound = strings.TrimSpace(bound)
		bound, _, _ = strings.Cut(bound, ":")
		hour, err := strconv.Atoi(bound)
		if err != nil {
			return Block{}, fmt.Errorf("invalid block %q: %w", value, err)
		}
		hours[i] = hour
	}

	block := Block{Start: hours[0], End: hours[1]}
	if block.Start < 0 || block.End > 24 || block.Start >= block.End {
		return Block{}, fmt.Errorf("invalid block %q: start must precede end within a day", value)
	}
	return block, nil
}

// Aligned reports whether every pair of slots in the grid is either identical or disjoint
func (grid Grid) Aligned() bool {
	for i := range len(grid) - 1 {
		for j := i + 1; j < len(grid); j++ {
			if grid[i] != grid[j] && grid[i].Overlaps(grid[j]) {
				return false
			}
		}
	}
	return true
}
