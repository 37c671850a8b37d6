package schedule

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/roomscheduler/pkg/model"
)

// TieBreak decides the order of courses sharing the same student count
type TieBreak string

const (
	TieBreakCatalog TieBreak = "catalog" // Catalog order
	TieBreakLevel   TieBreak = "level"   // Program level ascending, then catalog order
)

var TieBreaks = []TieBreak{TieBreakCatalog, TieBreakLevel}

func ParseTieBreak(value string) (TieBreak, error) {
	tieBreak := TieBreak(strings.ToLower(strings.TrimSpace(value)))
	if tieBreak == "" {
		return TieBreakCatalog, nil
	} else if !slices.Contains(TieBreaks, tieBreak) {
		return "", fmt.Errorf("%v is not a valid tie-break policy", value)
	}
	return tieBreak, nil
}

// orderCourses returns the scheduling queue: largest courses first
func orderCourses(catalog *model.Catalog, tieBreak TieBreak) []model.CourseDemand {
	queue := slices.Clone(catalog.Courses)
	slices.SortStableFunc(queue, func(a, b model.CourseDemand) int {
		if bySize := cmp.Compare(b.StudentCount, a.StudentCount); bySize != 0 {
			return bySize
		}
		if tieBreak == TieBreakLevel {
			if byLevel := cmp.Compare(catalog.Programs[a.Program].Level, catalog.Programs[b.Program].Level); byLevel != 0 {
				return byLevel
			}
		}
		return cmp.Compare(a.Id, b.Id)
	})
	return queue
}
