package model

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Equipment is a normalized set of capability tags (lower-case, trimmed, unique and sorted)
type Equipment []string

func NewEquipment(tags ...string) Equipment {
	normalized := lo.Uniq(lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		return tag, tag != ""
	}))
	slices.Sort(normalized)
	return Equipment(normalized)
}

// ParseEquipment splits a comma separated list of tags
func ParseEquipment(value string) Equipment {
	return NewEquipment(strings.Split(value, ",")...)
}

// Covers reports whether the set is a superset of required
func (equipment Equipment) Covers(required Equipment) bool {
	return lo.Every(equipment, required)
}

// Missing returns the tags of required that are not part of the set
func (equipment Equipment) Missing(required Equipment) Equipment {
	return Equipment(lo.Without(required, equipment...))
}

func (equipment Equipment) String() string {
	return strings.Join(equipment, ",")
}

// UnmarshalCSV reads a comma separated cell of tags
func (equipment *Equipment) UnmarshalCSV(value string) error {
	*equipment = ParseEquipment(value)
	return nil
}

func (equipment Equipment) MarshalCSV() (string, error) {
	return equipment.String(), nil
}
