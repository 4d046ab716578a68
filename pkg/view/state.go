package view

import (
	"github.com/patternware/satchel/pkg/types"
)

// FilterState is the user's current presentation choices. Manual order and
// filter/group are alternatives, not composable; the transition methods
// below keep them mutually exclusive.
type FilterState struct {
	TagIDs       map[types.ID]bool
	AudienceIDs  map[types.ID]bool
	Sort         SortOrder
	GroupByTheme bool
	ManualOrder  bool
}

func DefaultFilterState() FilterState {
	return FilterState{
		TagIDs:      map[types.ID]bool{},
		AudienceIDs: map[types.ID]bool{},
		Sort:        SortAZ,
	}
}

func (s *FilterState) ToggleTag(id types.ID) {
	if s.TagIDs == nil {
		s.TagIDs = map[types.ID]bool{}
	}
	if s.TagIDs[id] {
		delete(s.TagIDs, id)
	} else {
		s.TagIDs[id] = true
	}
}

func (s *FilterState) ToggleAudience(id types.ID) {
	if s.AudienceIDs == nil {
		s.AudienceIDs = map[types.ID]bool{}
	}
	if s.AudienceIDs[id] {
		delete(s.AudienceIDs, id)
	} else {
		s.AudienceIDs[id] = true
	}
}

// BeginManualOrder enters manual ordering, clearing tag and audience
// filters and grouping. The sort preference is kept; it simply has no
// effect while manual order is active.
func (s *FilterState) BeginManualOrder() {
	s.ManualOrder = true
	s.TagIDs = map[types.ID]bool{}
	s.AudienceIDs = map[types.ID]bool{}
	s.GroupByTheme = false
}

// SetSort picks a sort order and leaves manual ordering.
func (s *FilterState) SetSort(order SortOrder) {
	s.Sort = order
	s.ManualOrder = false
}

// Reset restores the default state: a-z, no filters, no grouping, no
// manual order. This is the "clear all" action.
func (s *FilterState) Reset() {
	*s = DefaultFilterState()
}
