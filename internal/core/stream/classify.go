package stream

import (
	"strings"

	"github.com/agentlens/agentlens/internal/core/model"
)

const commandMessageMarker = "<command-message>"

// Classify derives the display category of an event. Total and
// deterministic; first matching rule wins.
func Classify(event model.Event) model.EventCategory {
	if event.Subtype == "compact_boundary" {
		return model.CategoryCompaction
	}
	if event.EventType == "user" {
		if event.IsCompactSummary || event.IsMeta || event.IsToolResult ||
			strings.HasPrefix(event.Preview, commandMessageMarker) {
			return model.CategoryContext
		}
		if event.UserType == "external" {
			return model.CategoryMe
		}
		return model.CategoryContext
	}
	return model.EventCategory(event.EventType)
}

// matchesCategory applies the category test. The subagent category is an
// orthogonal predicate on sub-agent linkage, independent of the primary
// classification.
func matchesCategory(event model.Event, category model.EventCategory) bool {
	if category == model.CategorySubagent {
		return event.LaunchedAgentID != ""
	}
	return Classify(event) == category
}

// FilterInput is everything the predicate engine needs to derive the
// visible view from a base event list.
type FilterInput struct {
	Base     []model.Event
	Category model.EventCategory
	Mode     model.FilterMode

	// SearchActive is true while a non-empty query is in effect.
	// SearchCorrelated is true when Base is already the search-scoped
	// event list, in which case the sequence test is redundant.
	SearchActive     bool
	SearchCorrelated bool
	SearchSequences  map[int]struct{}
}

// FilterOutput is the derived view. In filter mode Highlighted is always
// nil. In highlight mode Visible aliases Base and Highlighted holds the
// positions of matching events, or nil when no condition is active;
// renderers must treat nil as "no highlight", not "highlight everything".
type FilterOutput struct {
	Visible     []model.Event
	Highlighted map[int]struct{}
}

func (in FilterInput) matches(event model.Event) bool {
	if in.Category != model.CategoryAll && in.Category != "" {
		if !matchesCategory(event, in.Category) {
			return false
		}
	}
	if in.SearchActive && !in.SearchCorrelated {
		if _, ok := in.SearchSequences[event.Sequence]; !ok {
			return false
		}
	}
	return true
}

func (in FilterInput) anyConditionActive() bool {
	hasFilter := in.Category != model.CategoryAll && in.Category != ""
	return hasFilter || in.SearchActive
}

// ApplyFilter derives the visible events and highlight set.
func ApplyFilter(in FilterInput) FilterOutput {
	if !in.anyConditionActive() {
		// Identity: nothing active, return the base reference untouched
		return FilterOutput{Visible: in.Base}
	}

	if in.Mode == model.ModeHighlight {
		highlighted := make(map[int]struct{})
		for i, event := range in.Base {
			if in.matches(event) {
				highlighted[i] = struct{}{}
			}
		}
		return FilterOutput{Visible: in.Base, Highlighted: highlighted}
	}

	visible := make([]model.Event, 0, len(in.Base))
	for _, event := range in.Base {
		if in.matches(event) {
			visible = append(visible, event)
		}
	}
	return FilterOutput{Visible: visible}
}
