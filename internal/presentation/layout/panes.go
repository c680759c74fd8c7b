// Package layout computes the multi-pane arrangement of the viewer. The
// pane split is a pure function of selection state: which sub-agent
// timeline is open and whether a detail inspector is open. Presentation
// resizes panes only by routing through selection changes, so the split
// never drifts out of sync with what is selected.
package layout

// PaneSizes is the percentage split across the three panes. A collapsed
// pane is 0.
type PaneSizes struct {
	Main   int
	Sub    int
	Detail int
}

// Collapsed reports whether a pane percentage means "not shown".
func Collapsed(size int) bool { return size == 0 }

// Compute maps the two selection-derived booleans to pane percentages.
//
//	sub closed, detail closed -> 100 / 0 / 0
//	sub open,   detail closed ->  60 / 40 / 0
//	sub closed, detail open   ->  60 / 0 / 40
//	sub open,   detail open   ->  34 / 33 / 33
//
// Transitions are single-step: opening a sub-agent while a detail is
// already open goes straight to the three-pane split.
func Compute(subTimelineOpen, detailOpen bool) PaneSizes {
	switch {
	case subTimelineOpen && detailOpen:
		return PaneSizes{Main: 34, Sub: 33, Detail: 33}
	case subTimelineOpen:
		return PaneSizes{Main: 60, Sub: 40}
	case detailOpen:
		return PaneSizes{Main: 60, Detail: 40}
	default:
		return PaneSizes{Main: 100}
	}
}

// Widths converts the percentage split into absolute column widths for a
// terminal of the given total width. Remainders go to the main pane so
// the widths always sum to total.
func (p PaneSizes) Widths(total int) (main, sub, detail int) {
	if total <= 0 {
		return 0, 0, 0
	}
	sub = total * p.Sub / 100
	detail = total * p.Detail / 100
	main = total - sub - detail
	return main, sub, detail
}
