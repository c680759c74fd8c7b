package stream

import "github.com/agentlens/agentlens/internal/core/model"

// IDSet collects the byte offsets of a window's events. Byte offsets are
// the stable identity key across refreshes.
func IDSet(events []model.Event) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(events))
	for _, e := range events {
		ids[e.ByteOffset] = struct{}{}
	}
	return ids
}

// ComputeNewlyArrived returns the byte offsets present in current but not
// in previous. Callers must not invoke this on the very first population
// of a window, or the entire page would flash as new; that guard lives in
// the page store, not here.
func ComputeNewlyArrived(previous, current map[int64]struct{}) map[int64]struct{} {
	arrived := make(map[int64]struct{})
	for id := range current {
		if _, ok := previous[id]; !ok {
			arrived[id] = struct{}{}
		}
	}
	return arrived
}
