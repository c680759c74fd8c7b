package tui

import tea "github.com/charmbracelet/bubbletea"

// stateChangedMsg arrives whenever the controller commits a state change.
// Signals coalesce, so one message may cover several changes; the model
// re-derives the whole view each time.
type stateChangedMsg struct{}

// flashExpiredMsg ends the newly-arrived pulse.
type flashExpiredMsg struct{}

// rawPayloadMsg carries the detail inspector's raw record.
type rawPayloadMsg struct {
	byteOffset int64
	payload    string
	err        error
}

// waitForUpdate blocks on the controller's coalescing update channel.
func waitForUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-updates
		if !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}
