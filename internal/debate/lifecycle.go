package debate

import (
	"github.com/voxarena/voxarena/internal/core"
)

// allowedTransitions is the strict allow-list for status changes on update.
// Creation is exempt: any starting status is accepted so debates can be
// imported or seeded mid-lifecycle. ARCHIVED is terminal.
var allowedTransitions = map[core.DebateStatus][]core.DebateStatus{
	core.StatusDraft:     {core.StatusDraft, core.StatusActive},
	core.StatusActive:    {core.StatusCompleted},
	core.StatusCompleted: {core.StatusArchived},
	core.StatusArchived:  {},
}

// CanTransition reports whether a debate may move from one status to another.
// Re-saving a draft (DRAFT -> DRAFT) is the only legal self-transition.
func CanTransition(from, to core.DebateStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// checkTransition returns the caller-facing error for an illegal move.
func checkTransition(from, to core.DebateStatus) error {
	if !CanTransition(from, to) {
		return core.Validationf("Illegal status transition: %s → %s", from, to)
	}
	return nil
}
