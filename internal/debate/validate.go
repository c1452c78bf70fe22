// Package debate implements the debate lifecycle controller and the
// participant composition rules.
package debate

import (
	"strings"

	"github.com/voxarena/voxarena/internal/core"
)

// ValidateComposition checks whether the roster satisfies the minimum role
// requirements of the given format. It inspects roles only, carries no state,
// and is reused at participant-replace time and at ACTIVE-entry time.
// Unrecognized formats are accepted without constraint so future formats can
// be introduced without a lockout.
func ValidateComposition(format core.DebateFormat, roster []core.Participant) error {
	switch core.DebateFormat(strings.ToLower(string(format))) {
	case core.FormatStructured:
		moderators := countRole(roster, core.RoleModerator)
		debaters := countRole(roster, core.RoleDebater)
		if moderators < 1 || debaters < 2 {
			return &core.ValidationError{Message: "structured debate requires 1 moderator and at least 2 debaters"}
		}
	case core.FormatPodcast:
		hosts := countRole(roster, core.RoleHost)
		guests := countRole(roster, core.RoleGuest)
		if hosts < 1 || guests < 1 {
			return &core.ValidationError{Message: "podcast debate requires 1 host and at least 1 guest"}
		}
	}
	return nil
}

func countRole(roster []core.Participant, role core.ParticipantRole) int {
	n := 0
	for _, p := range roster {
		if p.Role == role {
			n++
		}
	}
	return n
}
