package debate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxarena/voxarena/internal/core"
)

func roster(roles ...core.ParticipantRole) []core.Participant {
	out := make([]core.Participant, len(roles))
	for i, r := range roles {
		out[i] = core.Participant{PersonaID: "p", Role: r, Order: i}
	}
	return out
}

func TestValidateComposition(t *testing.T) {
	tests := []struct {
		name    string
		format  core.DebateFormat
		roster  []core.Participant
		wantErr string
	}{
		{
			name:   "structured minimum",
			format: core.FormatStructured,
			roster: roster(core.RoleModerator, core.RoleDebater, core.RoleDebater),
		},
		{
			name:   "structured extra debaters",
			format: core.FormatStructured,
			roster: roster(core.RoleModerator, core.RoleDebater, core.RoleDebater, core.RoleDebater),
		},
		{
			name:    "structured missing moderator",
			format:  core.FormatStructured,
			roster:  roster(core.RoleDebater, core.RoleDebater),
			wantErr: "structured debate requires 1 moderator and at least 2 debaters",
		},
		{
			name:    "structured one debater",
			format:  core.FormatStructured,
			roster:  roster(core.RoleModerator, core.RoleDebater),
			wantErr: "structured debate requires 1 moderator and at least 2 debaters",
		},
		{
			name:    "structured empty roster",
			format:  core.FormatStructured,
			roster:  nil,
			wantErr: "structured debate requires 1 moderator and at least 2 debaters",
		},
		{
			name:   "podcast minimum",
			format: core.FormatPodcast,
			roster: roster(core.RoleHost, core.RoleGuest),
		},
		{
			name:   "podcast many guests",
			format: core.FormatPodcast,
			roster: roster(core.RoleHost, core.RoleGuest, core.RoleGuest, core.RoleGuest),
		},
		{
			name:    "podcast missing guest",
			format:  core.FormatPodcast,
			roster:  roster(core.RoleHost),
			wantErr: "podcast debate requires 1 host and at least 1 guest",
		},
		{
			name:    "podcast missing host",
			format:  core.FormatPodcast,
			roster:  roster(core.RoleGuest, core.RoleGuest),
			wantErr: "podcast debate requires 1 host and at least 1 guest",
		},
		{
			name:   "wrong roles for podcast counted strictly",
			format: core.FormatPodcast,
			roster: roster(core.RoleModerator, core.RoleDebater, core.RoleDebater),
			wantErr: "podcast debate requires 1 host and at least 1 guest",
		},
		{
			name:   "unknown format is permissive",
			format: core.DebateFormat("roundtable"),
			roster: nil,
		},
		{
			name:   "format matching is case-insensitive",
			format: core.DebateFormat("STRUCTURED"),
			roster: roster(core.RoleModerator, core.RoleDebater, core.RoleDebater),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateComposition(tt.format, tt.roster)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())

			var validation *core.ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}
}
