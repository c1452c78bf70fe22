package debate

import (
	"encoding/json"
	"strings"

	"github.com/voxarena/voxarena/internal/core"
)

// NormalizeParticipants turns an untrusted participants payload into clean
// participant tuples. Non-array input yields an empty result. Entries missing
// a persona id or a role after coercion are dropped silently; the remainder
// keeps its input order. Order falls back to the element's position when the
// payload carries no numeric order.
func NormalizeParticipants(v any) []core.Participant {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]core.Participant, 0, len(arr))
	for i, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}

		p := core.Participant{
			PersonaID:   trimString(m["persona_id"]),
			Role:        core.ParticipantRole(strings.ToUpper(trimString(m["role"]))),
			Order:       i,
			DisplayName: stringOnly(m["display_name"]),
			VoiceID:     stringOnly(m["voice_id"]),
		}
		if n, ok := m["order"].(float64); ok {
			p.Order = int(n)
		}
		if meta, ok := m["meta"]; ok && meta != nil {
			// Meta passes through unvalidated.
			if raw, err := json.Marshal(meta); err == nil {
				p.Meta = raw
			}
		}

		if p.PersonaID == "" || p.Role == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func trimString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// stringOnly passes text values through and discards everything else.
func stringOnly(v any) string {
	s, _ := v.(string)
	return s
}
