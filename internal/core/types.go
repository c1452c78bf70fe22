// Package core contains the core domain types for voxarena.
package core

import (
	"encoding/json"
	"strings"
	"time"
)

// DebateStatus represents the lifecycle state of a debate.
type DebateStatus string

const (
	StatusDraft     DebateStatus = "DRAFT"
	StatusActive    DebateStatus = "ACTIVE"
	StatusCompleted DebateStatus = "COMPLETED"
	StatusArchived  DebateStatus = "ARCHIVED"
)

// DebateFormat determines the participant roles a debate requires.
type DebateFormat string

const (
	FormatStructured DebateFormat = "structured"
	FormatPodcast    DebateFormat = "podcast"
)

// ParticipantRole is a participant's function within a debate.
type ParticipantRole string

const (
	RoleModerator ParticipantRole = "MODERATOR"
	RoleDebater   ParticipantRole = "DEBATER"
	RoleHost      ParticipantRole = "HOST"
	RoleGuest     ParticipantRole = "GUEST"
)

// Defaults applied when the caller omits format or status.
const (
	DefaultFormat DebateFormat = FormatStructured
	DefaultStatus DebateStatus = StatusDraft
)

// ParseStatus canonicalizes a caller-supplied status literal.
func ParseStatus(s string) DebateStatus {
	return DebateStatus(strings.ToUpper(strings.TrimSpace(s)))
}

// ParseFormat canonicalizes a caller-supplied format literal.
func ParseFormat(s string) DebateFormat {
	return DebateFormat(strings.ToLower(strings.TrimSpace(s)))
}

// Debate represents a staged multi-party debate session.
type Debate struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Topic        string          `json:"topic"`
	Description  string          `json:"description,omitempty"`
	Format       DebateFormat    `json:"format"`
	Status       DebateStatus    `json:"status"`
	Config       json.RawMessage `json:"config,omitempty"`
	Participants []Participant   `json:"participants"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Participant links a persona into a debate with a role.
// The whole set for a debate is replaced as a unit on update.
type Participant struct {
	ID          string          `json:"id,omitempty"`
	DebateID    string          `json:"debate_id,omitempty"`
	PersonaID   string          `json:"persona_id"`
	Role        ParticipantRole `json:"role"`
	Order       int             `json:"order"`
	DisplayName string          `json:"display_name,omitempty"`
	VoiceID     string          `json:"voice_id,omitempty"`
	Meta        json.RawMessage `json:"meta,omitempty"`

	// Persona summary fields, populated on reads.
	PersonaName      string `json:"persona_name,omitempty"`
	PersonaNickname  string `json:"persona_nickname,omitempty"`
	PersonaAvatarURL string `json:"persona_avatar_url,omitempty"`
}

// DebateSummary is a lightweight representation for listing debates.
type DebateSummary struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Topic            string       `json:"topic"`
	Format           DebateFormat `json:"format"`
	Status           DebateStatus `json:"status"`
	ParticipantCount int          `json:"participant_count"`
	CreatedAt        time.Time    `json:"created_at"`
}

// DebateUpdate carries partial scalar changes for a debate.
// Nil fields are left untouched.
type DebateUpdate struct {
	Title       *string
	Topic       *string
	Description *string
	Format      *DebateFormat
	Status      *DebateStatus
	Config      json.RawMessage
}

// Persona holds the scalar attributes of a debate persona plus its
// taxonomy term links.
type Persona struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Nickname        string   `json:"nickname,omitempty"`
	Description     string   `json:"description,omitempty"`
	AvatarURL       string   `json:"avatar_url,omitempty"`
	AgeGroup        string   `json:"age_group,omitempty"`
	Profession      string   `json:"profession,omitempty"`
	GenderIdentity  string   `json:"gender_identity,omitempty"`
	Pronouns        string   `json:"pronouns,omitempty"`
	Temperament     string   `json:"temperament,omitempty"`
	Tone            string   `json:"tone,omitempty"`
	ConflictStyle   string   `json:"conflict_style,omitempty"`
	VocabularyStyle string   `json:"vocabulary_style,omitempty"`
	DebateApproach  []string `json:"debate_approach,omitempty"`
	Confidence      int      `json:"confidence,omitempty"`
	Verbosity       int      `json:"verbosity,omitempty"`
	AccentNote      string   `json:"accent_note,omitempty"`
	Quirks          []string `json:"quirks,omitempty"`

	Taxonomies []Term    `json:"taxonomies,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PersonaSummary is a lightweight representation for listing personas.
type PersonaSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Nickname    string    `json:"nickname,omitempty"`
	Description string    `json:"description,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Term is a taxonomy term within a category.
type Term struct {
	ID          string    `json:"id"`
	Term        string    `json:"term"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"` // canonical category key, or legacy free text
	CategoryID  string    `json:"category_id,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups taxonomy terms under a canonical key and a display name.
type Category struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	TermUsage   int       `json:"term_usage"`
	CreatedAt   time.Time `json:"created_at"`
}

// TermFilter selects and pages taxonomy terms.
type TermFilter struct {
	// Category values a term may match on: resolved category id,
	// canonical key, or legacy full-name storage.
	CategoryID string
	Category   []string
	Limit      int
	Offset     int
}
