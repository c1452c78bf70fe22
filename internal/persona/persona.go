// Package persona manages debate personas: scalar attributes, taxonomy term
// links, and the best-effort avatar enrichment that follows a write.
package persona

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/voxarena/voxarena/internal/avatar"
	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
)

// Service provides persona CRUD on top of the store, with optional avatar
// generation after create/update.
type Service struct {
	store     storage.Storage
	generator avatar.Generator
	avatars   avatar.Store
}

// NewService creates a persona service. Generator and avatar store may be
// nil, which disables the avatar pipeline entirely.
func NewService(store storage.Storage, generator avatar.Generator, avatars avatar.Store) *Service {
	return &Service{store: store, generator: generator, avatars: avatars}
}

// Input is a persona create/update payload. Scalar fields map straight onto
// persona columns; QuirksText is the UI helper that splits into Quirks; the
// taxonomy helper ids feed the join table and are never stored as scalars.
type Input struct {
	Name            *string  `json:"name"`
	Nickname        *string  `json:"nickname"`
	Description     *string  `json:"description"`
	AvatarURL       *string  `json:"avatar_url"`
	AgeGroup        *string  `json:"age_group"`
	Profession      *string  `json:"profession"`
	GenderIdentity  *string  `json:"gender_identity"`
	Pronouns        *string  `json:"pronouns"`
	Temperament     *string  `json:"temperament"`
	Tone            *string  `json:"tone"`
	ConflictStyle   *string  `json:"conflict_style"`
	VocabularyStyle *string  `json:"vocabulary_style"`
	DebateApproach  []string `json:"debate_approach"`
	Confidence      *int     `json:"confidence"`
	Verbosity       *int     `json:"verbosity"`
	AccentNote      *string  `json:"accent_note"`
	QuirksText      *string  `json:"quirks_text"`

	// Singular taxonomy helper keys.
	AgeGroupID      *string `json:"age_group_id"`
	UniversityID    *string `json:"university_id"`
	OrganizationID  *string `json:"organization_id"`
	CultureID       *string `json:"culture_id"`
	CommunityTypeID *string `json:"community_type_id"`
	PoliticalID     *string `json:"political_id"`
	ReligionID      *string `json:"religion_id"`
	AccentID        *string `json:"accent_id"`

	// Plural taxonomy helper keys.
	CultureIDs      []string `json:"culture_ids"`
	ArchetypeIDs    []string `json:"archetype_ids"`
	PhilosophyIDs   []string `json:"philosophy_ids"`
	FillerPhraseIDs []string `json:"filler_phrase_ids"`
	MetaphorIDs     []string `json:"metaphor_ids"`
	DebateHabitIDs  []string `json:"debate_habit_ids"`
}

// CollectTaxonomyIDs gathers the deduped taxonomy ids out of the helper
// keys, preserving first-seen order.
func CollectTaxonomyIDs(in Input) []string {
	var ids []string
	seen := make(map[string]bool)

	add := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, p := range []*string{
		in.AgeGroupID, in.UniversityID, in.OrganizationID, in.CultureID,
		in.CommunityTypeID, in.PoliticalID, in.ReligionID, in.AccentID,
	} {
		if p != nil {
			add(*p)
		}
	}
	for _, arr := range [][]string{
		in.CultureIDs, in.ArchetypeIDs, in.PhilosophyIDs,
		in.FillerPhraseIDs, in.MetaphorIDs, in.DebateHabitIDs,
	} {
		for _, id := range arr {
			add(id)
		}
	}
	return ids
}

// hasTaxonomyKeys reports whether the payload carried any taxonomy helper
// key at all, including empty ones. An update with present-but-empty helper
// keys clears the link set.
func hasTaxonomyKeys(in Input) bool {
	for _, p := range []*string{
		in.AgeGroupID, in.UniversityID, in.OrganizationID, in.CultureID,
		in.CommunityTypeID, in.PoliticalID, in.ReligionID, in.AccentID,
	} {
		if p != nil {
			return true
		}
	}
	for _, arr := range [][]string{
		in.CultureIDs, in.ArchetypeIDs, in.PhilosophyIDs,
		in.FillerPhraseIDs, in.MetaphorIDs, in.DebateHabitIDs,
	} {
		if arr != nil {
			return true
		}
	}
	return false
}

var quirkSeparators = regexp.MustCompile(`[,|\n]`)

// ParseQuirks splits the quirksText helper into individual quirks. A nil
// input means the field was absent and the stored quirks stay untouched.
func ParseQuirks(quirksText *string) []string {
	if quirksText == nil {
		return nil
	}
	parts := quirkSeparators.Split(*quirksText, -1)
	quirks := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			quirks = append(quirks, p)
		}
	}
	return quirks
}

// Create stores a new persona, links its taxonomy terms, and kicks off
// avatar generation in the background when no avatar was supplied.
func (s *Service) Create(in Input) (*core.Persona, error) {
	name := ""
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if name == "" {
		return nil, &core.ValidationError{Message: "name is required"}
	}

	now := time.Now()
	p := &core.Persona{
		ID:        core.GenerateID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyScalars(p, in)

	if err := s.store.CreatePersona(p); err != nil {
		return nil, fmt.Errorf("failed to create persona: %w", err)
	}

	if ids := CollectTaxonomyIDs(in); len(ids) > 0 {
		if err := s.store.SetPersonaTaxonomies(p.ID, ids); err != nil {
			return nil, fmt.Errorf("failed to link taxonomies: %w", err)
		}
	}

	s.enrichAvatar(p.ID)
	return s.Get(p.ID)
}

// Get returns a persona with its taxonomy terms, or ErrNotFound.
func (s *Service) Get(id string) (*core.Persona, error) {
	p, err := s.store.GetPersona(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}
	if p == nil {
		return nil, core.ErrNotFound
	}
	return p, nil
}

// List returns persona summaries, newest first.
func (s *Service) List() ([]*core.PersonaSummary, error) {
	return s.store.ListPersonas()
}

// Update applies a partial update. Taxonomy links are overwritten when ids
// are supplied, cleared when the payload carried helper keys but no ids,
// and left alone otherwise.
func (s *Service) Update(id string, in Input) (*core.Persona, error) {
	p, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &core.ValidationError{Message: "name is required"}
		}
		p.Name = name
	}
	applyScalars(p, in)

	if err := s.store.UpdatePersona(p); err != nil {
		return nil, fmt.Errorf("failed to update persona: %w", err)
	}

	if ids := CollectTaxonomyIDs(in); len(ids) > 0 {
		if err := s.store.SetPersonaTaxonomies(id, ids); err != nil {
			return nil, fmt.Errorf("failed to link taxonomies: %w", err)
		}
	} else if hasTaxonomyKeys(in) {
		if err := s.store.SetPersonaTaxonomies(id, nil); err != nil {
			return nil, fmt.Errorf("failed to clear taxonomies: %w", err)
		}
	}

	s.enrichAvatar(id)
	return s.Get(id)
}

// Delete removes a persona and its taxonomy links.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.store.DeletePersona(id); err != nil {
		return fmt.Errorf("failed to delete persona: %w", err)
	}
	return nil
}

func applyScalars(p *core.Persona, in Input) {
	setString(&p.Nickname, in.Nickname)
	setString(&p.Description, in.Description)
	setString(&p.AvatarURL, in.AvatarURL)
	setString(&p.AgeGroup, in.AgeGroup)
	setString(&p.Profession, in.Profession)
	setString(&p.GenderIdentity, in.GenderIdentity)
	setString(&p.Pronouns, in.Pronouns)
	setString(&p.Temperament, in.Temperament)
	setString(&p.Tone, in.Tone)
	setString(&p.ConflictStyle, in.ConflictStyle)
	setString(&p.VocabularyStyle, in.VocabularyStyle)
	setString(&p.AccentNote, in.AccentNote)
	if in.DebateApproach != nil {
		p.DebateApproach = in.DebateApproach
	}
	if in.Confidence != nil {
		p.Confidence = *in.Confidence
	}
	if in.Verbosity != nil {
		p.Verbosity = *in.Verbosity
	}
	if quirks := ParseQuirks(in.QuirksText); quirks != nil {
		p.Quirks = quirks
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// enrichAvatar fills in a missing avatar in the background. It never blocks
// the persona write and its failures are only logged.
func (s *Service) enrichAvatar(personaID string) {
	if s.generator == nil || s.avatars == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		p, err := s.store.GetPersona(personaID)
		if err != nil || p == nil || p.AvatarURL != "" {
			return
		}

		src, err := s.generator.Generate(ctx, p)
		if err != nil {
			slog.Error("Avatar generation failed", "persona_id", personaID, "error", err)
			return
		}

		url, err := s.avatars.Save(ctx, personaID, src)
		if err != nil {
			slog.Error("Avatar upload failed", "persona_id", personaID, "error", err)
			return
		}

		if err := s.store.SetPersonaAvatar(personaID, url); err != nil {
			slog.Error("Failed to persist avatar url", "persona_id", personaID, "error", err)
			return
		}
		slog.Info("Avatar generated", "persona_id", personaID, "url", url)
	}()
}
