package debate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
)

// Service is the authoritative orchestrator for debate mutations. It composes
// the roster validator and the status transition table so that every gate
// runs before any write; a failed gate leaves the store untouched.
//
// The load-check-write sequence is not protected against concurrent updates
// to the same debate id: two racing PATCHes resolve last-writer-wins.
type Service struct {
	store         storage.Storage
	defaultFormat core.DebateFormat
	defaultStatus core.DebateStatus
}

// NewService creates a debate service backed by the given store, using the
// built-in format and status fallbacks.
func NewService(store storage.Storage) *Service {
	return &Service{
		store:         store,
		defaultFormat: core.DefaultFormat,
		defaultStatus: core.DefaultStatus,
	}
}

// NewServiceWithDefaults creates a service whose format and status fallbacks
// come from configuration. Empty values keep the built-in constants.
func NewServiceWithDefaults(store storage.Storage, format, status string) *Service {
	s := NewService(store)
	if f := core.ParseFormat(format); f != "" {
		s.defaultFormat = f
	}
	if st := core.ParseStatus(status); st != "" {
		s.defaultStatus = st
	}
	return s
}

// CreateRequest holds the payload for creating a debate. Participants is the
// raw decoded JSON value; it is normalized, not trusted.
type CreateRequest struct {
	Title        string          `json:"title"`
	Topic        string          `json:"topic"`
	Description  string          `json:"description"`
	Format       string          `json:"format"`
	Status       string          `json:"status"`
	Config       json.RawMessage `json:"config"`
	Participants any             `json:"participants"`
}

// UpdateRequest holds a partial update. Nil scalar fields are omitted from
// the write; a non-empty participants list replaces the full roster.
type UpdateRequest struct {
	Title        *string         `json:"title"`
	Topic        *string         `json:"topic"`
	Description  *string         `json:"description"`
	Format       *string         `json:"format"`
	Status       *string         `json:"status"`
	Config       json.RawMessage `json:"config"`
	Participants any             `json:"participants"`
}

// Create builds and persists a new debate. Title, topic and format are
// mandatory. The starting status is taken as supplied (default DRAFT) without
// consulting the transition table. A roster is only validated when one is
// actually provided, so an empty draft can be saved and filled in later.
func (s *Service) Create(req CreateRequest) (*core.Debate, error) {
	title := strings.TrimSpace(req.Title)
	topic := strings.TrimSpace(req.Topic)
	if title == "" {
		return nil, &core.ValidationError{Message: "title is required"}
	}
	if topic == "" {
		return nil, &core.ValidationError{Message: "topic is required"}
	}

	format := core.ParseFormat(req.Format)
	if format == "" {
		format = s.defaultFormat
	}
	status := core.ParseStatus(req.Status)
	if status == "" {
		status = s.defaultStatus
	}

	participants := NormalizeParticipants(req.Participants)
	if len(participants) > 0 {
		if err := ValidateComposition(format, participants); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	d := &core.Debate{
		ID:          core.GenerateID(),
		Title:       title,
		Topic:       topic,
		Description: strings.TrimSpace(req.Description),
		Format:      format,
		Status:      status,
		Config:      req.Config,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateDebate(d, participants); err != nil {
		return nil, fmt.Errorf("failed to create debate: %w", err)
	}

	slog.Debug("Created debate", "id", d.ID, "format", d.Format, "status", d.Status, "participants", len(participants))
	return s.Get(d.ID)
}

// Get returns a debate with its roster, or ErrNotFound.
func (s *Service) Get(id string) (*core.Debate, error) {
	d, err := s.store.GetDebate(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load debate: %w", err)
	}
	if d == nil {
		return nil, core.ErrNotFound
	}
	return d, nil
}

// List returns debate summaries, newest first.
func (s *Service) List(limit, offset int) ([]*core.DebateSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListDebates(limit, offset)
}

// Update applies a partial update to an existing debate.
//
// Gates run in order against the merged view of the pending request and the
// persisted state: roster composition against the effective format, then
// transition legality, then the ACTIVE-entry composition re-check against
// whichever roster will actually be in effect. Only when every gate passes
// are the roster replacement and scalar changes persisted, as one unit.
func (s *Service) Update(id string, req UpdateRequest) (*core.Debate, error) {
	current, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var format *core.DebateFormat
	if req.Format != nil {
		f := core.ParseFormat(*req.Format)
		format = &f
	}

	effectiveFormat := current.Format
	if format != nil {
		effectiveFormat = *format
	}
	if effectiveFormat == "" {
		effectiveFormat = s.defaultFormat
	}

	// Gate 1: proposed roster vs. effective format.
	participants := NormalizeParticipants(req.Participants)
	if len(participants) > 0 {
		if err := ValidateComposition(effectiveFormat, participants); err != nil {
			return nil, err
		}
	}

	// Gate 2: transition legality, plus the ACTIVE-entry composition check
	// against the roster that will be in effect after this update.
	var status *core.DebateStatus
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		to := core.ParseStatus(*req.Status)
		from := current.Status
		if from == "" {
			from = s.defaultStatus
		}
		if err := checkTransition(from, to); err != nil {
			return nil, err
		}
		if to == core.StatusActive {
			roster := participants
			if len(roster) == 0 {
				roster = current.Participants
			}
			if err := ValidateComposition(effectiveFormat, roster); err != nil {
				return nil, err
			}
		}
		status = &to
	}

	// All gates passed; persist.
	if len(participants) > 0 {
		if err := s.store.ReplaceParticipants(id, participants); err != nil {
			return nil, fmt.Errorf("failed to replace participants: %w", err)
		}
	}

	update := core.DebateUpdate{
		Format: format,
		Status: status,
		Config: req.Config,
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		update.Title = &t
	}
	if req.Topic != nil {
		t := strings.TrimSpace(*req.Topic)
		update.Topic = &t
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		update.Description = &d
	}

	if err := s.store.UpdateDebateFields(id, update); err != nil {
		return nil, fmt.Errorf("failed to update debate: %w", err)
	}

	slog.Debug("Updated debate", "id", id, "roster_replaced", len(participants) > 0, "status_changed", status != nil)
	return s.Get(id)
}

// Delete removes a debate; its participant rows go first.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.store.DeleteDebate(id); err != nil {
		return fmt.Errorf("failed to delete debate: %w", err)
	}
	return nil
}
