// Package storage provides persistence for debates, personas and the
// taxonomy.
package storage

import (
	"github.com/voxarena/voxarena/internal/core"
)

// Storage defines the interface for voxarena persistence. Reads return
// (nil, nil) when the target row does not exist; callers decide whether that
// is an error.
type Storage interface {
	// Initialize sets up the storage (creates tables, etc.)
	Initialize() error

	// Close closes the storage connection.
	Close() error

	// Debate operations. GetDebate includes the participant roster ordered
	// by order index. ReplaceParticipants swaps the entire roster in one
	// transaction (delete-all then insert-all, no row diffing). DeleteDebate
	// removes participant rows before the parent.
	CreateDebate(d *core.Debate, participants []core.Participant) error
	GetDebate(id string) (*core.Debate, error)
	ListDebates(limit, offset int) ([]*core.DebateSummary, error)
	UpdateDebateFields(id string, update core.DebateUpdate) error
	ReplaceParticipants(debateID string, participants []core.Participant) error
	DeleteDebate(id string) error

	// Persona operations. Taxonomy links follow the same replace-all shape
	// as debate participants.
	CreatePersona(p *core.Persona) error
	GetPersona(id string) (*core.Persona, error)
	ListPersonas() ([]*core.PersonaSummary, error)
	UpdatePersona(p *core.Persona) error
	SetPersonaTaxonomies(personaID string, taxonomyIDs []string) error
	SetPersonaAvatar(personaID, url string) error
	DeletePersona(id string) error

	// Taxonomy term operations.
	CreateTerm(t *core.Term) error
	GetTerm(id string) (*core.Term, error)
	UpdateTerm(t *core.Term) error
	DeleteTerm(id string) error
	ListTerms(filter core.TermFilter) ([]*core.Term, int, error)

	// Taxonomy category operations. FindCategory matches the canonical key
	// first, then the display full name, both case-insensitive.
	// DeleteCategory removes linked terms before the category row.
	CreateCategory(c *core.Category) error
	GetCategory(id string) (*core.Category, error)
	FindCategory(keyOrName string) (*core.Category, error)
	ListCategories(limit, offset int) ([]*core.Category, int, error)
	UpdateCategory(c *core.Category) error
	DeleteCategory(id string) error
}
