package debate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
)

func newTestStore(t *testing.T) storage.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Initialize())

	return store
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(newTestStore(t))
}

func strPtr(s string) *string { return &s }

func structuredRoster() []any {
	return []any{
		map[string]any{"persona_id": "p-mod", "role": "MODERATOR"},
		map[string]any{"persona_id": "p-a", "role": "DEBATER"},
		map[string]any{"persona_id": "p-b", "role": "DEBATER"},
	}
}

func TestCreateDebate(t *testing.T) {
	svc := newTestService(t)

	t.Run("requires title and topic", func(t *testing.T) {
		_, err := svc.Create(CreateRequest{Topic: "t"})
		assert.EqualError(t, err, "title is required")

		_, err = svc.Create(CreateRequest{Title: "t"})
		assert.EqualError(t, err, "topic is required")

		_, err = svc.Create(CreateRequest{Title: "   ", Topic: "t"})
		assert.EqualError(t, err, "title is required")
	})

	t.Run("defaults format and status", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{Title: "T", Topic: "Q"})
		require.NoError(t, err)
		assert.Equal(t, core.FormatStructured, d.Format)
		assert.Equal(t, core.StatusDraft, d.Status)
		assert.Empty(t, d.Participants)
	})

	t.Run("accepts any starting status", func(t *testing.T) {
		// Creation bypasses the transition table so debates can be imported
		// mid-lifecycle
		d, err := svc.Create(CreateRequest{Title: "T", Topic: "Q", Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, core.StatusCompleted, d.Status)
	})

	t.Run("validates a supplied roster", func(t *testing.T) {
		_, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: []any{
				map[string]any{"persona_id": "p-a", "role": "DEBATER"},
			},
		})
		assert.EqualError(t, err, "structured debate requires 1 moderator and at least 2 debaters")

		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)
		require.Len(t, d.Participants, 3)
	})

	t.Run("podcast roster against podcast format", func(t *testing.T) {
		_, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q", Format: "podcast",
			Participants: structuredRoster(),
		})
		assert.EqualError(t, err, "podcast debate requires 1 host and at least 1 guest")

		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q", Format: "Podcast",
			Participants: []any{
				map[string]any{"persona_id": "p-h", "role": "host"},
				map[string]any{"persona_id": "p-g", "role": "guest"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, core.FormatPodcast, d.Format)
	})
}

func TestConfiguredDefaults(t *testing.T) {
	t.Run("configured format drives creation and validation", func(t *testing.T) {
		svc := NewServiceWithDefaults(newTestStore(t), "podcast", "ACTIVE")

		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: []any{
				map[string]any{"persona_id": "p-h", "role": "HOST"},
				map[string]any{"persona_id": "p-g", "role": "GUEST"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, core.FormatPodcast, d.Format)
		assert.Equal(t, core.StatusActive, d.Status)

		// A moderator-and-debaters roster no longer satisfies the fallback
		// format
		_, err = svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		assert.EqualError(t, err, "podcast debate requires 1 host and at least 1 guest")
	})

	t.Run("empty values keep the built-in constants", func(t *testing.T) {
		svc := NewServiceWithDefaults(newTestStore(t), "", "")

		d, err := svc.Create(CreateRequest{Title: "T", Topic: "Q"})
		require.NoError(t, err)
		assert.Equal(t, core.DefaultFormat, d.Format)
		assert.Equal(t, core.DefaultStatus, d.Status)
	})
}

func TestUpdateDebateLifecycle(t *testing.T) {
	svc := newTestService(t)

	t.Run("draft fills roster then activates", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{Title: "T", Topic: "Q"})
		require.NoError(t, err)

		// Saving the draft again is legal
		d, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("DRAFT")})
		require.NoError(t, err)
		assert.Equal(t, core.StatusDraft, d.Status)

		// Activation without a roster fails closed
		_, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("ACTIVE")})
		assert.EqualError(t, err, "structured debate requires 1 moderator and at least 2 debaters")

		// Roster plus activation in one request passes
		d, err = svc.Update(d.ID, UpdateRequest{
			Status:       strPtr("ACTIVE"),
			Participants: structuredRoster(),
		})
		require.NoError(t, err)
		assert.Equal(t, core.StatusActive, d.Status)
		assert.Len(t, d.Participants, 3)
	})

	t.Run("full lifecycle to archive", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		d, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("ACTIVE")})
		require.NoError(t, err)

		d, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("COMPLETED")})
		require.NoError(t, err)

		d, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("ARCHIVED")})
		require.NoError(t, err)
		assert.Equal(t, core.StatusArchived, d.Status)

		// Archived is terminal
		_, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("DRAFT")})
		assert.EqualError(t, err, "Illegal status transition: ARCHIVED → DRAFT")
	})

	t.Run("illegal jumps are rejected", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		_, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("COMPLETED")})
		assert.EqualError(t, err, "Illegal status transition: DRAFT → COMPLETED")

		_, err = svc.Update(d.ID, UpdateRequest{Status: strPtr("ARCHIVED")})
		assert.EqualError(t, err, "Illegal status transition: DRAFT → ARCHIVED")

		// State unchanged after rejections
		d, err = svc.Get(d.ID)
		require.NoError(t, err)
		assert.Equal(t, core.StatusDraft, d.Status)
	})

	t.Run("failed gate leaves no partial writes", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		// Valid roster but illegal transition: the roster must not land
		_, err = svc.Update(d.ID, UpdateRequest{
			Status: strPtr("ARCHIVED"),
			Participants: []any{
				map[string]any{"persona_id": "p-new-mod", "role": "MODERATOR"},
				map[string]any{"persona_id": "p-new-a", "role": "DEBATER"},
				map[string]any{"persona_id": "p-new-b", "role": "DEBATER"},
			},
		})
		require.Error(t, err)

		d, err = svc.Get(d.ID)
		require.NoError(t, err)
		assert.Equal(t, "p-mod", d.Participants[0].PersonaID)
	})
}

func TestUpdateDebateRoster(t *testing.T) {
	svc := newTestService(t)

	t.Run("replace all semantics", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		d, err = svc.Update(d.ID, UpdateRequest{
			Participants: []any{
				map[string]any{"persona_id": "p-x", "role": "MODERATOR"},
				map[string]any{"persona_id": "p-y", "role": "DEBATER"},
				map[string]any{"persona_id": "p-z", "role": "DEBATER"},
				map[string]any{"persona_id": "p-w", "role": "DEBATER"},
			},
		})
		require.NoError(t, err)
		require.Len(t, d.Participants, 4)
		assert.Equal(t, "p-x", d.Participants[0].PersonaID)
	})

	t.Run("invalid roster rejected against effective format", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		_, err = svc.Update(d.ID, UpdateRequest{
			Participants: []any{
				map[string]any{"persona_id": "p-a", "role": "DEBATER"},
			},
		})
		assert.EqualError(t, err, "structured debate requires 1 moderator and at least 2 debaters")
	})

	t.Run("format change validates incoming roster against new format", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		// Switching to podcast with a structured roster fails
		_, err = svc.Update(d.ID, UpdateRequest{
			Format:       strPtr("podcast"),
			Participants: structuredRoster(),
		})
		assert.EqualError(t, err, "podcast debate requires 1 host and at least 1 guest")

		// With a matching roster the switch lands
		d, err = svc.Update(d.ID, UpdateRequest{
			Format: strPtr("podcast"),
			Participants: []any{
				map[string]any{"persona_id": "p-h", "role": "HOST"},
				map[string]any{"persona_id": "p-g", "role": "GUEST"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, core.FormatPodcast, d.Format)
		assert.Len(t, d.Participants, 2)
	})

	t.Run("omitted roster is untouched by scalar updates", func(t *testing.T) {
		d, err := svc.Create(CreateRequest{
			Title: "T", Topic: "Q",
			Participants: structuredRoster(),
		})
		require.NoError(t, err)

		d, err = svc.Update(d.ID, UpdateRequest{Title: strPtr("New title")})
		require.NoError(t, err)
		assert.Equal(t, "New title", d.Title)
		assert.Len(t, d.Participants, 3)
	})
}

func TestGetListDelete(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	d, err := svc.Create(CreateRequest{Title: "T", Topic: "Q"})
	require.NoError(t, err)

	summaries, err := svc.List(0, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, d.ID, summaries[0].ID)

	require.NoError(t, svc.Delete(d.ID))
	assert.ErrorIs(t, svc.Delete(d.ID), core.ErrNotFound)
}
