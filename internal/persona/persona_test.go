package persona

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxarena/voxarena/internal/core"
	"github.com/voxarena/voxarena/internal/storage"
	"github.com/voxarena/voxarena/internal/taxonomy"
)

func newTestEnv(t *testing.T) (*Service, *taxonomy.Service) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Initialize())

	return NewService(store, nil, nil), taxonomy.NewService(store)
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestParseQuirks(t *testing.T) {
	t.Run("nil means untouched", func(t *testing.T) {
		assert.Nil(t, ParseQuirks(nil))
	})

	tests := []struct {
		in   string
		want []string
	}{
		{"quotes statistics, pauses dramatically", []string{"quotes statistics", "pauses dramatically"}},
		{"one | two|three", []string{"one", "two", "three"}},
		{"first\nsecond\n\nthird", []string{"first", "second", "third"}},
		{"mixed, separators | here\nand there", []string{"mixed", "separators", "here", "and there"}},
		{"  ,  , ", []string{}},
		{"", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseQuirks(strPtr(tt.in)), "parse %q", tt.in)
	}
}

func TestCollectTaxonomyIDs(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, CollectTaxonomyIDs(Input{}))
	})

	t.Run("gathers singular and plural keys deduped", func(t *testing.T) {
		got := CollectTaxonomyIDs(Input{
			AgeGroupID:   strPtr("t-age"),
			CultureID:    strPtr("t-culture"),
			CultureIDs:   []string{"t-culture", "t-culture-2"},
			ArchetypeIDs: []string{"t-arch", "", "  ", "t-arch"},
		})
		assert.Equal(t, []string{"t-age", "t-culture", "t-culture-2", "t-arch"}, got)
	})
}

func TestPersonaLifecycle(t *testing.T) {
	svc, tax := newTestEnv(t)

	t.Run("create requires name", func(t *testing.T) {
		_, err := svc.Create(Input{})
		assert.EqualError(t, err, "name is required")

		_, err = svc.Create(Input{Name: strPtr("   ")})
		assert.EqualError(t, err, "name is required")
	})

	t.Run("create with scalars and quirks", func(t *testing.T) {
		p, err := svc.Create(Input{
			Name:           strPtr("Dr. Vega"),
			Nickname:       strPtr("The Professor"),
			Profession:     strPtr("Economist"),
			Confidence:     intPtr(8),
			QuirksText:     strPtr("quotes statistics, pauses before answering"),
			DebateApproach: []string{"evidence-first"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Dr. Vega", p.Name)
		assert.Equal(t, 8, p.Confidence)
		assert.Equal(t, []string{"quotes statistics", "pauses before answering"}, p.Quirks)
		assert.Empty(t, p.AvatarURL)
	})

	t.Run("partial update leaves other fields", func(t *testing.T) {
		p, err := svc.Create(Input{
			Name:       strPtr("Casey"),
			Profession: strPtr("Lawyer"),
			QuirksText: strPtr("objects often"),
		})
		require.NoError(t, err)

		updated, err := svc.Update(p.ID, Input{Nickname: strPtr("The Counsel")})
		require.NoError(t, err)
		assert.Equal(t, "Casey", updated.Name)
		assert.Equal(t, "Lawyer", updated.Profession)
		assert.Equal(t, "The Counsel", updated.Nickname)
		assert.Equal(t, []string{"objects often"}, updated.Quirks)

		// Blank name on update is rejected
		_, err = svc.Update(p.ID, Input{Name: strPtr("")})
		assert.EqualError(t, err, "name is required")
	})

	t.Run("taxonomy links replace and clear", func(t *testing.T) {
		_, err := tax.CreateCategory(taxonomy.CategoryInput{FullName: "Archetype", Key: "archetype"})
		require.NoError(t, err)
		term1, err := tax.CreateTerm(taxonomy.TermInput{Term: strPtr("Analytical"), Category: strPtr("archetype")})
		require.NoError(t, err)
		term2, err := tax.CreateTerm(taxonomy.TermInput{Term: strPtr("Visionary"), Category: strPtr("archetype")})
		require.NoError(t, err)

		p, err := svc.Create(Input{
			Name:         strPtr("Nova"),
			ArchetypeIDs: []string{term1.ID},
		})
		require.NoError(t, err)
		require.Len(t, p.Taxonomies, 1)
		assert.Equal(t, "Analytical", p.Taxonomies[0].Term)

		// New ids replace the whole link set
		p, err = svc.Update(p.ID, Input{ArchetypeIDs: []string{term2.ID}})
		require.NoError(t, err)
		require.Len(t, p.Taxonomies, 1)
		assert.Equal(t, "Visionary", p.Taxonomies[0].Term)

		// Present-but-empty helper keys clear the links
		p, err = svc.Update(p.ID, Input{ArchetypeIDs: []string{}})
		require.NoError(t, err)
		assert.Empty(t, p.Taxonomies)

		// Absent helper keys leave them alone
		p, err = svc.Update(p.ID, Input{ArchetypeIDs: []string{term1.ID}})
		require.NoError(t, err)
		p, err = svc.Update(p.ID, Input{Nickname: strPtr("N")})
		require.NoError(t, err)
		assert.Len(t, p.Taxonomies, 1)
	})

	t.Run("list and delete", func(t *testing.T) {
		summaries, err := svc.List()
		require.NoError(t, err)
		require.NotEmpty(t, summaries)

		id := summaries[0].ID
		require.NoError(t, svc.Delete(id))
		_, err = svc.Get(id)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(id), core.ErrNotFound)
	})
}
