package avatar

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxarena/voxarena/internal/core"
)

func TestBuildPrompt(t *testing.T) {
	t.Run("full persona", func(t *testing.T) {
		p := &core.Persona{
			Name:           "Dr. Vega",
			GenderIdentity: "woman",
			Pronouns:       "she/her",
			Profession:     "Economist",
			Temperament:    "Calm",
			Tone:           "Formal",
			Confidence:     8,
			ConflictStyle:  "Diplomatic",
			Taxonomies: []core.Term{
				{Category: "archetype", Term: "The Analyst"},
				{Category: "agegroup", Term: "Middle Aged (45-60)"},
			},
		}

		prompt := BuildPrompt(p)
		assert.Contains(t, prompt, "portrait of Dr. Vega")
		assert.Contains(t, prompt, "woman, she/her")
		assert.Contains(t, prompt, "looks about 45-50 years old")
		assert.Contains(t, prompt, "the analyst")
		assert.Contains(t, prompt, "formal tone")
		assert.Contains(t, prompt, "confident")
		assert.Contains(t, prompt, "diplomatic posture")
		assert.Contains(t, prompt, "Wardrobe: economist")
		assert.Contains(t, prompt, "Avoid stereotypes.")
	})

	t.Run("empty persona gets neutral defaults", func(t *testing.T) {
		prompt := BuildPrompt(&core.Persona{})
		assert.Contains(t, prompt, "portrait of The persona")
		assert.Contains(t, prompt, "gender-neutral presentation, adult")
		assert.Contains(t, prompt, "calm, approachable")
		assert.Contains(t, prompt, "professional attire")
	})

	t.Run("age hint from scalar field", func(t *testing.T) {
		prompt := BuildPrompt(&core.Persona{Name: "X", AgeGroup: "Young Adult (18-25)"})
		assert.Contains(t, prompt, "looks about 20-25 years old")
	})

	t.Run("low confidence reads as reserved", func(t *testing.T) {
		prompt := BuildPrompt(&core.Persona{Name: "X", Confidence: 2})
		assert.Contains(t, prompt, "reserved")
	})
}

func TestExtractURL(t *testing.T) {
	assert.Equal(t, "", ExtractURL(nil))
	assert.Equal(t, "", ExtractURL(&ImageResponse{}))

	resp := &ImageResponse{}
	resp.Data = append(resp.Data, struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	}{URL: "https://example.com/img.png"})
	assert.Equal(t, "https://example.com/img.png", ExtractURL(resp))

	resp.Data[0].URL = ""
	resp.Data[0].B64JSON = "aGVsbG8="
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", ExtractURL(resp))
}

func TestFileStoreSaveDataURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	url, err := store.Save(context.Background(), "persona-1", "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.Equal(t, "/avatars/persona-1.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "persona-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(data))
}

func TestFileStoreSaveRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote image"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "persona-2", srv.URL+"/img.png")
	require.NoError(t, err)
	assert.Equal(t, "/avatars/persona-2.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "persona-2.png"))
	require.NoError(t, err)
	assert.Equal(t, "remote image", string(data))
}

func TestFileStoreSaveMalformed(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "persona-3", "data:image/png")
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err = store.Save(context.Background(), "persona-4", srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestGeneratorRequiresAPIKey(t *testing.T) {
	g := NewOpenAIGenerator("", "", "")
	_, err := g.Generate(context.Background(), &core.Persona{Name: "X"})
	assert.EqualError(t, err, "api key is not set")
}
