// Package avatar generates and stores persona portrait images. The whole
// pipeline is best-effort enrichment: it runs after a persona write and its
// failures never surface to the persona caller.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voxarena/voxarena/internal/core"
)

// Generator produces a source image for a persona. The returned string is
// either an https URL or a base64 data URL.
type Generator interface {
	Generate(ctx context.Context, p *core.Persona) (string, error)
}

// OpenAIGenerator calls the OpenAI images API directly over HTTP.
type OpenAIGenerator struct {
	APIKey string
	Model  string
	Size   string
	Client *http.Client
}

// NewOpenAIGenerator creates a generator with sane defaults.
func NewOpenAIGenerator(apiKey, model, size string) *OpenAIGenerator {
	if model == "" {
		model = "dall-e-3"
	}
	if size == "" {
		size = "1024x1024"
	}
	return &OpenAIGenerator{
		APIKey: apiKey,
		Model:  model,
		Size:   size,
		Client: &http.Client{Timeout: 2 * time.Minute},
	}
}

type ImageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate requests a portrait for the persona and returns the image source.
func (g *OpenAIGenerator) Generate(ctx context.Context, p *core.Persona) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("api key is not set")
	}

	payload, err := json.Marshal(map[string]any{
		"model":  g.Model,
		"prompt": BuildPrompt(p),
		"n":      1,
		"size":   g.Size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("image API error: %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result ImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode image response: %w", err)
	}

	src := ExtractURL(&result)
	if src == "" {
		return "", fmt.Errorf("image response carried no url or payload")
	}
	return src, nil
}

// ExtractURL pulls a usable image source out of an images API response:
// a direct URL when present, otherwise the base64 payload as a data URL.
func ExtractURL(resp *ImageResponse) string {
	if resp == nil || len(resp.Data) == 0 {
		return ""
	}
	d := resp.Data[0]
	if d.URL != "" {
		return d.URL
	}
	if d.B64JSON != "" {
		return "data:image/png;base64," + d.B64JSON
	}
	return ""
}

// BuildPrompt composes a bias-aware portrait prompt from persona fields and
// linked taxonomy terms. Protected traits are never inferred; only stated
// presentation hints are encoded.
func BuildPrompt(p *core.Persona) string {
	displayName := p.Name
	if displayName == "" {
		displayName = p.Nickname
	}
	if displayName == "" {
		displayName = "The persona"
	}

	ageGroup := taxonomyTerm(p, "agegroup")
	if ageGroup == "" {
		ageGroup = p.AgeGroup
	}
	ageHint := "adult"
	switch {
	case strings.Contains(ageGroup, "Teen"):
		ageHint = "looks about 16-19 years old"
	case strings.Contains(ageGroup, "Young Adult"):
		ageHint = "looks about 20-25 years old"
	case strings.Contains(ageGroup, "Middle"):
		ageHint = "looks about 45-50 years old"
	case strings.Contains(ageGroup, "Senior"):
		ageHint = "looks about 65-70 years old"
	case strings.Contains(ageGroup, "Adult"):
		ageHint = "looks about 30-35 years old"
	}

	presentation := strings.TrimSpace(strings.Join(nonEmpty(p.GenderIdentity, p.Pronouns), ", "))
	if presentation == "" {
		presentation = "gender-neutral presentation"
	}

	attire := p.Profession
	if attire == "" {
		attire = taxonomyTerm(p, "profession")
	}
	if attire == "" {
		attire = "professional attire"
	}

	var vibe []string
	if a := taxonomyTerm(p, "archetype"); a != "" {
		vibe = append(vibe, strings.ToLower(a))
	}
	if t := firstNonEmpty(p.Temperament, taxonomyTerm(p, "temperament")); t != "" {
		vibe = append(vibe, strings.ToLower(t))
	}
	if t := firstNonEmpty(p.Tone, taxonomyTerm(p, "tone")); t != "" {
		vibe = append(vibe, strings.ToLower(t)+" tone")
	}
	switch {
	case p.Confidence >= 7:
		vibe = append(vibe, "confident")
	case p.Confidence >= 1 && p.Confidence <= 3:
		vibe = append(vibe, "reserved")
	case p.Confidence != 0:
		vibe = append(vibe, "composed")
	}
	if c := firstNonEmpty(p.ConflictStyle, taxonomyTerm(p, "conflictstyle")); c != "" {
		vibe = append(vibe, strings.ToLower(c)+" posture")
	}
	vibeLine := "calm, approachable"
	if len(vibe) > 0 {
		vibeLine = strings.Join(vibe, ", ")
	}

	lines := []string{
		fmt.Sprintf("Create a photorealistic head-and-shoulders portrait of %s.", displayName),
		fmt.Sprintf("Subject is %s, %s.", presentation, ageHint),
		fmt.Sprintf("Expression and posture reflect: %s.", vibeLine),
		fmt.Sprintf("Wardrobe: %s; no logos or readable text.", strings.ToLower(attire)),
		"Framing: centered headshot, eyes toward camera, gentle smile or neutral expression.",
		"Background: neutral studio background, soft key light, shallow depth of field, natural color grading.",
		"Avoid stereotypes. Do not guess ethnicity, skin tone, religion, or politics.",
		"Output: detailed, high-quality portrait suitable for a UI avatar.",
	}
	return strings.Join(lines, " ")
}

// taxonomyTerm returns the persona's first linked term in the category,
// matching the category case-insensitively.
func taxonomyTerm(p *core.Persona, category string) string {
	for _, t := range p.Taxonomies {
		if strings.EqualFold(strings.TrimSpace(t.Category), category) {
			return strings.TrimSpace(t.Term)
		}
	}
	return ""
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
