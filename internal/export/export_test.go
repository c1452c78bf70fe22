package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/voxarena/voxarena/internal/core"
)

func testDebate() *core.Debate {
	created := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	return &core.Debate{
		ID:        "deb-123",
		Title:     "Climate Policy",
		Topic:     "Carbon taxes vs cap and trade",
		Format:    core.FormatStructured,
		Status:    core.StatusActive,
		CreatedAt: created,
		UpdatedAt: created,
		Participants: []core.Participant{
			{PersonaID: "p-1", Role: core.RoleModerator, PersonaName: "Dr. Vega"},
			{PersonaID: "p-2", Role: core.RoleDebater, DisplayName: "The Skeptic"},
		},
	}
}

func TestGetExporter(t *testing.T) {
	for _, format := range []Format{FormatMarkdown, FormatPDF, FormatJSON} {
		exporter, err := GetExporter(format)
		if err != nil {
			t.Errorf("GetExporter(%s) failed: %v", format, err)
		}
		if exporter == nil {
			t.Errorf("GetExporter(%s) returned nil", format)
		}
	}

	if _, err := GetExporter("docx"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestGenerateFilename(t *testing.T) {
	d := testDebate()
	got := GenerateFilename(d, "md")
	if got != "debate_20260315_Climate_Policy.md" {
		t.Errorf("unexpected filename: %s", got)
	}

	d.Title = `a/b\c:d*e?f"g<h>i|j`
	got = GenerateFilename(d, "pdf")
	if got != "debate_20260315_a-b-c-defghij.pdf" {
		t.Errorf("unexpected sanitized filename: %s", got)
	}

	d.Title = strings.Repeat("x", 80)
	got = GenerateFilename(d, "json")
	if len(got) != len("debate_20260315_.json")+50 {
		t.Errorf("long title not truncated: %s", got)
	}
}

func TestMarkdownExport(t *testing.T) {
	var buf bytes.Buffer
	exporter := &MarkdownExporter{}
	if err := exporter.Export(testDebate(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Climate Policy",
		"> Carbon taxes vs cap and trade",
		"- **Status:** ACTIVE",
		"### Dr. Vega (moderator)",
		"### The Skeptic (debater)",
		"*Exported from voxarena*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestMarkdownExportNoParticipants(t *testing.T) {
	d := testDebate()
	d.Participants = nil

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(d, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(buf.String(), "*No participants assigned.*") {
		t.Error("expected empty participants notice")
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONExporter{}).Export(testDebate(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if data.Debate.ID != "deb-123" {
		t.Errorf("expected debate id deb-123, got %s", data.Debate.ID)
	}
	if len(data.Debate.Participants) != 2 {
		t.Errorf("expected 2 participants, got %d", len(data.Debate.Participants))
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"structured": "Structured",
		"podcast":    "Podcast",
		"":           "",
	}
	for in, want := range cases {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPDFExport(t *testing.T) {
	var buf bytes.Buffer
	if err := (&PDFExporter{}).Export(testDebate(), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}
