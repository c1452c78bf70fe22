package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/voxarena/voxarena/internal/core"
)

// MarkdownExporter exports debates to Markdown format.
type MarkdownExporter struct{}

// Export writes the debate as Markdown.
func (e *MarkdownExporter) Export(debate *core.Debate, w io.Writer) error {
	var sb strings.Builder

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", debate.Title))

	if debate.Topic != "" {
		sb.WriteString(fmt.Sprintf("> %s\n\n", debate.Topic))
	}

	// Metadata
	sb.WriteString("## Debate Information\n\n")
	sb.WriteString(fmt.Sprintf("- **ID:** `%s`\n", debate.ID))
	sb.WriteString(fmt.Sprintf("- **Format:** %s\n", debate.Format))
	sb.WriteString(fmt.Sprintf("- **Status:** %s\n", debate.Status))
	sb.WriteString(fmt.Sprintf("- **Created:** %s\n", debate.CreatedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString(fmt.Sprintf("- **Updated:** %s\n", debate.UpdatedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("\n")

	// Description
	if debate.Description != "" {
		sb.WriteString("## Description\n\n")
		sb.WriteString(debate.Description)
		sb.WriteString("\n\n")
	}

	// Participants
	sb.WriteString("## Participants\n\n")
	if len(debate.Participants) == 0 {
		sb.WriteString("*No participants assigned.*\n\n")
	} else {
		for _, p := range debate.Participants {
			sb.WriteString(fmt.Sprintf("### %s\n\n", formatParticipant(p)))
			sb.WriteString(fmt.Sprintf("- **Role:** %s\n", p.Role))
			if p.PersonaName != "" {
				sb.WriteString(fmt.Sprintf("- **Persona:** %s\n", p.PersonaName))
			}
			if p.PersonaNickname != "" {
				sb.WriteString(fmt.Sprintf("- **Nickname:** %s\n", p.PersonaNickname))
			}
			if p.VoiceID != "" {
				sb.WriteString(fmt.Sprintf("- **Voice:** %s\n", p.VoiceID))
			}
			sb.WriteString("\n")
		}
	}

	// Footer
	sb.WriteString("---\n\n")
	sb.WriteString("*Exported from voxarena*\n")

	_, err := w.Write([]byte(sb.String()))
	return err
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return "md"
}
