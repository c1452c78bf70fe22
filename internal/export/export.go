// Package export handles exporting debates to various formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/voxarena/voxarena/internal/core"
)

// Format represents an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
)

// Exporter defines the interface for exporting debates.
type Exporter interface {
	Export(debate *core.Debate, w io.Writer) error
	FileExtension() string
}

// GetExporter returns an exporter for the given format.
func GetExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return &MarkdownExporter{}, nil
	case FormatPDF:
		return &PDFExporter{}, nil
	case FormatJSON:
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// GenerateFilename creates a filename for the export.
func GenerateFilename(debate *core.Debate, ext string) string {
	// Sanitize title for filename
	title := debate.Title
	if len(title) > 50 {
		title = title[:50]
	}

	// Replace unsafe characters
	replacer := strings.NewReplacer(
		" ", "_",
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
	)
	title = replacer.Replace(title)

	timestamp := debate.CreatedAt.Format("20060102")
	return fmt.Sprintf("debate_%s_%s.%s", timestamp, title, ext)
}

// Helper to format a participant line
func formatParticipant(p core.Participant) string {
	name := p.DisplayName
	if name == "" {
		name = p.PersonaName
	}
	if name == "" {
		name = p.PersonaID
	}
	return fmt.Sprintf("%s (%s)", name, strings.ToLower(string(p.Role)))
}
