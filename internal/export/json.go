package export

import (
	"encoding/json"
	"io"

	"github.com/voxarena/voxarena/internal/core"
)

// JSONExporter exports debates to JSON format.
type JSONExporter struct{}

// ExportData represents the full export structure.
type ExportData struct {
	Debate *core.Debate `json:"debate"`
}

// Export writes the debate as JSON.
func (e *JSONExporter) Export(debate *core.Debate, w io.Writer) error {
	data := ExportData{
		Debate: debate,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return "json"
}
