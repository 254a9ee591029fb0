package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/msgr/internal"
)

// JSONExporter writes the whole transcript as one indented document
type JSONExporter struct{}

// Export writes t as JSON
func (e *JSONExporter) Export(t *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(t)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
