package export

import (
	"io"

	"github.com/iksnae/msgr/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the transcript as YAML
type YAMLExporter struct{}

// Export writes t as YAML
func (e *YAMLExporter) Export(t *internal.Transcript, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(t)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
