package export

import (
	"fmt"
	"io"

	"github.com/iksnae/msgr/internal"
)

// Exporter writes a conversation transcript in one format
type Exporter interface {
	Export(t *internal.Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FileName is the default output name for a transcript with peer
func FileName(e Exporter, t *internal.Transcript) string {
	return fmt.Sprintf("chat-%s-%s.%s", t.Peer.Username, t.ExportedAt.Format("20060102-150405"), e.Extension())
}
