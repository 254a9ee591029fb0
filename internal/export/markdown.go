package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/msgr/internal"
)

// MarkdownExporter renders a transcript for reading
type MarkdownExporter struct{}

// Export writes t as Markdown
func (e *MarkdownExporter) Export(t *internal.Transcript, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Chat with %s\n\n", t.Peer.Username)
	_, _ = fmt.Fprintf(w, "**Account:** %s  \n", t.Owner.Username)
	_, _ = fmt.Fprintf(w, "**Exported:** %s  \n", t.ExportedAt.Format("2006-01-02 15:04:05 UTC"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(t.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	if len(t.Messages) == 0 {
		_, _ = fmt.Fprintf(w, "_No messages._\n")
		return nil
	}

	lastDay := ""
	for _, msg := range t.Messages {
		ts := msg.GetTimestamp()
		if !ts.IsZero() {
			if day := ts.Format("2006-01-02"); day != lastDay {
				_, _ = fmt.Fprintf(w, "## %s\n\n", day)
				lastDay = day
			}
		}

		stamp := ""
		if !ts.IsZero() {
			stamp = " " + ts.Format("15:04")
		}
		_, _ = fmt.Fprintf(w, "**%s**%s\n\n%s\n\n", escapeMarkdown(t.Author(msg)), stamp, quote(escapeMarkdown(msg.Text)))
	}

	return nil
}

// escapeMarkdown escapes emphasis markers outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	inCodeBlock := false

	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		line = strings.ReplaceAll(line, "*", "\\*")
		line = strings.ReplaceAll(line, "_", "\\_")
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

func quote(text string) string {
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
