package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/msgr/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name       string
		transcript *internal.Transcript
		want       []string
		notWant    []string
	}{
		{
			name:       "basic transcript",
			transcript: internal.CreateTestTranscript(2),
			want: []string{
				"# Chat with bob",
				"**Account:** alice",
				"**Exported:** 2024-05-02 09:00:00 UTC",
				"**Messages:** 2",
				"## 2024-05-01",
				"**alice** 10:00",
				"> message 1",
				"**bob** 10:01",
			},
		},
		{
			name:       "empty",
			transcript: internal.CreateTestTranscriptWithMessages(nil),
			want:       []string{"**Messages:** 0", "_No messages._"},
		},
		{
			name: "multi-line and emphasis",
			transcript: internal.CreateTestTranscriptWithMessages([]internal.Message{
				{ID: "m1", SenderID: "u1", Text: "**loud**\nsnake_case"},
			}),
			want:    []string{"> \\*\\*loud\\*\\*\n> snake\\_case"},
			notWant: []string{"## "},
		},
		{
			name: "code block kept verbatim",
			transcript: internal.CreateTestTranscriptWithMessages([]internal.Message{
				{ID: "m1", SenderID: "u2", Text: "```\nx_y *z\n```"},
			}),
			want: []string{"> x_y *z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.transcript, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q\n%s", want, output)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(output, nw) {
					t.Errorf("output should not contain %q\n%s", nw, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_DayHeadings(t *testing.T) {
	tr := internal.CreateTestTranscriptWithMessages([]internal.Message{
		{ID: "m1", SenderID: "u1", Text: "late", Timestamp: "2024-05-01T23:59:00"},
		{ID: "m2", SenderID: "u2", Text: "early", Timestamp: "2024-05-02T00:01:00"},
		{ID: "m3", SenderID: "u2", Text: "again", Timestamp: "2024-05-02T00:02:00"},
	})

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(tr, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if got := strings.Count(buf.String(), "\n## "); got != 2 {
		t.Errorf("got %d day headings, want 2\n%s", got, buf.String())
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	if got := (&MarkdownExporter{}).Extension(); got != "md" {
		t.Errorf("Extension() = %v, want md", got)
	}
}
