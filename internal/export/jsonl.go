package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/msgr/internal"
)

// JSONLExporter writes one message per line
type JSONLExporter struct{}

type jsonlLine struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
	Read      bool   `json:"read"`
}

// Export writes each message of t as a JSON line
func (e *JSONLExporter) Export(t *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range t.Messages {
		line := jsonlLine{
			ID:        msg.ID,
			From:      msg.SenderID,
			To:        msg.ReceiverID,
			Author:    t.Author(msg),
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
			Read:      msg.IsRead,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %s: %w", msg.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
