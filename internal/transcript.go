package internal

import "time"

// Participant names one side of a transcript
type Participant struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
}

// Transcript is a conversation snapshot prepared for export
type Transcript struct {
	Owner      Participant `json:"owner" yaml:"owner"`
	Peer       Participant `json:"peer" yaml:"peer"`
	ExportedAt time.Time   `json:"exported_at" yaml:"exported_at"`
	Messages   []Message   `json:"messages" yaml:"messages"`
}

// NewTranscript builds a transcript of msgs between owner and peer.
// A peer without a known username is shown by ID.
func NewTranscript(owner *Session, peer User, msgs []Message, exportedAt time.Time) *Transcript {
	if peer.Username == "" {
		peer.Username = peer.ID
	}
	t := &Transcript{
		Peer:       Participant{ID: peer.ID, Username: peer.Username},
		ExportedAt: exportedAt.UTC(),
		Messages:   msgs,
	}
	if owner != nil {
		t.Owner = Participant{ID: owner.UserID, Username: owner.Username}
	}
	if t.Messages == nil {
		t.Messages = []Message{}
	}
	return t
}

// Author returns the display name of whoever sent m
func (t *Transcript) Author(m Message) string {
	switch m.SenderID {
	case t.Owner.ID:
		return t.Owner.Username
	case t.Peer.ID:
		return t.Peer.Username
	default:
		return m.SenderID
	}
}
