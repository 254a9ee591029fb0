package internal

import (
	"fmt"
	"time"
)

// CreateTestMessages creates n alternating messages between ownerID and peerID
func CreateTestMessages(ownerID, peerID string, n int) []Message {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	msgs := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		from, to := ownerID, peerID
		if i%2 == 1 {
			from, to = peerID, ownerID
		}
		msgs = append(msgs, Message{
			ID:         fmt.Sprintf("msg-%d", i+1),
			SenderID:   from,
			ReceiverID: to,
			Text:       fmt.Sprintf("message %d", i+1),
			Timestamp:  base.Add(time.Duration(i) * time.Minute).Format("2006-01-02T15:04:05"),
			IsRead:     true,
		})
	}
	return msgs
}

// CreateTestTranscript creates a transcript between alice (u1) and bob (u2)
func CreateTestTranscript(n int) *Transcript {
	return CreateTestTranscriptWithMessages(CreateTestMessages("u1", "u2", n))
}

// CreateTestTranscriptWithMessages creates a transcript between alice and bob with custom messages
func CreateTestTranscriptWithMessages(msgs []Message) *Transcript {
	owner := &Session{UserID: "u1", Username: "alice", Email: "a@b.com"}
	peer := User{ID: "u2", Username: "bob"}
	return NewTranscript(owner, peer, msgs, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC))
}
