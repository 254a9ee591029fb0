package internal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMessage_GetTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want time.Time
	}{
		{name: "naive iso", ts: "2024-05-01T10:00:05", want: time.Date(2024, 5, 1, 10, 0, 5, 0, time.UTC)},
		{name: "fractional", ts: "2024-05-01T10:00:05.250000", want: time.Date(2024, 5, 1, 10, 0, 5, 250000000, time.UTC)},
		{name: "rfc3339", ts: "2024-05-01T12:00:05+02:00", want: time.Date(2024, 5, 1, 10, 0, 5, 0, time.UTC)},
		{name: "space separated", ts: "2024-05-01 10:00:05", want: time.Date(2024, 5, 1, 10, 0, 5, 0, time.UTC)},
		{name: "garbage", ts: "yesterday", want: time.Time{}},
		{name: "empty", ts: "", want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Message{Timestamp: tt.ts}.GetTimestamp()
			if !got.Equal(tt.want) {
				t.Errorf("GetTimestamp(%q) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestFavorite_GetTimestamp(t *testing.T) {
	if !(Favorite{}).GetTimestamp().IsZero() {
		t.Error("missing timestamp should be zero")
	}
	got := Favorite{Timestamp: 1714557600.5}.GetTimestamp()
	if got.Unix() != 1714557600 || got.Nanosecond() != 500000000 {
		t.Errorf("GetTimestamp() = %v", got)
	}
}

func TestProfile_DecodesFlatSettings(t *testing.T) {
	raw := `{"user_id":"u1","username":"alice","email":"a@b.com","avatar":null,"theme":"dark","hide_last_seen":true}`
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.UserID != "u1" || p.Avatar != nil || p.Theme != "dark" || !p.HideLastSeen {
		t.Errorf("Profile = %+v", p)
	}
}

func TestFavorite_KeepsOriginalMessage(t *testing.T) {
	raw := `{"id":"f1","type":"text","text":"hi","timestamp":1714557600,"orig":{"sender_id":"u2","text":"hi"}}`
	var f Favorite
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	var orig map[string]any
	if err := json.Unmarshal(f.Orig, &orig); err != nil || orig["sender_id"] != "u2" {
		t.Errorf("Orig = %s", f.Orig)
	}
}
