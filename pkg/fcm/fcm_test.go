package fcm

import (
	"fmt"
	"testing"
)

func TestChunk(t *testing.T) {
	tokens := make([]string, 1201)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok-%d", i)
	}

	chunks := Chunk(tokens, MaxMulticastTokens)
	if len(chunks) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(chunks))
	}
	if len(chunks[0]) != 500 || len(chunks[1]) != 500 || len(chunks[2]) != 201 {
		t.Errorf("chunk sizes = %d/%d/%d, want 500/500/201", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
	if chunks[2][200] != "tok-1200" {
		t.Errorf("last token = %q, want tok-1200", chunks[2][200])
	}
}

func TestChunkEmpty(t *testing.T) {
	if chunks := Chunk(nil, MaxMulticastTokens); len(chunks) != 0 {
		t.Errorf("Chunk(nil) = %v, want no chunks", chunks)
	}
}

func TestBuildMulticast(t *testing.T) {
	msg := buildMulticast([]string{"a", "b"}, NotificationData{
		Title: "Anna is gestart met studeren!",
		Body:  "body",
		Data:  map[string]string{"type": "friend_study_start"},
	})
	if len(msg.Tokens) != 2 {
		t.Errorf("Tokens = %v, want 2 tokens", msg.Tokens)
	}
	if msg.Notification.Title != "Anna is gestart met studeren!" {
		t.Errorf("Title = %q", msg.Notification.Title)
	}
	if msg.Data["type"] != "friend_study_start" {
		t.Errorf("Data[type] = %q", msg.Data["type"])
	}
}

func TestMaskToken(t *testing.T) {
	if got := maskToken("short"); got != "short" {
		t.Errorf("maskToken(short) = %q", got)
	}
	if got := maskToken("abcdefghijklmnopqrstuvwxyz"); got != "abcdefghijklmnopqrst..." {
		t.Errorf("maskToken(long) = %q", got)
	}
}
