package tray

import "testing"

// TestEmojiForStatus verifies the status-to-emoji mapping used for the tray
// title. This tests the mapping only, not systray rendering.
func TestEmojiForStatus(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"recording", "🔴"},
		{"recognizing", "🟡"},
		{"ready", "🔵"},
		{"idle", "🟢"},
		{"error", "⚪️"},
		{"bogus", "🟢"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := emojiForStatus(tt.status); got != tt.want {
				t.Errorf("emojiForStatus(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 80); got != "short" {
		t.Errorf("short strings must pass through, got %q", got)
	}
	long := "this tooltip text is far too long for the tray to display in full"
	got := truncate(long, 20)
	if len(got) != 20 {
		t.Errorf("truncated to %d chars, want 20", len(got))
	}
	if got[17:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}
