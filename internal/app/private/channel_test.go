package private

import "testing"

func TestChannelID(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{"ordered pair", "alice", "bob", "alice_bob"},
		{"reversed pair", "bob", "alice", "alice_bob"},
		{"uuid-like ids", "f1e2", "a9b8", "a9b8_f1e2"},
		{"same prefix", "user1", "user10", "user1_user10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelID(tt.a, tt.b); got != tt.want {
				t.Errorf("ChannelID(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestChannelIDCommutative(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"x", "y"},
		{"2f9c", "11aa"},
	}

	for _, p := range pairs {
		if ChannelID(p[0], p[1]) != ChannelID(p[1], p[0]) {
			t.Errorf("ChannelID not commutative for pair %v", p)
		}
	}
}

func TestParticipants(t *testing.T) {
	tests := []struct {
		name      string
		channelID string
		wantA     string
		wantB     string
		wantOK    bool
	}{
		{"valid channel", "alice_bob", "alice", "bob", true},
		{"no separator", "alicebob", "", "", false},
		{"empty left side", "_bob", "", "", false},
		{"empty right side", "alice_", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := Participants(tt.channelID)
			if a != tt.wantA || b != tt.wantB || ok != tt.wantOK {
				t.Errorf("Participants(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.channelID, a, b, ok, tt.wantA, tt.wantB, tt.wantOK)
			}
		})
	}
}

func TestIsParticipant(t *testing.T) {
	channelID := ChannelID("alice", "bob")

	if !IsParticipant(channelID, "alice") {
		t.Error("alice should be a participant of her own channel")
	}
	if !IsParticipant(channelID, "bob") {
		t.Error("bob should be a participant of his own channel")
	}
	if IsParticipant(channelID, "mallory") {
		t.Error("mallory must not be a participant")
	}
	if IsParticipant("garbage", "alice") {
		t.Error("malformed channel id must have no participants")
	}
}
