package room

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"awesomechat/internal/pkg/errs"
)

func TestPostValidation(t *testing.T) {
	svc := NewService(NewMemoryStore(), DefaultFeedLimit)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		sticker  string
		wantCode int
	}{
		{"empty message", "", "", errs.ErrMessageEmpty},
		{"whitespace only", "   \n\t ", "", errs.ErrMessageEmpty},
		{"too long", strings.Repeat("a", MaxTextLength+1), "", errs.ErrMessageContentTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, customErr := svc.Post(ctx, "u1", "Alice", tt.text, tt.sticker)
			if customErr == nil {
				t.Fatal("expected an error, got nil")
			}
			if customErr.Code != tt.wantCode {
				t.Errorf("error code = %d, want %d", customErr.Code, tt.wantCode)
			}
		})
	}
}

func TestPostStickerOnly(t *testing.T) {
	svc := NewService(NewMemoryStore(), DefaultFeedLimit)

	m, customErr := svc.Post(context.Background(), "u1", "Alice", "", "data:image/png;base64,AAAA")
	if customErr != nil {
		t.Fatalf("sticker-only post failed: %v", customErr)
	}
	if m.Text != "" {
		t.Errorf("sticker-only post should carry empty text, got %q", m.Text)
	}
	if m.Sticker == "" {
		t.Error("sticker payload missing from stored message")
	}
	if m.ID == "" {
		t.Error("message id not assigned")
	}
}

func TestRecentCapAndOrder(t *testing.T) {
	svc := NewService(NewMemoryStore(), DefaultFeedLimit)
	ctx := context.Background()

	total := DefaultFeedLimit + 10
	for i := 0; i < total; i++ {
		if _, customErr := svc.Post(ctx, "u1", "Alice", fmt.Sprintf("msg-%d", i), ""); customErr != nil {
			t.Fatalf("post %d failed: %v", i, customErr)
		}
	}

	got, err := svc.Recent(ctx)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}

	if len(got) != DefaultFeedLimit {
		t.Fatalf("view length = %d, want %d", len(got), DefaultFeedLimit)
	}

	// The oldest 10 fell off the capped view; the rest come back oldest first.
	for i, m := range got {
		want := fmt.Sprintf("msg-%d", total-DefaultFeedLimit+i)
		if m.Text != want {
			t.Fatalf("message %d = %q, want %q", i, m.Text, want)
		}
	}

	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatalf("timestamps not ascending at index %d", i)
		}
	}
}

func TestRecentReversesEverySnapshot(t *testing.T) {
	svc := NewService(NewMemoryStore(), DefaultFeedLimit)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, customErr := svc.Post(ctx, "u1", "Alice", fmt.Sprintf("msg-%d", i), ""); customErr != nil {
			t.Fatalf("post failed: %v", customErr)
		}
	}

	// Ordering must hold on every call, not only the first: each snapshot is a
	// fresh full replace of the view.
	for call := 0; call < 3; call++ {
		got, err := svc.Recent(ctx)
		if err != nil {
			t.Fatalf("Recent call %d failed: %v", call, err)
		}
		for i, m := range got {
			want := fmt.Sprintf("msg-%d", i)
			if m.Text != want {
				t.Fatalf("call %d: message %d = %q, want %q", call, i, m.Text, want)
			}
		}
	}
}

func TestFeedLimitFallback(t *testing.T) {
	svc := NewService(NewMemoryStore(), 0)
	if svc.FeedLimit() != DefaultFeedLimit {
		t.Errorf("FeedLimit() = %d, want default %d", svc.FeedLimit(), DefaultFeedLimit)
	}
}
