package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	in := Cursor{CreatedAt: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), ID: uuid.New()}
	out, err := ParseCursor(EncodeCursor(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("cursor mismatch: %+v vs %+v", out, in)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	t.Parallel()

	out, err := ParseCursor("  ")
	if err != nil || out != nil {
		t.Fatalf("expected nil cursor, got %+v err %v", out, err)
	}
}

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("expected default limit")
	}
	if NormalizeLimit(500) != MaxLimit {
		t.Fatal("expected max cap")
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("expected buffer of one")
	}
}
