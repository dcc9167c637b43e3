package persona

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "streamers.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, Streamer{
		Name:      "Lele",
		Character: "Bubbly, talks fast, loves superlatives.",
		Avatar:    "lele.png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("create did not assign an id")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Lele" || got.Character != created.Character || got.Avatar != "lele.png" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Deleted {
		t.Fatalf("fresh row must not be flagged deleted")
	}

	byName, err := s.GetByName(ctx, "Lele")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if byName.ID != created.ID {
		t.Fatalf("name lookup returned id %d, want %d", byName.ID, created.ID)
	}
}

func TestStoreNameIsUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, Streamer{Name: "Lele"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, Streamer{Name: "Lele"}); err == nil {
		t.Fatalf("duplicate name must be rejected")
	}
}

func TestStoreUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.Create(ctx, Streamer{Name: "Lele"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	st.Character = "Calm and informative."
	st.TTSWeightTag = "lele-v2"
	if err := s.Update(ctx, st); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Character != "Calm and informative." || got.TTSWeightTag != "lele-v2" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.Update(ctx, Streamer{ID: 404, Name: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of a missing row: got %v, want ErrNotFound", err)
	}
}

func TestStoreSoftDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keep, err := s.Create(ctx, Streamer{Name: "keep"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gone, err := s.Create(ctx, Streamer{Name: "gone"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.Get(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted row must not be readable, got %v", err)
	}
	if err := s.Delete(ctx, gone.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("list must filter deleted rows: %+v", list)
	}
}

func TestStoreUserIDRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	uid := int64(42)
	st, err := s.Create(ctx, Streamer{Name: "owned", UserID: &uid})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID == nil || *got.UserID != 42 {
		t.Fatalf("user id lost: %+v", got.UserID)
	}

	anon, err := s.Create(ctx, Streamer{Name: "anon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err = s.Get(ctx, anon.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != nil {
		t.Fatalf("nil user id must stay nil, got %d", *got.UserID)
	}
}

func TestInstruction(t *testing.T) {
	uidless := Streamer{Name: "Lele", Character: "Bubbly and persuasive."}
	got := uidless.Instruction(&Product{Name: "Mountain Tent", Highlights: "waterproof, two-minute setup"})
	for _, want := range []string{"Bubbly and persuasive.", "Mountain Tent", "waterproof"} {
		if !strings.Contains(got, want) {
			t.Fatalf("instruction missing %q:\n%s", want, got)
		}
	}

	blank := Streamer{Name: "Lele"}
	got = blank.Instruction(nil)
	if !strings.Contains(got, "Lele") {
		t.Fatalf("fallback instruction must name the persona:\n%s", got)
	}
}
