package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"verisure/internal/config"
	"verisure/internal/fusion"
	"verisure/internal/signal"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(root, "data")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Paths.FrameDir = filepath.Join(root, "frames")
	return &cfg
}

func openStore(t *testing.T, cfg *config.Config) *Store {
	t.Helper()
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestSaveAndListRoundTrip(t *testing.T) {
	store := openStore(t, testConfig(t))
	ctx := context.Background()

	verdict := fusion.Fuse(signal.Bucket{
		AI: []string{"Dimensions are multiples of 512", "No metadata present", "Uniform texture"},
	}, fusion.NeutralOpinion())

	rec := NewRecord("image", "suspect.png", "abc123", verdict, 0.42)
	saved, err := store.Save(ctx, rec)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("saved record has no ID")
	}

	records, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0]
	if got.ID != saved.ID || got.Filename != "suspect.png" || got.SHA256 != "abc123" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Classification != verdict.Classification || got.Reason != verdict.Reason {
		t.Fatalf("verdict fields mismatch: %+v", got)
	}
	if len(got.Indicators) != len(verdict.Indicators) {
		t.Fatalf("indicators = %d, want %d", len(got.Indicators), len(verdict.Indicators))
	}
	if got.CompositeScore != 0.42 {
		t.Fatalf("composite score = %v", got.CompositeScore)
	}
}

func TestListNewestFirstAndLimit(t *testing.T) {
	store := openStore(t, testConfig(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.Save(ctx, Record{
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
			MediaType:      "image",
			Filename:       "file.png",
			Classification: fusion.ClassOriginal,
			Confidence:     "medium",
			Reason:         "test",
			Indicators:     []string{},
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	records, err := store.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("limit ignored, got %d records", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Fatalf("records not newest first: %v then %v", records[i-1].CreatedAt, records[i].CreatedAt)
		}
	}
}

func TestListEmptyStore(t *testing.T) {
	store := openStore(t, testConfig(t))

	records, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d", len(records))
	}
}

func TestOpenSecondInstanceBlocked(t *testing.T) {
	cfg := testConfig(t)
	openStore(t, cfg)

	if _, err := Open(cfg); err == nil {
		t.Fatal("second open should fail while lock is held")
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if isSQLiteBusy(nil) {
		t.Fatal("nil error is not busy")
	}
	if !isSQLiteBusy(errors.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatal("busy message not recognized")
	}
	if isSQLiteBusy(errors.New("syntax error")) {
		t.Fatal("unrelated error flagged busy")
	}
}
