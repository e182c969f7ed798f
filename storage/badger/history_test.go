package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/memorag/core"
)

func newRecord(query string, ts time.Time) *core.InteractionRecord {
	return &core.InteractionRecord{
		Timestamp:     ts,
		Query:         query,
		ResultCount:   3,
		TopSimilarity: 0.91,
		Organizations: []string{"Alcoa Corporation"},
		Years:         []string{"2007"},
	}
}

func TestHistoryAppendAndRecent(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		rec, err := stores.History.AppendInteraction(ctx, newRecord(fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
		if rec.Id == 0 {
			t.Fatal("Expected non-zero ID")
		}
	}

	recent, err := stores.History.RecentInteractions(ctx, 2)
	if err != nil {
		t.Fatalf("Failed to read recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(recent))
	}
	if recent[0].Query != "q1" || recent[1].Query != "q2" {
		t.Fatalf("Expected q1,q2 oldest first, got %s,%s", recent[0].Query, recent[1].Query)
	}

	all, err := stores.History.RecentInteractions(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to read all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}
}

func TestHistoryDefaultsTimestamp(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	rec, err := stores.History.AppendInteraction(context.Background(), &core.InteractionRecord{Query: "ES047 indicator data"})
	if err != nil {
		t.Fatalf("Failed to append: %v", err)
	}
	if rec.Timestamp.IsZero() {
		t.Fatal("Expected timestamp to be set")
	}
}

func TestHistoryRejectsInvalidRecord(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	_, err = stores.History.AppendInteraction(context.Background(), &core.InteractionRecord{Query: "  "})
	if !errors.Is(err, core.ErrInvalidInteractionRecord) {
		t.Fatalf("Expected ErrInvalidInteractionRecord, got %v", err)
	}
}

func TestHistoryCapacityDropsOldest(t *testing.T) {
	stores, err := NewMemoryStores(5)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		if _, err := stores.History.AppendInteraction(ctx, newRecord(fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Failed to append %d: %v", i, err)
		}
	}

	count, err := stores.History.CountInteractions(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 5 {
		t.Fatalf("Expected 5 records after trimming, got %d", count)
	}

	all, err := stores.History.RecentInteractions(ctx, 0)
	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}
	if all[0].Query != "q3" || all[4].Query != "q7" {
		t.Fatalf("Expected q3..q7, got %s..%s", all[0].Query, all[4].Query)
	}
}

func TestHistorySinceAndClear(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	old := newRecord("old", now.Add(-10*24*time.Hour))
	fresh := newRecord("fresh", now.Add(-time.Hour))
	for _, rec := range []*core.InteractionRecord{old, fresh} {
		if _, err := stores.History.AppendInteraction(ctx, rec); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
	}

	since, err := stores.History.InteractionsSince(ctx, now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to query since: %v", err)
	}
	if len(since) != 1 || since[0].Query != "fresh" {
		t.Fatalf("Expected only the fresh record, got %d", len(since))
	}

	if err := stores.History.ClearInteractions(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	count, err := stores.History.CountInteractions(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected empty history, got %d", count)
	}
}
