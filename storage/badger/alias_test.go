package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/memorag/core"
)

func TestAliasRepository(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	ctx := context.Background()
	err = stores.Aliases.AddAliases(ctx,
		core.Alias{Short: "AA US Equity", Full: "Alcoa Corporation"},
		core.Alias{Short: "A US Equity", Full: "Agilent Technologies Inc"},
		core.Alias{Short: "aa us equity", Full: "ALCOA CORPORATION"},
	)
	if err != nil {
		t.Fatalf("Failed to add aliases: %v", err)
	}

	aliases, err := stores.Aliases.ListAliases(ctx)
	if err != nil {
		t.Fatalf("Failed to list aliases: %v", err)
	}
	if len(aliases) != 2 {
		t.Fatalf("Expected 2 aliases after case-folded dedupe, got %d", len(aliases))
	}
	if aliases[0].Short != "A US Equity" {
		t.Fatalf("Expected aliases ordered by key, got %q first", aliases[0].Short)
	}
	if aliases[1].Full != "Alcoa Corporation" {
		t.Fatalf("Expected first-written form kept, got %q", aliases[1].Full)
	}
}

func TestAliasRepositoryRejectsBlank(t *testing.T) {
	stores, err := NewMemoryStores(0)
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer stores.Close()

	err = stores.Aliases.AddAliases(context.Background(), core.Alias{Short: "AA US Equity"})
	if !errors.Is(err, core.ErrInvalidAlias) {
		t.Fatalf("Expected ErrInvalidAlias, got %v", err)
	}
}
