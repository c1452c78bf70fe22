package seed

import (
	"path/filepath"
	"testing"

	"github.com/voxarena/voxarena/internal/storage"
	"github.com/voxarena/voxarena/internal/taxonomy"
)

func TestRunIsIdempotent(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer store.Close()

	if err := store.Initialize(); err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}

	if err := Run(store); err != nil {
		t.Fatalf("First seed run failed: %v", err)
	}

	svc := taxonomy.NewService(store)
	cats, err := svc.ListCategories(1, 100)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if cats.Total != len(categories) {
		t.Errorf("Expected %d categories, got %d", len(categories), cats.Total)
	}

	firstTerms, err := svc.ListTerms("", 1, 1)
	if err != nil {
		t.Fatalf("ListTerms failed: %v", err)
	}
	if firstTerms.Total == 0 {
		t.Fatal("Expected seeded terms")
	}

	// Second run must tolerate the existing rows and add nothing.
	if err := Run(store); err != nil {
		t.Fatalf("Second seed run failed: %v", err)
	}

	cats, err = svc.ListCategories(1, 100)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if cats.Total != len(categories) {
		t.Errorf("Expected %d categories after reseed, got %d", len(categories), cats.Total)
	}

	secondTerms, err := svc.ListTerms("", 1, 1)
	if err != nil {
		t.Fatalf("ListTerms failed: %v", err)
	}
	if secondTerms.Total != firstTerms.Total {
		t.Errorf("Reseed changed term count: %d != %d", secondTerms.Total, firstTerms.Total)
	}

	archetypes, err := svc.ListTerms("archetype", 1, 100)
	if err != nil {
		t.Fatalf("ListTerms archetype failed: %v", err)
	}
	if archetypes.Total != len(terms["archetype"]) {
		t.Errorf("Expected %d archetype terms, got %d", len(terms["archetype"]), archetypes.Total)
	}
}
