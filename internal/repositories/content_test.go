package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func cacheMusic(t *testing.T, repo *ContentRepository, m models.MusicItem) *models.CachedItem {
	t.Helper()

	item, err := models.NewCachedMusic(m)
	if err != nil {
		t.Fatalf("failed to wrap music item: %v", err)
	}
	if err := repo.Upsert(&item); err != nil {
		t.Fatalf("failed to upsert music item: %v", err)
	}
	return &item
}

func cacheScout(t *testing.T, repo *ContentRepository, s models.ScoutItem) *models.CachedItem {
	t.Helper()

	item, err := models.NewCachedScout(s)
	if err != nil {
		t.Fatalf("failed to wrap scout item: %v", err)
	}
	if err := repo.Upsert(&item); err != nil {
		t.Fatalf("failed to upsert scout item: %v", err)
	}
	return &item
}

func TestContentRepository(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		t.Run("assigns a local ID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewContentRepository(db)
			item := cacheMusic(t, repo, models.MusicItem{ID: 1, Title: "Kumbaya", Type: models.MusicTypeSong})

			if item.LocalID == "" {
				t.Error("local ID should be set after upsert")
			}
		})

		t.Run("keeps the local ID stable across syncs", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewContentRepository(db)
			first := cacheMusic(t, repo, models.MusicItem{ID: 1, Title: "Kumbaya", Type: models.MusicTypeSong})
			second := cacheMusic(t, repo, models.MusicItem{ID: 1, Title: "Kumbaya (Rev.)", Type: models.MusicTypeSong})

			if second.LocalID != first.LocalID {
				t.Errorf("expected stable local ID %s, got %s", first.LocalID, second.LocalID)
			}

			count, err := repo.Count(models.ResourceMusic)
			if err != nil {
				t.Fatalf("failed to count: %v", err)
			}
			if count != 1 {
				t.Errorf("expected 1 row after re-sync, got %d", count)
			}

			stored, err := repo.Get(models.ResourceMusic, 1)
			if err != nil {
				t.Fatalf("failed to get item: %v", err)
			}
			if stored.Name != "Kumbaya (Rev.)" {
				t.Errorf("expected refreshed name, got %q", stored.Name)
			}
		})

		t.Run("rejects items without a remote ID", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewContentRepository(db)
			item, err := models.NewCachedMusic(models.MusicItem{Title: "Unsaved", Type: models.MusicTypeSong})
			if err != nil {
				t.Fatalf("failed to wrap music item: %v", err)
			}

			if err := repo.Upsert(&item); err == nil {
				t.Error("expected error for remote ID 0")
			}
		})

		t.Run("same remote ID across resources does not collide", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewContentRepository(db)
			cacheMusic(t, repo, models.MusicItem{ID: 7, Title: "Boom Chicka Boom", Type: models.MusicTypeChant})
			cacheScout(t, repo, models.ScoutItem{ID: 7, Name: "Square Lashing", Type: models.ScoutTypeLashing1, Category: models.ScoutCategoryPioneering, Difficulty: 2})

			for _, resource := range []models.Resource{models.ResourceMusic, models.ResourceScout} {
				count, err := repo.Count(resource)
				if err != nil {
					t.Fatalf("failed to count %s: %v", resource, err)
				}
				if count != 1 {
					t.Errorf("expected 1 %s row, got %d", resource, count)
				}
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewContentRepository(db)
		original := models.MusicItem{
			ID: 3, Title: "Ging Gang Goolie", Type: models.MusicTypeChant,
			TypeDisplay: "Chant", Category: models.MusicCategoryTraditional, Difficulty: 2,
		}
		cacheMusic(t, repo, original)

		t.Run("round trips display fields", func(t *testing.T) {
			stored, err := repo.Get(models.ResourceMusic, 3)
			if err != nil {
				t.Fatalf("failed to get item: %v", err)
			}

			decoded, err := stored.Music()
			if err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if decoded != original {
				t.Errorf("round trip changed the item:\n got %+v\nwant %+v", decoded, original)
			}
		})

		t.Run("missing item", func(t *testing.T) {
			_, err := repo.Get(models.ResourceMusic, 999)
			if !errors.Is(err, shared.ErrItemNotFound) {
				t.Errorf("expected ErrItemNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewContentRepository(db)
		cacheScout(t, repo, models.ScoutItem{ID: 1, Name: "Bowline", Type: models.ScoutTypeKnot, Category: models.ScoutCategoryKnots, Difficulty: 2, Usage: "Fixed loop for rescue lines"})
		cacheScout(t, repo, models.ScoutItem{ID: 2, Name: "Square Lashing", Type: models.ScoutTypeLashing1, Category: models.ScoutCategoryPioneering, Difficulty: 2})
		cacheScout(t, repo, models.ScoutItem{ID: 3, Name: "Reef Knot", Type: models.ScoutTypeKnot, Category: models.ScoutCategoryKnots, Difficulty: 1})

		t.Run("unfiltered returns everything ordered by name", func(t *testing.T) {
			items, err := repo.List(models.ResourceScout, models.Filters{})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(items) != 3 {
				t.Fatalf("expected 3 items, got %d", len(items))
			}
			if items[0].Name != "Bowline" || items[2].Name != "Square Lashing" {
				t.Errorf("unexpected order: %s, %s, %s", items[0].Name, items[1].Name, items[2].Name)
			}
		})

		t.Run("category filter", func(t *testing.T) {
			items, err := repo.List(models.ResourceScout, models.Filters{Category: models.ScoutCategoryPioneering})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(items) != 1 || items[0].Name != "Square Lashing" {
				t.Errorf("expected only the lashing, got %d items", len(items))
			}
		})

		t.Run("search matches payload text", func(t *testing.T) {
			items, err := repo.List(models.ResourceScout, models.Filters{Search: "rescue"})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(items) != 1 || items[0].Name != "Bowline" {
				t.Errorf("expected usage text to match, got %d items", len(items))
			}
		})

		t.Run("combined filters", func(t *testing.T) {
			items, err := repo.List(models.ResourceScout, models.Filters{Type: models.ScoutTypeKnot, Difficulty: 1})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(items) != 1 || items[0].Name != "Reef Knot" {
				t.Errorf("expected only the reef knot, got %d items", len(items))
			}
		})

		t.Run("other resource is excluded", func(t *testing.T) {
			items, err := repo.List(models.ResourceMusic, models.Filters{})
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(items) != 0 {
				t.Errorf("expected no music rows, got %d", len(items))
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewContentRepository(db)
		cacheMusic(t, repo, models.MusicItem{ID: 5, Title: "Kumbaya", Type: models.MusicTypeSong})

		if err := repo.Delete(models.ResourceMusic, 5); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := repo.Get(models.ResourceMusic, 5); err == nil {
			t.Error("expected item to be gone after delete")
		}

		// Deleting an uncached item is fine; the remote row may never have
		// been synced locally.
		if err := repo.Delete(models.ResourceMusic, 5); err != nil {
			t.Errorf("expected no-op delete to succeed, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewContentRepository(db)
		cacheMusic(t, repo, models.MusicItem{ID: 1, Title: "Kumbaya", Type: models.MusicTypeSong})
		cacheMusic(t, repo, models.MusicItem{ID: 2, Title: "Boom Chicka Boom", Type: models.MusicTypeChant})
		cacheScout(t, repo, models.ScoutItem{ID: 1, Name: "Bowline", Type: models.ScoutTypeKnot, Category: models.ScoutCategoryKnots, Difficulty: 2})

		cleared, err := repo.Clear(models.ResourceMusic)
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if cleared != 2 {
			t.Errorf("expected 2 cleared rows, got %d", cleared)
		}

		count, err := repo.Count(models.ResourceScout)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if count != 1 {
			t.Errorf("scout cache should survive a music clear, got %d rows", count)
		}
	})
}
