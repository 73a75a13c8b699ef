package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/shared"
	tu "github.com/tbakr/troopmedia/internal/testing"
)

func syncedMockService() *tu.MockContentService {
	return &tu.MockContentService{
		ListMusicFunc: func(ctx context.Context, f models.Filters) ([]models.MusicItem, error) {
			return []models.MusicItem{
				{ID: 1, Title: "Campfire Song", Type: "SONG"},
				{ID: 2, Title: "Rain Clap", Type: "CLAP"},
			}, nil
		},
		ListScoutFunc: func(ctx context.Context, f models.Filters) ([]models.ScoutItem, error) {
			return []models.ScoutItem{
				{ID: 1, Name: "Bowline", Type: "KNOT"},
			}, nil
		},
	}
}

func TestSyncCommand(t *testing.T) {
	t.Run("caches both listings", func(t *testing.T) {
		svc := syncedMockService()
		app := newTestApp(t, svc, false)

		if err := app.run(t, "sync"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := app.output.String()
		if !strings.Contains(out, "Sync Complete") {
			t.Errorf("expected summary header, got %s", out)
		}
		if !strings.Contains(out, "Cached: 3 items") {
			t.Errorf("expected cache count, got %s", out)
		}
	})

	t.Run("cached listing serves synced items without the server", func(t *testing.T) {
		svc := syncedMockService()
		app := newTestApp(t, svc, false)

		if err := app.run(t, "sync"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		listCalls := svc.CallCount("ListMusic")

		app.output.Reset()
		if err := app.run(t, "music", "list", "--cached", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if svc.CallCount("ListMusic") != listCalls {
			t.Error("expected the cached listing to avoid the server")
		}

		var items []models.MusicItem
		if err := json.Unmarshal(app.output.Bytes(), &items); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 cached items, got %d", len(items))
		}
	})

	t.Run("resource flag limits scope", func(t *testing.T) {
		svc := syncedMockService()
		app := newTestApp(t, svc, false)

		if err := app.run(t, "sync", "-r", "music"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.CallCount("ListScout") != 0 {
			t.Error("expected only the music listing to be fetched")
		}
	})

	t.Run("rejects an unknown resource", func(t *testing.T) {
		app := newTestApp(t, syncedMockService(), false)

		err := app.run(t, "sync", "-r", "badges")

		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("reports a failed resource", func(t *testing.T) {
		svc := syncedMockService()
		svc.ListScoutFunc = func(ctx context.Context, f models.Filters) ([]models.ScoutItem, error) {
			return nil, errors.New("server exploded")
		}
		app := newTestApp(t, svc, false)

		err := app.run(t, "sync")

		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(app.output.String(), "✗ scout-content") {
			t.Errorf("expected failed resource line, got %s", app.output.String())
		}
	})
}

func TestExportCommand(t *testing.T) {
	t.Run("writes listing files and manifest", func(t *testing.T) {
		app := newTestApp(t, syncedMockService(), false)
		dir := filepath.Join(t.TempDir(), "export")

		if err := app.run(t, "export", "-o", dir, "-f", "txt"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "music.txt"))
		tu.AssertFileExists(t, filepath.Join(dir, "scout-content.txt"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))

		if !strings.Contains(app.output.String(), "Export Complete") {
			t.Errorf("expected summary header, got %s", app.output.String())
		}
	})

	t.Run("exports from the cache after a sync", func(t *testing.T) {
		svc := syncedMockService()
		app := newTestApp(t, svc, false)
		dir := filepath.Join(t.TempDir(), "export")

		if err := app.run(t, "sync"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		listCalls := svc.CallCount("ListMusic")

		if err := app.run(t, "export", "-o", dir, "--cached"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if svc.CallCount("ListMusic") != listCalls {
			t.Error("expected the cached export to avoid the server")
		}
		tu.AssertFileExists(t, filepath.Join(dir, "music.json"))
	})
}
