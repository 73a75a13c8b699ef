package main

import (
	"context"
	"fmt"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/repositories"
	"github.com/tbakr/troopmedia/internal/shared"
	"github.com/tbakr/troopmedia/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun pulls remote content listings into the local cache.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	resources, err := parseResourceFlag(cmd.String("resource"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewContentEngine(r.svc, repositories.NewContentRepository(db))

	r.logger.Info("starting cache sync", "replace", cmd.Bool("replace"))
	r.writePlain("Syncing content listings into %s...\n\n", r.config.Database.Path)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchItems:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CacheItems:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Sync(ctx, progressCh, tasks.SyncOpts{
		Resources: resources,
		RateLimit: float64(cmd.Int("rate")),
		Replace:   cmd.Bool("replace"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Fetched: %d items\n", result.TotalFetched)
	r.writePlain("Cached: %d items\n", result.TotalCached)

	for _, res := range result.Results {
		if res.Error != nil {
			r.writePlain("✗ %s: %v\n", res.Resource, res.Error)
		} else if res.Cleared > 0 {
			r.writePlain("✓ %s: %d cached (%d stale rows cleared)\n", res.Resource, res.Cached, res.Cleared)
		} else {
			r.writePlain("✓ %s: %d cached\n", res.Resource, res.Cached)
		}
	}

	if result.FailedResources > 0 {
		return fmt.Errorf("%w: %d resource(s) failed to sync", shared.ErrAPIRequest, result.FailedResources)
	}
	return nil
}

// ExportRun writes content listings to disk in the requested format.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	resources, err := parseResourceFlag(cmd.String("resource"))
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewContentEngine(r.svc, repositories.NewContentRepository(db))
	filters := filtersFromFlags(cmd)
	filters.Category = cmd.String("category")

	r.logger.Info("starting export", "format", cmd.String("format"), "cached", cmd.Bool("cached"))
	r.writePlain("Exporting content listings...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchItems:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportListing:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Export(ctx, progressCh, tasks.ExportOpts{
		Resources:  resources,
		Filters:    filters,
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  float64(cmd.Int("rate")),
		FromCache:  cmd.Bool("cached"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Output directory: %s\n", result.OutputDirectory)

	for _, res := range result.Results {
		if res.Success {
			r.writePlain("✓ %s: %d items (%s)\n", res.Resource, res.Items, res.File)
		} else {
			r.writePlain("✗ %s: %v\n", res.Resource, res.Error)
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		return fmt.Errorf("%w: %d export(s) failed", shared.ErrAPIRequest, result.FailedExports)
	}
	return nil
}

// parseResourceFlag maps the user-facing resource names onto listing resources.
// An empty result means both collections.
func parseResourceFlag(value string) ([]models.Resource, error) {
	switch value {
	case "", "all":
		return nil, nil
	case "music", "songs":
		return []models.Resource{models.ResourceMusic}, nil
	case "scouts", "techniques", string(models.ResourceScout):
		return []models.Resource{models.ResourceScout}, nil
	default:
		return nil, fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidFlag, value)
	}
}
