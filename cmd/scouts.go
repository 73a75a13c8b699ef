package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/repositories"
	"github.com/tbakr/troopmedia/internal/services"
	"github.com/tbakr/troopmedia/internal/shared"
	"github.com/urfave/cli/v3"
)

// ScoutList prints the techniques collection. The optional positional argument
// is a category slug (knots, pioneering, ...); "all" or no argument lists everything.
func (r *Runner) ScoutList(ctx context.Context, cmd *cli.Command) error {
	filters := filtersFromFlags(cmd)

	slug := cmd.StringArg("category")
	if slug != "" {
		category, err := models.CategoryFromSlug(slug)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		filters.Category = category
	}

	var items []models.ScoutItem
	var err error

	if cmd.Bool("cached") {
		items, err = r.cachedScout(filters)
	} else {
		if err := r.requireAuth(); err != nil {
			return err
		}
		r.logger.Info("fetching techniques", "filters", filters.Values().Encode())
		items, err = r.svc.ListScout(ctx, filters)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Scouting Techniques (%d)", len(items)))
	for i, item := range items {
		r.writePlain("%3d. %s\n", i+1, item.Name)
		r.writePlain("     %s\n", strings.Join(scoutDetails(item), " • "))
	}

	return nil
}

// ScoutAdd creates a technique from the write flags.
func (r *Runner) ScoutAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	input := scoutInputFromFlags(cmd)
	r.logger.Info("creating technique", "name", input.Name)

	item, err := r.svc.CreateScout(ctx, input)
	if err != nil {
		return r.writeError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created %q (id %d)\n", item.Name, item.ID)
}

// ScoutEdit replaces an existing technique. Stored files are kept unless
// --picture or --video names a replacement.
func (r *Runner) ScoutEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	input := scoutInputFromFlags(cmd)
	r.logger.Info("updating technique", "id", id, "name", input.Name)

	item, err := r.svc.UpdateScout(ctx, id, input)
	if err != nil {
		return r.writeError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated %q (id %d)\n", item.Name, item.ID)
}

// ScoutDelete removes a technique by ID.
func (r *Runner) ScoutDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("deleting technique", "id", id)

	if err := r.svc.DeleteScout(ctx, id); err != nil {
		return r.writeError(err)
	}

	return r.writePlain("✓ Deleted technique %d\n", id)
}

// cachedScout reads the techniques listing from the local cache database.
func (r *Runner) cachedScout(filters models.Filters) ([]models.ScoutItem, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cached, err := repositories.NewContentRepository(db).List(models.ResourceScout, filters)
	if err != nil {
		return nil, err
	}

	items := make([]models.ScoutItem, 0, len(cached))
	for _, row := range cached {
		item, err := row.Scout()
		if err != nil {
			r.logger.Warn("skipping corrupt cache row", "id", row.LocalID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func scoutInputFromFlags(cmd *cli.Command) services.ScoutInput {
	return services.ScoutInput{
		Name:        cmd.String("name"),
		Type:        cmd.String("type"),
		Category:    cmd.String("category"),
		Difficulty:  cmd.Int("difficulty"),
		Usage:       cmd.String("usage"),
		YoutubeLink: cmd.String("youtube-link"),
		Model3D:     cmd.String("model-3d"),
		PicturePath: cmd.String("picture"),
		VideoPath:   cmd.String("video"),
	}
}

func scoutDetails(item models.ScoutItem) []string {
	details := []string{item.DisplayType()}
	if item.Category != "" {
		if item.CategoryDisplay != "" {
			details = append(details, item.CategoryDisplay)
		} else {
			details = append(details, item.Category)
		}
	}
	if item.Difficulty > 0 {
		details = append(details, models.DifficultyName(item.Difficulty))
	}
	return details
}
