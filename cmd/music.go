package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/repositories"
	"github.com/tbakr/troopmedia/internal/services"
	"github.com/tbakr/troopmedia/internal/shared"
	"github.com/urfave/cli/v3"
)

// MusicList prints the songs and chants collection, filtered by the list flags.
func (r *Runner) MusicList(ctx context.Context, cmd *cli.Command) error {
	filters := filtersFromFlags(cmd)
	filters.Category = cmd.String("category")

	var items []models.MusicItem
	var err error

	if cmd.Bool("cached") {
		items, err = r.cachedMusic(filters)
	} else {
		// Live listing talks to the backend, which wants a session.
		// The offline cache stays readable without one.
		if err := r.requireAuth(); err != nil {
			return err
		}
		r.logger.Info("fetching songs", "filters", filters.Values().Encode())
		items, err = r.svc.ListMusic(ctx, filters)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Songs & Chants (%d)", len(items)))
	for i, item := range items {
		r.writePlain("%3d. %s\n", i+1, item.Title)
		r.writePlain("     %s\n", strings.Join(musicDetails(item), " • "))
	}

	return nil
}

// MusicAdd creates a song or chant from the write flags.
func (r *Runner) MusicAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	input := musicInputFromFlags(cmd)
	r.logger.Info("creating song", "title", input.Title)

	item, err := r.svc.CreateMusic(ctx, input)
	if err != nil {
		return r.writeError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created %q (id %d)\n", item.Title, item.ID)
}

// MusicEdit replaces an existing song or chant. The full set of write flags is
// sent; stored files are kept unless --audio or --video names a replacement.
func (r *Runner) MusicEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	input := musicInputFromFlags(cmd)
	r.logger.Info("updating song", "id", id, "title", input.Title)

	item, err := r.svc.UpdateMusic(ctx, id, input)
	if err != nil {
		return r.writeError(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(item, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated %q (id %d)\n", item.Title, item.ID)
}

// MusicDelete removes a song or chant by ID.
func (r *Runner) MusicDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("deleting song", "id", id)

	if err := r.svc.DeleteMusic(ctx, id); err != nil {
		return r.writeError(err)
	}

	return r.writePlain("✓ Deleted song %d\n", id)
}

// cachedMusic reads the music listing from the local cache database.
func (r *Runner) cachedMusic(filters models.Filters) ([]models.MusicItem, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	cached, err := repositories.NewContentRepository(db).List(models.ResourceMusic, filters)
	if err != nil {
		return nil, err
	}

	items := make([]models.MusicItem, 0, len(cached))
	for _, row := range cached {
		item, err := row.Music()
		if err != nil {
			r.logger.Warn("skipping corrupt cache row", "id", row.LocalID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func musicInputFromFlags(cmd *cli.Command) services.MusicInput {
	return services.MusicInput{
		Title:         cmd.String("title"),
		Type:          cmd.String("type"),
		Lyrics:        cmd.String("lyrics"),
		Category:      cmd.String("category"),
		Difficulty:    cmd.Int("difficulty"),
		WebLink:       cmd.String("web-link"),
		AudioFilePath: cmd.String("audio"),
		VideoFilePath: cmd.String("video"),
	}
}

func musicDetails(item models.MusicItem) []string {
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

// filtersFromFlags builds listing filters from the shared list flags. Category
// is command specific and left to callers.
func filtersFromFlags(cmd *cli.Command) models.Filters {
	return models.Filters{
		Search:     cmd.String("search"),
		Type:       cmd.String("type"),
		Difficulty: cmd.Int("difficulty"),
	}
}

func parseIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: item id", shared.ErrMissingArgument)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: item id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// writeError surfaces field validation failures the way the server reports
// them before returning the error for exit handling.
func (r *Runner) writeError(err error) error {
	var apiErr *services.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	if apiErr.Kind == services.KindFieldErrors {
		r.writePlain("✗ %s\n", apiErr.Banner())
		for field, messages := range apiErr.Fields {
			for _, msg := range messages {
				r.writePlain("  %s: %s\n", field, msg)
			}
		}
	}
	return err
}
