package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tbakr/troopmedia/internal/models"
)

var (
	_ list.Item = musicItem{}
	_ list.Item = scoutItem{}
)

// musicItem wraps [models.MusicItem] to implement [list.Item].
type musicItem struct {
	item models.MusicItem
}

func (i musicItem) FilterValue() string { return i.item.Title }
func (i musicItem) Title() string       { return i.item.Title }
func (i musicItem) Description() string {
	desc := i.item.DisplayType()
	if i.item.Category != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Category)
	}
	if label := difficultyLabel(i.item.Difficulty, i.item.DifficultyDisplay); label != "" {
		desc = fmt.Sprintf("%s • %s", desc, label)
	}
	return desc
}

// scoutItem wraps [models.ScoutItem] to implement [list.Item].
type scoutItem struct {
	item models.ScoutItem
}

func (i scoutItem) FilterValue() string { return i.item.Name }
func (i scoutItem) Title() string       { return i.item.Name }
func (i scoutItem) Description() string {
	desc := i.item.DisplayType()
	if i.item.Category != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.item.Category)
	}
	if label := difficultyLabel(i.item.Difficulty, i.item.DifficultyDisplay); label != "" {
		desc = fmt.Sprintf("%s • %s", desc, label)
	}
	return desc
}

func difficultyLabel(difficulty int, display string) string {
	if display != "" {
		return display
	}
	return models.DifficultyName(difficulty)
}
