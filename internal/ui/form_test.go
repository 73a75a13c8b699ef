package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tbakr/troopmedia/internal/models"
)

func TestNewMusicForm(t *testing.T) {
	t.Run("Populates From Item", func(t *testing.T) {
		item := models.MusicItem{
			ID: 12, Title: "Kumbaya", Type: models.MusicTypeSong,
			Category: models.MusicCategoryCampfire, Difficulty: 2,
			Lyrics: "Kumbaya my Lord", WebLink: "https://example.org/kumbaya",
			AudioFile: "/media/music/audio/kumbaya.mp3",
		}

		form := NewMusicForm(item)

		if form.IsCreate() {
			t.Error("expected edit mode for an item with an id")
		}
		if form.ItemID() != 12 {
			t.Errorf("expected item id 12, got %d", form.ItemID())
		}

		expected := map[string]string{
			"title":      "Kumbaya",
			"type":       models.MusicTypeSong,
			"category":   models.MusicCategoryCampfire,
			"difficulty": "Medium",
			"lyrics":     "Kumbaya my Lord",
			"web_link":   "https://example.org/kumbaya",
		}
		for key, want := range expected {
			if got := form.value(key); got != want {
				t.Errorf("field %s: expected %q, got %q", key, want, got)
			}
		}
	})

	t.Run("Create Mode From Zero Value", func(t *testing.T) {
		form := NewMusicForm(models.MusicItem{})

		if !form.IsCreate() {
			t.Error("expected create mode")
		}
		if form.value("type") != models.MusicTypeSong {
			t.Errorf("expected first type as default, got %q", form.value("type"))
		}
		if form.value("category") != "" {
			t.Errorf("expected optional category to default to none, got %q", form.value("category"))
		}
		if form.value("difficulty") != "" {
			t.Errorf("expected optional difficulty to default to none, got %q", form.value("difficulty"))
		}
	})

	t.Run("File Fields Start Empty On Edit", func(t *testing.T) {
		item := models.MusicItem{ID: 3, Title: "X", Type: models.MusicTypeClap, AudioFile: "/media/audio/x.mp3"}
		form := NewMusicForm(item)

		in := form.MusicInput()
		if in.AudioFilePath != "" {
			t.Errorf("untouched file field must submit nothing, got %q", in.AudioFilePath)
		}

		// The stored URL is surfaced as a hint only.
		for _, field := range form.fields {
			if field.Key == "audio_file" {
				if field.Input.Value() != "" {
					t.Errorf("file field value should be empty, got %q", field.Input.Value())
				}
				if !strings.Contains(field.Input.Placeholder, "/media/audio/x.mp3") {
					t.Errorf("placeholder should mention the current file, got %q", field.Input.Placeholder)
				}
			}
		}
	})
}

func TestNewScoutForm(t *testing.T) {
	form := NewScoutForm(models.ScoutItem{
		ID: 4, Name: "Bowline", Type: models.ScoutTypeKnot,
		Category: models.ScoutCategoryKnots, Difficulty: 3, Usage: "Rescue loop",
	})

	expected := map[string]string{
		"name":       "Bowline",
		"type":       models.ScoutTypeKnot,
		"category":   models.ScoutCategoryKnots,
		"difficulty": "Hard",
		"usage":      "Rescue loop",
	}
	for key, want := range expected {
		if got := form.value(key); got != want {
			t.Errorf("field %s: expected %q, got %q", key, want, got)
		}
	}

	in := form.ScoutInput()
	if in.Difficulty != 3 || in.Name != "Bowline" {
		t.Errorf("unexpected input payload: %+v", in)
	}
}

func TestFormSelectCycling(t *testing.T) {
	form := NewMusicForm(models.MusicItem{})

	// Tab from title to the type select.
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	if form.fields[form.focusedField].Key != "type" {
		t.Fatalf("expected focus on type, got %s", form.fields[form.focusedField].Key)
	}

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyRight})
	if form.value("type") != models.MusicTypeChant {
		t.Errorf("expected CHANT after cycling right, got %q", form.value("type"))
	}

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyLeft})
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if form.value("type") != models.MusicTypeClap {
		t.Errorf("expected wrap-around to CLAP, got %q", form.value("type"))
	}
}

func TestFormServerErrors(t *testing.T) {
	form := NewMusicForm(models.MusicItem{})

	form.SetErrors("Please correct the highlighted fields.", map[string][]string{
		"title":   {"This field is required."},
		"mystery": {"Unknown problem."},
	})

	view := form.View()
	if !strings.Contains(view, "Please correct the highlighted fields.") {
		t.Error("banner missing from rendered form")
	}
	if !strings.Contains(view, "This field is required.") {
		t.Error("field error missing from rendered form")
	}
	if !strings.Contains(view, "mystery: Unknown problem.") {
		t.Error("errors for unknown fields should fold into the banner")
	}

	form.ClearErrors()
	view = form.View()
	if strings.Contains(view, "This field is required.") {
		t.Error("field errors should clear")
	}
}

func TestFormSaveCancelFlags(t *testing.T) {
	form := NewMusicForm(models.MusicItem{})

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !form.IsSaveRequested() {
		t.Error("ctrl+s should request a save")
	}
	form.ClearRequests()
	if form.IsSaveRequested() {
		t.Error("ClearRequests should reset the save flag")
	}

	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !form.IsCancelRequested() {
		t.Error("esc should request cancel")
	}
}
