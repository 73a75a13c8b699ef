package models

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tbakr/troopmedia/internal/shared"
)

// Resource identifies a remote collection on the content API.
type Resource string

const (
	ResourceMusic Resource = "music"
	ResourceScout Resource = "scout-content"
)

// Music type values accepted by the API.
const (
	MusicTypeSong  = "SONG"
	MusicTypeChant = "CHANT"
	MusicTypeClap  = "CLAP"
)

// Music category values accepted by the API.
const (
	MusicCategoryCampfire    = "CAMPFIRE"
	MusicCategoryMarching    = "MARCHING"
	MusicCategoryTraditional = "TRADITIONAL"
	MusicCategoryFun         = "FUN"
)

// Scout content type values accepted by the API.
const (
	ScoutTypeKnot     = "KNOT"
	ScoutTypeLashing1 = "LASHING_1"
	ScoutTypeLashing2 = "LASHING_2"
)

// Scout content category values accepted by the API.
const (
	ScoutCategoryKnots      = "KNOTS"
	ScoutCategoryPioneering = "PIONEERING"
)

// MusicTypes returns the closed set of music type values in form order.
func MusicTypes() []string {
	return []string{MusicTypeSong, MusicTypeChant, MusicTypeClap}
}

// MusicCategories returns the closed set of music category values in form order.
func MusicCategories() []string {
	return []string{MusicCategoryCampfire, MusicCategoryMarching, MusicCategoryTraditional, MusicCategoryFun}
}

// ScoutTypes returns the closed set of scout content type values in form order.
func ScoutTypes() []string {
	return []string{ScoutTypeKnot, ScoutTypeLashing1, ScoutTypeLashing2}
}

// ScoutCategories returns the closed set of scout content category values in form order.
func ScoutCategories() []string {
	return []string{ScoutCategoryKnots, ScoutCategoryPioneering}
}

// Difficulties returns the valid difficulty ordinals.
func Difficulties() []int {
	return []int{1, 2, 3}
}

// DifficultyName returns the label for a difficulty ordinal, used when the
// server's difficulty_display field is absent.
func DifficultyName(d int) string {
	switch d {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	case 3:
		return "Hard"
	default:
		return ""
	}
}

// MusicItem represents a song, chant, or clap record from the content API.
//
// The *_display fields are server-supplied human-readable labels for the
// choice fields and are passed through unmodified.
type MusicItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`

	Lyrics     string `json:"lyrics,omitempty"`
	Category   string `json:"category,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"` // 1-3

	TypeDisplay       string `json:"type_display,omitempty"`
	CategoryDisplay   string `json:"category_display,omitempty"`
	DifficultyDisplay string `json:"difficulty_display,omitempty"`

	AudioFile string `json:"audio_file,omitempty"` // URL after upload
	VideoFile string `json:"video_file,omitempty"`
	WebLink   string `json:"web_link,omitempty"`

	Author      string `json:"author,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Validate checks that the item's choice fields fall inside the closed sets
// the API accepts. A value outside them is a client bug, not a supported path.
func (m MusicItem) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}
	if !contains(MusicTypes(), m.Type) {
		return fmt.Errorf("%w: unknown music type %q", shared.ErrInvalidInput, m.Type)
	}
	if m.Category != "" && !contains(MusicCategories(), m.Category) {
		return fmt.Errorf("%w: unknown music category %q", shared.ErrInvalidInput, m.Category)
	}
	if m.Difficulty != 0 && (m.Difficulty < 1 || m.Difficulty > 3) {
		return fmt.Errorf("%w: difficulty must be 1-3, got %d", shared.ErrInvalidInput, m.Difficulty)
	}
	return nil
}

// DisplayType returns the server label for the type, falling back to the raw value.
func (m MusicItem) DisplayType() string {
	if m.TypeDisplay != "" {
		return m.TypeDisplay
	}
	return m.Type
}

// ScoutItem represents a knot, lashing, or pioneering record from the content API.
type ScoutItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	Category   string `json:"category,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"` // 1-3
	Usage      string `json:"usage,omitempty"`

	TypeDisplay       string `json:"type_display,omitempty"`
	CategoryDisplay   string `json:"category_display,omitempty"`
	DifficultyDisplay string `json:"difficulty_display,omitempty"`

	YoutubeLink string `json:"youtube_link,omitempty"`
	Model3D     string `json:"model_3d,omitempty"`
	Picture     string `json:"picture,omitempty"` // URL after upload
	Video       string `json:"video,omitempty"`

	Author      string `json:"author,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Validate checks the item's choice fields against the API's closed sets.
func (s ScoutItem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	if !contains(ScoutTypes(), s.Type) {
		return fmt.Errorf("%w: unknown scout content type %q", shared.ErrInvalidInput, s.Type)
	}
	if !contains(ScoutCategories(), s.Category) {
		return fmt.Errorf("%w: unknown scout content category %q", shared.ErrInvalidInput, s.Category)
	}
	if s.Difficulty < 1 || s.Difficulty > 3 {
		return fmt.Errorf("%w: difficulty must be 1-3, got %d", shared.ErrInvalidInput, s.Difficulty)
	}
	return nil
}

// DisplayType returns the server label for the type, falling back to the raw value.
func (s ScoutItem) DisplayType() string {
	if s.TypeDisplay != "" {
		return s.TypeDisplay
	}
	return s.Type
}

// Filters holds list query parameters. Zero values mean "not filtered" and
// are omitted from the outgoing query string entirely.
type Filters struct {
	Search     string // substring match on name/title/lyrics/usage
	Type       string // exact enum match
	Category   string // exact enum match
	Difficulty int    // exact ordinal match, 0 means unset
}

// Values translates the filters into url.Values, omitting empty fields so the
// API never receives empty-string matches.
func (f Filters) Values() url.Values {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Type != "" {
		params.Set("type", f.Type)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Difficulty != 0 {
		params.Set("difficulty", strconv.Itoa(f.Difficulty))
	}
	return params
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// CategoryFromSlug translates a scouts route segment into the API's category
// enum value. "all" (and empty) mean no category filter. The translation is a
// case fold, validated against the closed category set.
func CategoryFromSlug(slug string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" || s == "all" {
		return "", nil
	}

	category := strings.ToUpper(s)
	if !contains(ScoutCategories(), category) {
		return "", fmt.Errorf("%w: unknown category %q (want all, pioneering, or knots)", shared.ErrInvalidArgument, slug)
	}
	return category, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
