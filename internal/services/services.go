package services

import (
	"context"
	"strconv"

	"github.com/tbakr/troopmedia/internal/models"
)

// ContentService defines the operations the troop content API exposes to this client.
type ContentService interface {
	// Login exchanges credentials for an access/refresh token pair.
	Login(ctx context.Context, username, password string) (TokenPair, error)

	// ListMusic retrieves music entries matching the given filters.
	ListMusic(ctx context.Context, f models.Filters) ([]models.MusicItem, error)

	// CreateMusic creates a new music entry from the form input.
	CreateMusic(ctx context.Context, in MusicInput) (models.MusicItem, error)

	// UpdateMusic performs a full update of the entry with the given id.
	// File fields left empty in the input are omitted from the request, which
	// the API treats as "keep the stored file".
	UpdateMusic(ctx context.Context, id int, in MusicInput) (models.MusicItem, error)

	// DeleteMusic removes the entry with the given id.
	DeleteMusic(ctx context.Context, id int) error

	// ListScout retrieves scout technique entries matching the given filters.
	ListScout(ctx context.Context, f models.Filters) ([]models.ScoutItem, error)

	// CreateScout creates a new scout technique entry from the form input.
	CreateScout(ctx context.Context, in ScoutInput) (models.ScoutItem, error)

	// UpdateScout performs a full update, with the same file-omission rule as UpdateMusic.
	UpdateScout(ctx context.Context, id int, in ScoutInput) (models.ScoutItem, error)

	// DeleteScout removes the entry with the given id.
	DeleteScout(ctx context.Context, id int) error
}

// TokenPair is the response of the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// MusicInput carries the writable fields of a music entry. The *Path fields
// name local files to upload; an empty path means no new file was chosen and
// the field is omitted from the multipart payload entirely.
type MusicInput struct {
	Title      string
	Type       string
	Lyrics     string
	Category   string
	Difficulty int
	WebLink    string

	AudioFilePath string
	VideoFilePath string
}

// textFields returns the text portion of the multipart payload. Empty strings
// are sent as-is so clearing a text field on edit sticks. Difficulty is the
// exception: the API only accepts 1-3 as choices, so an unset difficulty is
// omitted rather than sent as 0.
func (in MusicInput) textFields() map[string]string {
	fields := map[string]string{
		"title":    in.Title,
		"type":     in.Type,
		"lyrics":   in.Lyrics,
		"category": in.Category,
		"web_link": in.WebLink,
	}
	if in.Difficulty > 0 {
		fields["difficulty"] = strconv.Itoa(in.Difficulty)
	}
	return fields
}

// fileFields maps multipart field names to chosen local paths, empty paths excluded.
func (in MusicInput) fileFields() map[string]string {
	files := map[string]string{}
	if in.AudioFilePath != "" {
		files["audio_file"] = in.AudioFilePath
	}
	if in.VideoFilePath != "" {
		files["video_file"] = in.VideoFilePath
	}
	return files
}

// ScoutInput carries the writable fields of a scout technique entry.
type ScoutInput struct {
	Name        string
	Type        string
	Category    string
	Difficulty  int
	Usage       string
	YoutubeLink string
	Model3D     string

	PicturePath string
	VideoPath   string
}

func (in ScoutInput) textFields() map[string]string {
	fields := map[string]string{
		"name":         in.Name,
		"type":         in.Type,
		"category":     in.Category,
		"usage":        in.Usage,
		"youtube_link": in.YoutubeLink,
		"model_3d":     in.Model3D,
	}
	if in.Difficulty > 0 {
		fields["difficulty"] = strconv.Itoa(in.Difficulty)
	}
	return fields
}

func (in ScoutInput) fileFields() map[string]string {
	files := map[string]string{}
	if in.PicturePath != "" {
		files["picture"] = in.PicturePath
	}
	if in.VideoPath != "" {
		files["video"] = in.VideoPath
	}
	return files
}
