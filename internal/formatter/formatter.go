// package formatter provides functions to export content listings to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/shared"
)

// Listing is a snapshot of one resource's items prepared for export.
type Listing struct {
	Resource  models.Resource    `json:"resource"`
	Music     []models.MusicItem `json:"music,omitempty"`
	Scout     []models.ScoutItem `json:"scout_content,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Len returns the number of items in the listing.
func (l Listing) Len() int {
	if l.Resource == models.ResourceMusic {
		return len(l.Music)
	}
	return len(l.Scout)
}

// ExportToCSV converts a listing to CSV. Music columns: ID, Title, Type,
// Category, Difficulty, Web Link. Scout columns: ID, Name, Type, Category,
// Difficulty, Usage.
func ExportToCSV(listing Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	var records [][]string
	if listing.Resource == models.ResourceMusic {
		records = append(records, []string{"ID", "Title", "Type", "Category", "Difficulty", "Web Link"})
		for _, item := range listing.Music {
			records = append(records, []string{
				strconv.Itoa(item.ID),
				item.Title,
				item.DisplayType(),
				item.Category,
				difficultyLabel(item.Difficulty, item.DifficultyDisplay),
				item.WebLink,
			})
		}
	} else {
		records = append(records, []string{"ID", "Name", "Type", "Category", "Difficulty", "Usage"})
		for _, item := range listing.Scout {
			records = append(records, []string{
				strconv.Itoa(item.ID),
				item.Name,
				item.DisplayType(),
				item.Category,
				difficultyLabel(item.Difficulty, item.DifficultyDisplay),
				item.Usage,
			})
		}
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown converts a listing to a Markdown document with one section
// per item.
func ExportToMarkdown(listing Listing) ([]byte, error) {
	var buf bytes.Buffer

	if listing.Resource == models.ResourceMusic {
		buf.WriteString("# Songs & Chants\n\n")
		buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(listing.Music)))

		for _, item := range listing.Music {
			buf.WriteString(fmt.Sprintf("## %s\n\n", item.Title))
			buf.WriteString(fmt.Sprintf("**Type**: %s\n", item.DisplayType()))
			if item.Category != "" {
				buf.WriteString(fmt.Sprintf("**Category**: %s\n", item.Category))
			}
			if label := difficultyLabel(item.Difficulty, item.DifficultyDisplay); label != "" {
				buf.WriteString(fmt.Sprintf("**Difficulty**: %s\n", label))
			}
			if item.WebLink != "" {
				buf.WriteString(fmt.Sprintf("**Link**: <%s>\n", item.WebLink))
			}
			if item.Lyrics != "" {
				buf.WriteString(fmt.Sprintf("\n```\n%s\n```\n", item.Lyrics))
			}
			buf.WriteString("\n")
		}
	} else {
		buf.WriteString("# Scouting Techniques\n\n")
		buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(listing.Scout)))

		for _, item := range listing.Scout {
			buf.WriteString(fmt.Sprintf("## %s\n\n", item.Name))
			buf.WriteString(fmt.Sprintf("**Type**: %s\n", item.DisplayType()))
			buf.WriteString(fmt.Sprintf("**Category**: %s\n", item.Category))
			if label := difficultyLabel(item.Difficulty, item.DifficultyDisplay); label != "" {
				buf.WriteString(fmt.Sprintf("**Difficulty**: %s\n", label))
			}
			if item.YoutubeLink != "" {
				buf.WriteString(fmt.Sprintf("**Video**: <%s>\n", item.YoutubeLink))
			}
			if item.Usage != "" {
				buf.WriteString(fmt.Sprintf("\n%s\n", item.Usage))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a listing to a numbered plain text list.
func ExportToText(listing Listing) ([]byte, error) {
	var buf bytes.Buffer

	if listing.Resource == models.ResourceMusic {
		buf.WriteString(fmt.Sprintf("Songs & Chants (%d)\n\n", len(listing.Music)))
		for i, item := range listing.Music {
			buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, item.Title, item.DisplayType()))
		}
	} else {
		buf.WriteString(fmt.Sprintf("Scouting Techniques (%d)\n\n", len(listing.Scout)))
		for i, item := range listing.Scout {
			buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, item.Name, item.DisplayType()))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a listing to indented JSON.
func ExportToJSON(listing Listing) ([]byte, error) {
	return shared.MarshalJSON(listing, true)
}

// WriteExport renders a listing in the named format and writes it to path.
// Format defaults to json; path defaults to {resource}.{ext}. Returns the
// path written.
func WriteExport(listing Listing, format, path string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(listing)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(listing)
		ext = "md"
	case "txt", "text":
		data, err = ExportToText(listing)
		ext = "txt"
	case "json", "":
		data, err = ExportToJSON(listing)
		ext = "json"
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want json, csv, markdown, or txt)", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if path == "" {
		path = fmt.Sprintf("%s.%s", listing.Resource, ext)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func difficultyLabel(difficulty int, display string) string {
	if display != "" {
		return display
	}
	return models.DifficultyName(difficulty)
}
