package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/services"
)

// FieldType defines the kind of form field
type FieldType int

const (
	FieldText FieldType = iota
	FieldTextArea
	FieldSelect
)

const noneOption = "(none)"

// Field represents a single editable form field
type Field struct {
	Label    string
	Key      string // API field name (title, type, difficulty, etc.)
	Type     FieldType
	Input    textinput.Model // for text fields
	TextArea textarea.Model  // for textarea fields
	Options  []string        // for select fields
	Selected int             // current selection index for select fields
	Errors   []string        // server-side validation messages for this field
}

// ItemForm provides field-by-field item editing for either collection.
//
// In edit mode the file path fields start empty; leaving them empty keeps the
// files already stored on the server.
type ItemForm struct {
	resource     models.Resource
	fields       []Field
	focusedField int
	width        int
	height       int
	itemID       int // zero for create mode
	itemName     string
	banner       string // form-wide error message

	saveRequested   bool
	cancelRequested bool
}

// NewMusicForm creates a form for a music item. Pass the zero value to create
// a new item.
func NewMusicForm(item models.MusicItem) ItemForm {
	fields := []Field{
		makeTextField("Title", "title", item.Title),
		makeSelectField("Type", "type", item.Type, models.MusicTypes(), false),
		makeSelectField("Category", "category", item.Category, models.MusicCategories(), true),
		makeSelectField("Difficulty", "difficulty", models.DifficultyName(item.Difficulty), difficultyOptions(), false),
		makeTextAreaField("Lyrics", "lyrics", item.Lyrics),
		makeTextField("Web link", "web_link", item.WebLink),
		makeFileField("Audio file", "audio_file", item.AudioFile),
		makeFileField("Video file", "video_file", item.VideoFile),
	}
	fields[0].Input.Focus()

	return ItemForm{
		resource: models.ResourceMusic,
		fields:   fields,
		itemID:   item.ID,
		itemName: item.Title,
	}
}

// NewScoutForm creates a form for a scout content item. Pass the zero value
// to create a new item.
func NewScoutForm(item models.ScoutItem) ItemForm {
	fields := []Field{
		makeTextField("Name", "name", item.Name),
		makeSelectField("Type", "type", item.Type, models.ScoutTypes(), false),
		makeSelectField("Category", "category", item.Category, models.ScoutCategories(), false),
		makeSelectField("Difficulty", "difficulty", models.DifficultyName(item.Difficulty), difficultyOptions()[1:], false),
		makeTextAreaField("Usage", "usage", item.Usage),
		makeTextField("YouTube link", "youtube_link", item.YoutubeLink),
		makeTextField("3D model link", "model_3d", item.Model3D),
		makeFileField("Picture", "picture", item.Picture),
		makeFileField("Video", "video", item.Video),
	}
	fields[0].Input.Focus()

	return ItemForm{
		resource: models.ResourceScout,
		fields:   fields,
		itemID:   item.ID,
		itemName: item.Name,
	}
}

func difficultyOptions() []string {
	options := []string{noneOption}
	for _, d := range models.Difficulties() {
		options = append(options, models.DifficultyName(d))
	}
	return options
}

func parseDifficulty(label string) int {
	for _, d := range models.Difficulties() {
		if models.DifficultyName(d) == label {
			return d
		}
	}
	return 0
}

func makeTextField(label, key, value string) Field {
	ti := textinput.New()
	ti.SetValue(value)
	ti.CharLimit = 200
	ti.Width = 50

	return Field{Label: label, Key: key, Type: FieldText, Input: ti}
}

// makeFileField creates a text input holding a local file path. The stored
// remote URL is shown as the placeholder, never as the value, so an untouched
// field submits nothing and the server keeps its file.
func makeFileField(label, key, currentURL string) Field {
	ti := textinput.New()
	ti.CharLimit = 400
	ti.Width = 50
	if currentURL != "" {
		ti.Placeholder = fmt.Sprintf("path to new file (current: %s)", currentURL)
	} else {
		ti.Placeholder = "path to file"
	}

	return Field{Label: label, Key: key, Type: FieldText, Input: ti}
}

func makeTextAreaField(label, key, value string) Field {
	ta := textarea.New()
	ta.SetValue(value)
	ta.SetWidth(50)
	ta.SetHeight(4)
	ta.CharLimit = 10000

	return Field{Label: label, Key: key, Type: FieldTextArea, TextArea: ta}
}

func makeSelectField(label, key, value string, options []string, optional bool) Field {
	if optional {
		options = append([]string{noneOption}, options...)
	}

	selected := 0
	for i, opt := range options {
		if opt == value {
			selected = i
			break
		}
	}

	return Field{Label: label, Key: key, Type: FieldSelect, Options: options, Selected: selected}
}

// IsCreate reports whether the form will create a new item on save.
func (f ItemForm) IsCreate() bool {
	return f.itemID == 0
}

// ItemID returns the id of the item being edited, zero in create mode.
func (f ItemForm) ItemID() int {
	return f.itemID
}

// Resource returns the collection the form belongs to.
func (f ItemForm) Resource() models.Resource {
	return f.resource
}

// IsSaveRequested returns true if ctrl+s was pressed
func (f ItemForm) IsSaveRequested() bool {
	return f.saveRequested
}

// IsCancelRequested returns true if esc was pressed
func (f ItemForm) IsCancelRequested() bool {
	return f.cancelRequested
}

// ClearRequests resets the save/cancel flags after the parent handles them.
func (f *ItemForm) ClearRequests() {
	f.saveRequested = false
	f.cancelRequested = false
}

// SetErrors attaches server-side validation messages to the form. Messages
// keyed by a field name render under that field; the banner renders above the
// form. Unknown field keys fold into the banner so nothing is silently lost.
func (f *ItemForm) SetErrors(banner string, fields map[string][]string) {
	f.banner = banner

	for i := range f.fields {
		f.fields[i].Errors = nil
	}

	var orphaned []string
	for key, messages := range fields {
		matched := false
		for i := range f.fields {
			if f.fields[i].Key == key {
				f.fields[i].Errors = messages
				matched = true
				break
			}
		}
		if !matched {
			orphaned = append(orphaned, fmt.Sprintf("%s: %s", key, strings.Join(messages, "; ")))
		}
	}

	if len(orphaned) > 0 {
		if f.banner != "" {
			f.banner += " "
		}
		f.banner += strings.Join(orphaned, " ")
	}
}

// ClearErrors removes the banner and all per-field messages.
func (f *ItemForm) ClearErrors() {
	f.banner = ""
	for i := range f.fields {
		f.fields[i].Errors = nil
	}
}

// Update handles input for the form
func (f ItemForm) Update(msg tea.Msg) (ItemForm, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+s":
			f.saveRequested = true
			return f, nil

		case "esc":
			f.cancelRequested = true
			return f, nil

		case "tab", "down":
			if msg.String() == "down" && f.fields[f.focusedField].Type == FieldTextArea {
				break
			}
			f.fields[f.focusedField] = blurField(f.fields[f.focusedField])
			f.focusedField = (f.focusedField + 1) % len(f.fields)
			f.fields[f.focusedField] = focusField(f.fields[f.focusedField])
			return f, nil

		case "shift+tab", "up":
			if msg.String() == "up" && f.fields[f.focusedField].Type == FieldTextArea {
				break
			}
			f.fields[f.focusedField] = blurField(f.fields[f.focusedField])
			f.focusedField = (f.focusedField - 1 + len(f.fields)) % len(f.fields)
			f.fields[f.focusedField] = focusField(f.fields[f.focusedField])
			return f, nil

		case "left":
			if f.fields[f.focusedField].Type == FieldSelect {
				field := &f.fields[f.focusedField]
				field.Selected = (field.Selected - 1 + len(field.Options)) % len(field.Options)
				return f, nil
			}

		case "right":
			if f.fields[f.focusedField].Type == FieldSelect {
				field := &f.fields[f.focusedField]
				field.Selected = (field.Selected + 1) % len(field.Options)
				return f, nil
			}
		}

		field := &f.fields[f.focusedField]
		switch field.Type {
		case FieldText:
			field.Input, cmd = field.Input.Update(msg)
			cmds = append(cmds, cmd)
		case FieldTextArea:
			field.TextArea, cmd = field.TextArea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return f, tea.Batch(cmds...)
}

func focusField(field Field) Field {
	switch field.Type {
	case FieldText:
		field.Input.Focus()
	case FieldTextArea:
		field.TextArea.Focus()
	}
	return field
}

func blurField(field Field) Field {
	switch field.Type {
	case FieldText:
		field.Input.Blur()
	case FieldTextArea:
		field.TextArea.Blur()
	}
	return field
}

func (f ItemForm) value(key string) string {
	for _, field := range f.fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case FieldText:
			return strings.TrimSpace(field.Input.Value())
		case FieldTextArea:
			return field.TextArea.Value()
		case FieldSelect:
			v := field.Options[field.Selected]
			if v == noneOption {
				return ""
			}
			return v
		}
	}
	return ""
}

// MusicInput builds the submission payload from the current field values.
func (f ItemForm) MusicInput() services.MusicInput {
	return services.MusicInput{
		Title:         f.value("title"),
		Type:          f.value("type"),
		Lyrics:        f.value("lyrics"),
		Category:      f.value("category"),
		Difficulty:    parseDifficulty(f.value("difficulty")),
		WebLink:       f.value("web_link"),
		AudioFilePath: f.value("audio_file"),
		VideoFilePath: f.value("video_file"),
	}
}

// ScoutInput builds the submission payload from the current field values.
func (f ItemForm) ScoutInput() services.ScoutInput {
	return services.ScoutInput{
		Name:        f.value("name"),
		Type:        f.value("type"),
		Category:    f.value("category"),
		Difficulty:  parseDifficulty(f.value("difficulty")),
		Usage:       f.value("usage"),
		YoutubeLink: f.value("youtube_link"),
		Model3D:     f.value("model_3d"),
		PicturePath: f.value("picture"),
		VideoPath:   f.value("video"),
	}
}

// SetSize sets the form dimensions
func (f *ItemForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// View renders the form
func (f ItemForm) View() string {
	var content strings.Builder

	var title string
	switch {
	case f.IsCreate() && f.resource == models.ResourceMusic:
		title = "New Song / Chant"
	case f.IsCreate():
		title = "New Scouting Technique"
	default:
		title = fmt.Sprintf("Edit: %s", f.itemName)
	}
	content.WriteString(styles.title.Render(title))
	content.WriteString("\n")

	if f.banner != "" {
		content.WriteString(styles.err.Render(f.banner))
		content.WriteString("\n\n")
	}

	for i, field := range f.fields {
		label := field.Label + ":"
		if i == f.focusedField {
			content.WriteString(styles.ok.Render(label))
		} else {
			content.WriteString(label)
		}
		content.WriteString(" ")

		switch field.Type {
		case FieldText:
			content.WriteString(field.Input.View())
		case FieldTextArea:
			content.WriteString("\n")
			content.WriteString(field.TextArea.View())
		case FieldSelect:
			value := field.Options[field.Selected]
			if i == f.focusedField {
				content.WriteString(styles.ok.Render(fmt.Sprintf("< %s >", value)))
			} else {
				content.WriteString(value)
			}
		}
		content.WriteString("\n")

		for _, msg := range field.Errors {
			content.WriteString(styles.err.Render("  ✗ " + msg))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	instructions := "[Tab] Next field   [Ctrl+S] Save   [Esc] Cancel"
	if f.fields[f.focusedField].Type == FieldSelect {
		instructions = "[←/→] Change   " + instructions
	}
	content.WriteString(styles.help.Render(instructions))

	return content.String()
}
