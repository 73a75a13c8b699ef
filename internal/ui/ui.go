package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tbakr/troopmedia/internal/auth"
	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	LoginView
	ListView
	FormView
)

const (
	searchDebounce = 500 * time.Millisecond
	toastDuration  = 3 * time.Second
)

// deletedItem is the rollback record for an optimistic delete.
type deletedItem struct {
	index int
	music *models.MusicItem
	scout *models.ScoutItem
}

// Model represents the TUI application state.
type Model struct {
	ctx   context.Context
	view  ViewState
	svc   services.ContentService
	store *auth.TokenStore
	guard *auth.Guard

	width  int
	height int
	keys   keyMap
	help   help.Model

	// menu
	menuIndex int

	// login
	username    textinput.Model
	password    textinput.Model
	loginFocus  int
	loginNotice string
	loggingIn   bool
	afterLogin  ViewState

	// list
	resource  models.Resource
	itemList  list.Model
	listReady bool
	music     []models.MusicItem
	scout     []models.ScoutItem
	filters   models.Filters
	loading   bool
	fetchErr  error

	searching   bool
	searchInput textinput.Model
	searchGen   int
	fetchGen    int

	pendingDelete *deletedItem

	// form
	form   ItemForm
	saving bool

	// toast
	toast    string
	toastErr bool
	toastGen int
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, svc services.ContentService, store *auth.TokenStore, guard *auth.Guard) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100
	username.Width = 40

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100
	password.Width = 40

	search := textinput.New()
	search.Placeholder = "search"
	search.CharLimit = 200
	search.Width = 40

	return &Model{
		ctx:         ctx,
		view:        MenuView,
		svc:         svc,
		store:       store,
		guard:       guard,
		help:        help.New(),
		keys:        newKeyMap(),
		username:    username,
		password:    password,
		searchInput: search,
	}
}

// Init satisfies tea.Model. The menu needs no initial command.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The list only exists once a collection has been opened. Resizing
		// the zero value would touch its nil delegate.
		if m.listReady {
			m.itemList.SetSize(msg.Width-4, msg.Height-10)
		}
		m.form.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case LoginView:
			return m.handleLoginKeys(msg)
		case ListView:
			return m.handleListKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		}

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case musicFetchedMsg:
		if msg.generation != m.fetchGen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fetchErr = msg.err
			return m, nil
		}
		m.fetchErr = nil
		m.music = msg.items
		m.rebuildList()
		return m, nil

	case scoutFetchedMsg:
		if msg.generation != m.fetchGen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fetchErr = msg.err
			return m, nil
		}
		m.fetchErr = nil
		m.scout = msg.items
		m.rebuildList()
		return m, nil

	case itemSavedMsg:
		return m.handleItemSaved(msg)

	case itemDeletedMsg:
		return m.handleItemDeleted(msg)

	case searchTickMsg:
		if msg.generation != m.searchGen {
			return m, nil
		}
		m.filters.Search = m.searchInput.Value()
		return m, m.fetchItems()

	case toastTickMsg:
		if msg.generation == m.toastGen {
			m.toast = ""
		}
		return m, nil
	}

	if m.view == ListView && !m.searching {
		var cmd tea.Cmd
		m.itemList, cmd = m.itemList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case MenuView:
		body = m.renderMenu()
	case LoginView:
		body = m.renderLogin()
	case ListView:
		body = m.renderList()
	case FormView:
		body = m.form.View()
	}

	if m.toast != "" {
		style := styles.ok
		if m.toastErr {
			style = styles.err
		}
		body = fmt.Sprintf("%s\n\n%s", body, style.Render(m.toast))
	}
	return body
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.menuEntries()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.menuIndex = (m.menuIndex - 1 + len(entries)) % len(entries)
	case "down", "j":
		m.menuIndex = (m.menuIndex + 1) % len(entries)
	case "enter":
		switch m.menuIndex {
		case 0:
			if err := m.guard.Check(time.Now()); err != nil {
				return m, m.showToast("Please log in to view the library.", true)
			}
			return m.openList(models.ResourceMusic)
		case 1:
			if err := m.guard.Check(time.Now()); err != nil {
				return m, m.showToast("Please log in to view the library.", true)
			}
			return m.openList(models.ResourceScout)
		case 2:
			m.afterLogin = MenuView
			m.loginNotice = ""
			return m.openLogin()
		}
	}
	return m, nil
}

func (m *Model) menuEntries() []string {
	return []string{"Songs & Chants", "Scouting Techniques", "Log in"}
}

func (m *Model) openList(resource models.Resource) (tea.Model, tea.Cmd) {
	m.view = ListView
	m.resource = resource
	m.filters = models.Filters{}
	m.searchInput.SetValue("")
	m.searching = false
	m.fetchErr = nil
	m.itemList = list.New(nil, list.NewDefaultDelegate(), m.width-4, m.height-10)
	m.itemList.Title = m.listTitle()
	m.itemList.SetFilteringEnabled(false)
	m.itemList.SetShowHelp(false)
	m.listReady = true
	return m, m.fetchItems()
}

func (m *Model) listTitle() string {
	if m.resource == models.ResourceMusic {
		return "Songs & Chants"
	}
	return "Scouting Techniques"
}

func (m *Model) openLogin() (tea.Model, tea.Cmd) {
	m.view = LoginView
	m.username.SetValue("")
	m.password.SetValue("")
	m.password.Blur()
	m.loginFocus = 0
	m.loggingIn = false
	return m, m.username.Focus()
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.username.Blur()
			return m, m.password.Focus()
		}
		m.loginFocus = 0
		m.password.Blur()
		return m, m.username.Focus()
	case "enter":
		if m.username.Value() == "" || m.password.Value() == "" {
			m.loginNotice = "Username and password are required."
			return m, nil
		}
		m.loggingIn = true
		m.loginNotice = ""
		return m, m.login(m.username.Value(), m.password.Value())
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.loggingIn = false
	if msg.err != nil {
		var apiErr *services.APIError
		if errors.As(msg.err, &apiErr) {
			m.loginNotice = apiErr.Banner()
		} else {
			m.loginNotice = fmt.Sprintf("Login failed: %v", msg.err)
		}
		return m, nil
	}

	if err := m.store.SetPair(msg.pair.Access, msg.pair.Refresh); err != nil {
		m.loginNotice = fmt.Sprintf("Failed to save tokens: %v", err)
		return m, nil
	}

	m.view = m.afterLogin
	if m.view == ListView {
		return m, tea.Batch(m.showToast("Logged in.", false), m.fetchItems())
	}
	return m, m.showToast("Logged in.", false)
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			m.filters.Search = m.searchInput.Value()
			return m, m.fetchItems()
		case "ctrl+c":
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.searchGen++
		generation := m.searchGen
		tick := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchTickMsg{generation: generation}
		})
		return m, tea.Batch(cmd, tick)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MenuView
		return m, nil
	case "/":
		m.searching = true
		return m, m.searchInput.Focus()
	case "r":
		if m.fetchErr != nil {
			return m, m.fetchItems()
		}
	case "f":
		m.cycleTypeFilter()
		return m, m.fetchItems()
	case "c":
		if m.resource == models.ResourceScout {
			m.cycleCategoryFilter()
			return m, m.fetchItems()
		}
	case "d":
		m.cycleDifficultyFilter()
		return m, m.fetchItems()
	case "n":
		return m.openForm(nil, nil)
	case "e":
		return m.editSelected()
	case "x":
		return m.deleteSelected()
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

// cycleTypeFilter steps the type filter through unset and each enum value.
// Discrete filter changes fetch immediately, unlike debounced search input.
func (m *Model) cycleTypeFilter() {
	types := models.MusicTypes()
	if m.resource == models.ResourceScout {
		types = models.ScoutTypes()
	}

	next := 0
	for i, t := range types {
		if m.filters.Type == t {
			next = i + 1
			break
		}
	}
	if next >= len(types) {
		m.filters.Type = ""
	} else if m.filters.Type == "" {
		m.filters.Type = types[0]
	} else {
		m.filters.Type = types[next]
	}
}

func (m *Model) cycleCategoryFilter() {
	categories := models.ScoutCategories()

	switch m.filters.Category {
	case "":
		m.filters.Category = categories[0]
	case categories[len(categories)-1]:
		m.filters.Category = ""
	default:
		for i, c := range categories[:len(categories)-1] {
			if m.filters.Category == c {
				m.filters.Category = categories[i+1]
				break
			}
		}
	}
}

// cycleDifficultyFilter steps the difficulty filter through unset, 1, 2, 3.
func (m *Model) cycleDifficultyFilter() {
	m.filters.Difficulty = (m.filters.Difficulty + 1) % (len(models.Difficulties()) + 1)
}

// requireAuth redirects to the login view when the stored session lapses
// mid-use, for example an expired token discovered on a mutation.
func (m *Model) requireAuth() bool {
	if err := m.guard.Check(time.Now()); err != nil {
		m.afterLogin = m.view
		m.loginNotice = "Please log in to continue."
		m.view = LoginView
		m.username.SetValue("")
		m.password.SetValue("")
		m.loginFocus = 0
		m.username.Focus()
		return false
	}
	return true
}

func (m *Model) openForm(music *models.MusicItem, scout *models.ScoutItem) (tea.Model, tea.Cmd) {
	if !m.requireAuth() {
		return m, nil
	}

	if m.resource == models.ResourceMusic {
		var item models.MusicItem
		if music != nil {
			item = *music
		}
		m.form = NewMusicForm(item)
	} else {
		var item models.ScoutItem
		if scout != nil {
			item = *scout
		}
		m.form = NewScoutForm(item)
	}
	m.form.SetSize(m.width, m.height)
	m.saving = false
	m.view = FormView
	return m, nil
}

func (m *Model) editSelected() (tea.Model, tea.Cmd) {
	selected := m.itemList.SelectedItem()
	if selected == nil {
		return m, nil
	}

	switch it := selected.(type) {
	case musicItem:
		return m.openForm(&it.item, nil)
	case scoutItem:
		return m.openForm(nil, &it.item)
	}
	return m, nil
}

// deleteSelected removes the item from the visible list before the server
// answers, keeping a rollback record in case the request fails.
func (m *Model) deleteSelected() (tea.Model, tea.Cmd) {
	if !m.requireAuth() {
		return m, nil
	}

	index := m.itemList.Index()
	selected := m.itemList.SelectedItem()
	if selected == nil {
		return m, nil
	}

	var id int
	switch it := selected.(type) {
	case musicItem:
		id = it.item.ID
		m.pendingDelete = &deletedItem{index: index, music: &it.item}
		m.music = append(m.music[:index], m.music[index+1:]...)
	case scoutItem:
		id = it.item.ID
		m.pendingDelete = &deletedItem{index: index, scout: &it.item}
		m.scout = append(m.scout[:index], m.scout[index+1:]...)
	default:
		return m, nil
	}

	m.rebuildList()
	return m, m.deleteItem(m.resource, id)
}

func (m *Model) handleItemDeleted(msg itemDeletedMsg) (tea.Model, tea.Cmd) {
	pending := m.pendingDelete
	m.pendingDelete = nil

	if msg.err == nil {
		return m, m.showToast("Item deleted.", false)
	}

	// Roll the optimistic removal back.
	if pending != nil {
		if pending.music != nil {
			m.music = append(m.music[:pending.index], append([]models.MusicItem{*pending.music}, m.music[pending.index:]...)...)
		}
		if pending.scout != nil {
			m.scout = append(m.scout[:pending.index], append([]models.ScoutItem{*pending.scout}, m.scout[pending.index:]...)...)
		}
		m.rebuildList()
	}

	var apiErr *services.APIError
	if errors.As(msg.err, &apiErr) {
		if apiErr.Kind == services.KindAuth {
			m.afterLogin = ListView
			m.loginNotice = "Your session has expired. Please log in again."
			m.view = LoginView
			m.username.Focus()
			return m, nil
		}
		return m, m.showToast("Delete failed: "+apiErr.Banner(), true)
	}
	return m, m.showToast(fmt.Sprintf("Delete failed: %v", msg.err), true)
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.IsCancelRequested() {
		m.form.ClearRequests()
		m.view = ListView
		return m, nil
	}

	if m.form.IsSaveRequested() {
		m.form.ClearRequests()
		m.form.ClearErrors()
		m.saving = true
		return m, m.saveForm()
	}

	return m, cmd
}

func (m *Model) handleItemSaved(msg itemSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false

	if msg.err != nil {
		var apiErr *services.APIError
		if errors.As(msg.err, &apiErr) {
			switch apiErr.Kind {
			case services.KindAuth:
				m.afterLogin = FormView
				m.loginNotice = "Your session has expired. Please log in again."
				m.view = LoginView
				m.username.Focus()
				return m, nil
			case services.KindFieldErrors:
				m.form.SetErrors(apiErr.Banner(), apiErr.Fields)
				return m, nil
			default:
				m.form.SetErrors(apiErr.Banner(), nil)
				return m, nil
			}
		}
		m.form.SetErrors(fmt.Sprintf("Save failed: %v", msg.err), nil)
		return m, nil
	}

	m.view = ListView
	verb := "updated"
	if msg.created {
		verb = "created"
	}
	return m, tea.Batch(
		m.showToast(fmt.Sprintf("%q %s.", msg.name, verb), false),
		m.fetchItems(),
	)
}

func (m *Model) rebuildList() {
	var items []list.Item
	if m.resource == models.ResourceMusic {
		items = make([]list.Item, len(m.music))
		for i, item := range m.music {
			items[i] = musicItem{item: item}
		}
	} else {
		items = make([]list.Item, len(m.scout))
		for i, item := range m.scout {
			items[i] = scoutItem{item: item}
		}
	}
	m.itemList.SetItems(items)
}

// fetchItems starts a listing fetch for the current resource and filters.
// Bumping the generation first makes any in-flight response stale.
func (m *Model) fetchItems() tea.Cmd {
	m.loading = true
	m.fetchGen++
	generation := m.fetchGen
	filters := m.filters

	if m.resource == models.ResourceMusic {
		return func() tea.Msg {
			items, err := m.svc.ListMusic(m.ctx, filters)
			return musicFetchedMsg{generation: generation, items: items, err: err}
		}
	}
	return func() tea.Msg {
		items, err := m.svc.ListScout(m.ctx, filters)
		return scoutFetchedMsg{generation: generation, items: items, err: err}
	}
}

func (m *Model) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		pair, err := m.svc.Login(m.ctx, username, password)
		return loginResultMsg{pair: pair, err: err}
	}
}

func (m *Model) deleteItem(resource models.Resource, id int) tea.Cmd {
	return func() tea.Msg {
		var err error
		if resource == models.ResourceMusic {
			err = m.svc.DeleteMusic(m.ctx, id)
		} else {
			err = m.svc.DeleteScout(m.ctx, id)
		}
		return itemDeletedMsg{resource: resource, id: id, err: err}
	}
}

func (m *Model) saveForm() tea.Cmd {
	form := m.form
	return func() tea.Msg {
		if form.Resource() == models.ResourceMusic {
			in := form.MusicInput()
			var (
				item models.MusicItem
				err  error
			)
			if form.IsCreate() {
				item, err = m.svc.CreateMusic(m.ctx, in)
			} else {
				item, err = m.svc.UpdateMusic(m.ctx, form.ItemID(), in)
			}
			return itemSavedMsg{resource: form.Resource(), name: item.Title, created: form.IsCreate(), err: err}
		}

		in := form.ScoutInput()
		var (
			item models.ScoutItem
			err  error
		)
		if form.IsCreate() {
			item, err = m.svc.CreateScout(m.ctx, in)
		} else {
			item, err = m.svc.UpdateScout(m.ctx, form.ItemID(), in)
		}
		return itemSavedMsg{resource: form.Resource(), name: item.Name, created: form.IsCreate(), err: err}
	}
}

func (m *Model) showToast(message string, isErr bool) tea.Cmd {
	m.toast = message
	m.toastErr = isErr
	m.toastGen++
	generation := m.toastGen
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastTickMsg{generation: generation}
	})
}

func (m *Model) renderMenu() string {
	title := styles.title.Render("Troop Media Library")

	var rows string
	for i, entry := range m.menuEntries() {
		cursor := "  "
		if i == m.menuIndex {
			cursor = styles.ok.Render("> ")
			entry = styles.ok.Render(entry)
		}
		rows += fmt.Sprintf("%s%s\n", cursor, entry)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, rows, helpView)
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("Log in")

	var notice string
	if m.loginNotice != "" {
		notice = styles.err.Render(m.loginNotice) + "\n\n"
	}

	status := ""
	if m.loggingIn {
		status = "\n" + styles.warn.Render("Signing in...")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})
	return fmt.Sprintf(
		"%s\n%sUsername: %s\nPassword: %s\n%s\n%s",
		title, notice, m.username.View(), m.password.View(), status, helpView,
	)
}

func (m *Model) renderList() string {
	if m.fetchErr != nil {
		retry := styles.help.Render("Press r to retry, esc for the menu.")
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Failed to load items: %v", m.fetchErr)), retry)
	}

	var header string
	if m.searching {
		header = fmt.Sprintf("Search: %s\n", m.searchInput.View())
	} else if active := m.activeFilters(); active != "" {
		header = styles.warn.Render("Filters: "+active) + "\n"
	}

	body := m.itemList.View()
	if m.loading {
		body = styles.warn.Render("Loading...")
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.add, m.keys.edit, m.keys.delete, m.keys.filter, m.keys.difficulty, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", header, body, helpView)
}

func (m *Model) activeFilters() string {
	var parts []string
	if m.filters.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", m.filters.Search))
	}
	if m.filters.Type != "" {
		parts = append(parts, "type="+m.filters.Type)
	}
	if m.filters.Category != "" {
		parts = append(parts, "category="+m.filters.Category)
	}
	if m.filters.Difficulty != 0 {
		parts = append(parts, fmt.Sprintf("difficulty=%d", m.filters.Difficulty))
	}
	if len(parts) == 0 {
		return ""
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}
