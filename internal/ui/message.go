package ui

import (
	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/services"
)

// loginResultMsg reports the outcome of a credential exchange.
type loginResultMsg struct {
	pair services.TokenPair
	err  error
}

// musicFetchedMsg carries a music listing response. The generation field ties
// the response to the fetch that requested it so stale responses are dropped.
type musicFetchedMsg struct {
	generation int
	items      []models.MusicItem
	err        error
}

// scoutFetchedMsg carries a scout content listing response.
type scoutFetchedMsg struct {
	generation int
	items      []models.ScoutItem
	err        error
}

// itemSavedMsg reports the outcome of a create or update submission.
type itemSavedMsg struct {
	resource models.Resource
	name     string
	created  bool
	err      error
}

// itemDeletedMsg reports the outcome of a delete request so an optimistic
// removal can be rolled back on failure.
type itemDeletedMsg struct {
	resource models.Resource
	id       int
	err      error
}

// searchTickMsg fires when the search debounce window elapses. Only the tick
// matching the latest keystroke's generation triggers a fetch.
type searchTickMsg struct {
	generation int
}

// toastTickMsg fires when a toast's display window elapses.
type toastTickMsg struct {
	generation int
}
