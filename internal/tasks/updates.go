package tasks

import (
	"fmt"

	"github.com/tbakr/troopmedia/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchItems Phase = iota
	CacheItems
	ExportListing
)

func (p Phase) String() string {
	switch p {
	case FetchItems:
		return "fetch_items"
	case CacheItems:
		return "cache_items"
	case ExportListing:
		return "export_listing"
	default:
		return ""
	}
}

func fetchingResourceUpdate(step, total int, resource models.Resource) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %s from the server...", step, total, resource),
	}
}

func fetchedResourceUpdate(step, total int, resource models.Resource, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetched %d %s items", step, total, count, resource),
		Data:    count,
	}
}

func cachingItemUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching: %s", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, resource models.Resource, file string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, resource, file),
	}
}

func exportFailedUpdate(step, total int, resource models.Resource, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportListing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, resource, err),
	}
}
