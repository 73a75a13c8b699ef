package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tbakr/troopmedia/internal/formatter"
	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/services"
	"github.com/tbakr/troopmedia/internal/shared"
	"golang.org/x/time/rate"
)

// ContentCache defines the persistence operations the engine needs.
// This abstraction allows for easier testing and decoupling from the concrete
// repository implementation.
type ContentCache interface {
	Upsert(item *models.CachedItem) error
	Clear(resource models.Resource) (int, error)
	List(resource models.Resource, filters models.Filters) ([]*models.CachedItem, error)
}

// ResourceSyncResult reports the outcome of syncing one resource.
type ResourceSyncResult struct {
	Resource models.Resource
	Fetched  int   // Items returned by the server
	Cached   int   // Items written to the cache
	Cleared  int   // Stale rows removed before the sync
	Error    error // Non-nil when the resource failed entirely
}

// SyncResult contains all data from a full cache sync.
type SyncResult struct {
	Results         []ResourceSyncResult
	TotalFetched    int
	TotalCached     int
	FailedResources int
}

// SyncOpts contains configuration for cache syncs.
type SyncOpts struct {
	Resources []models.Resource // Resources to sync (default: both)
	RateLimit float64           // Requests per second (default: 5)
	Replace   bool              // Clear each resource's cache before writing
}

// ExportOpts contains configuration for listing exports.
type ExportOpts struct {
	Resources  []models.Resource // Resources to export (default: both)
	Filters    models.Filters    // Applied to each listing fetch
	Format     string            // json, csv, markdown, txt (default: json)
	OutputDir  string            // Base output directory (default: troopmedia_export_{epoch})
	NumWorkers int               // Concurrent writers (default: 2)
	RateLimit  float64           // Requests per second (default: 5)
	FromCache  bool              // Read listings from the local cache instead of the API
}

// ResourceExportResult reports the outcome of exporting one resource.
type ResourceExportResult struct {
	Resource models.Resource
	File     string
	Items    int
	Success  bool
	Error    error
}

// ExportResult contains all data from a bulk listing export.
type ExportResult struct {
	OutputDirectory   string
	Results           []ResourceExportResult
	SuccessfulExports int
	FailedExports     int
	ManifestPath      string
}

// SyncEngine defines bulk operations over the content collections.
type SyncEngine interface {
	// Sync pulls remote listings into the local cache.
	Sync(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error)

	// Export writes content listings to disk in the requested format.
	Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error)
}

// ContentEngine implements SyncEngine over the content API and local cache.
type ContentEngine struct {
	svc   services.ContentService
	cache ContentCache
}

// NewContentEngine creates a new ContentEngine with the provided service and cache.
func NewContentEngine(svc services.ContentService, cache ContentCache) *ContentEngine {
	return &ContentEngine{svc: svc, cache: cache}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ContentEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func defaultResources(resources []models.Resource) []models.Resource {
	if len(resources) == 0 {
		return []models.Resource{models.ResourceMusic, models.ResourceScout}
	}
	return resources
}

// Sync fetches each resource's listing and upserts every item into the cache.
//
// A resource that fails to fetch is recorded in the result and does not stop
// the remaining resources. Individual cache write failures abort that
// resource's sync since a half-written cache is worse than a stale one.
func (e *ContentEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate, opts SyncOpts) (*SyncResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: content service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil {
		return nil, fmt.Errorf("%w: content cache not initialized", shared.ErrServiceUnavailable)
	}

	resources := defaultResources(opts.Resources)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	result := &SyncResult{Results: make([]ResourceSyncResult, 0, len(resources))}

	for i, resource := range resources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, fetchingResourceUpdate(i+1, len(resources), resource))

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		res := e.syncResource(ctx, progress, resource, opts.Replace)
		result.Results = append(result.Results, res)
		result.TotalFetched += res.Fetched
		result.TotalCached += res.Cached
		if res.Error != nil {
			result.FailedResources++
		} else {
			e.sendProgress(progress, fetchedResourceUpdate(i+1, len(resources), resource, res.Fetched))
		}
	}

	return result, nil
}

func (e *ContentEngine) syncResource(ctx context.Context, progress chan<- ProgressUpdate, resource models.Resource, replace bool) ResourceSyncResult {
	res := ResourceSyncResult{Resource: resource}

	items, err := e.fetchCacheable(ctx, resource, models.Filters{})
	if err != nil {
		res.Error = fmt.Errorf("failed to fetch %s listing: %w", resource, err)
		return res
	}
	res.Fetched = len(items)

	if replace {
		cleared, err := e.cache.Clear(resource)
		if err != nil {
			res.Error = fmt.Errorf("failed to clear %s cache: %w", resource, err)
			return res
		}
		res.Cleared = cleared
	}

	for i := range items {
		e.sendProgress(progress, cachingItemUpdate(i+1, len(items), items[i].Name))
		if err := e.cache.Upsert(&items[i]); err != nil {
			res.Error = fmt.Errorf("failed to cache %s item %d: %w", resource, items[i].RemoteID, err)
			return res
		}
		res.Cached++
	}

	return res
}

// fetchCacheable retrieves a listing and wraps each item for cache insertion.
func (e *ContentEngine) fetchCacheable(ctx context.Context, resource models.Resource, filters models.Filters) ([]models.CachedItem, error) {
	switch resource {
	case models.ResourceMusic:
		listing, err := e.svc.ListMusic(ctx, filters)
		if err != nil {
			return nil, err
		}
		items := make([]models.CachedItem, 0, len(listing))
		for _, m := range listing {
			item, err := models.NewCachedMusic(m)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case models.ResourceScout:
		listing, err := e.svc.ListScout(ctx, filters)
		if err != nil {
			return nil, err
		}
		items := make([]models.CachedItem, 0, len(listing))
		for _, s := range listing {
			item, err := models.NewCachedScout(s)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidArgument, resource)
	}
}

// exportJob carries one fetched listing to the writer pool.
type exportJob struct {
	resource models.Resource
	listing  formatter.Listing
}

// Export fetches listings and writes them concurrently with rate limiting and
// progress tracking.
//
// Listing fetches are sequential and rate limited; rendering and file writes
// run on a bounded worker pool. A manifest file summarizing the export is
// written last.
func (e *ContentEngine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if e.svc == nil && !opts.FromCache {
		return nil, fmt.Errorf("%w: content service not initialized", shared.ErrServiceUnavailable)
	}
	if e.cache == nil && opts.FromCache {
		return nil, fmt.Errorf("%w: content cache not initialized", shared.ErrServiceUnavailable)
	}

	resources := defaultResources(opts.Resources)
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("troopmedia_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 4 {
		opts.NumWorkers = 4
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		OutputDirectory: opts.OutputDir,
		Results:         make([]ResourceExportResult, 0, len(resources)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(resources))
	results := make(chan ResourceExportResult, len(resources))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(&wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, resource := range resources {
			if ctx.Err() != nil {
				return
			}

			e.sendProgress(progress, fetchingResourceUpdate(i+1, len(resources), resource))

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			listing, err := e.fetchListing(ctx, resource, opts.Filters, opts.FromCache)
			if err != nil {
				results <- ResourceExportResult{
					Resource: resource,
					Error:    fmt.Errorf("failed to fetch %s listing: %w", resource, err),
				}
				continue
			}

			jobs <- exportJob{resource: resource, listing: listing}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(progress, exportCompletedUpdate(completed, len(resources), res.Resource, res.File))
		} else {
			result.FailedExports++
			e.sendProgress(progress, exportFailedUpdate(completed, len(resources), res.Resource, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker renders and writes listings from the jobs channel.
func (e *ContentEngine) exportWorker(wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- ResourceExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		res := ResourceExportResult{Resource: job.resource, Items: job.listing.Len()}

		path := filepath.Join(opts.OutputDir, string(job.resource))
		written, err := formatter.WriteExport(job.listing, opts.Format, exportPath(path, opts.Format))
		if err != nil {
			res.Error = err
			results <- res
			continue
		}

		res.File = written
		res.Success = true
		results <- res
	}
}

// fetchListing builds a formatter.Listing from either the API or the cache.
func (e *ContentEngine) fetchListing(ctx context.Context, resource models.Resource, filters models.Filters, fromCache bool) (formatter.Listing, error) {
	listing := formatter.Listing{Resource: resource, FetchedAt: time.Now().UTC()}

	if fromCache {
		cached, err := e.cache.List(resource, filters)
		if err != nil {
			return listing, err
		}
		for _, item := range cached {
			switch resource {
			case models.ResourceMusic:
				m, err := item.Music()
				if err != nil {
					return listing, err
				}
				listing.Music = append(listing.Music, m)
			case models.ResourceScout:
				s, err := item.Scout()
				if err != nil {
					return listing, err
				}
				listing.Scout = append(listing.Scout, s)
			}
		}
		return listing, nil
	}

	switch resource {
	case models.ResourceMusic:
		items, err := e.svc.ListMusic(ctx, filters)
		if err != nil {
			return listing, err
		}
		listing.Music = items
	case models.ResourceScout:
		items, err := e.svc.ListScout(ctx, filters)
		if err != nil {
			return listing, err
		}
		listing.Scout = items
	default:
		return listing, fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidArgument, resource)
	}

	return listing, nil
}

func exportPath(base, format string) string {
	switch format {
	case "csv":
		return base + ".csv"
	case "markdown", "md":
		return base + ".md"
	case "txt", "text":
		return base + ".txt"
	default:
		return base + ".json"
	}
}

type manifestEntry struct {
	Resource string `json:"resource"`
	File     string `json:"file,omitempty"`
	Items    int    `json:"items"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

type manifest struct {
	Format     string          `json:"format"`
	ExportedAt time.Time       `json:"exported_at"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Entries    []manifestEntry `json:"entries"`
}

func writeManifest(result *ExportResult, format, path string) error {
	if format == "" {
		format = "json"
	}

	m := manifest{
		Format:     format,
		ExportedAt: time.Now().UTC(),
		Successful: result.SuccessfulExports,
		Failed:     result.FailedExports,
		Entries:    make([]manifestEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := manifestEntry{
			Resource: string(res.Resource),
			File:     res.File,
			Items:    res.Items,
			Success:  res.Success,
		}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Entries = append(m.Entries, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
