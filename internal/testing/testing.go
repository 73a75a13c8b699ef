// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/services"
)

// MockContentService is a test double for [services.ContentService].
//
// Each operation delegates to the matching Func field when set and returns
// zero values otherwise. Calls records the operations performed, in order.
type MockContentService struct {
	mu    sync.Mutex
	Calls []string

	LoginFunc       func(ctx context.Context, username, password string) (services.TokenPair, error)
	ListMusicFunc   func(ctx context.Context, f models.Filters) ([]models.MusicItem, error)
	CreateMusicFunc func(ctx context.Context, in services.MusicInput) (models.MusicItem, error)
	UpdateMusicFunc func(ctx context.Context, id int, in services.MusicInput) (models.MusicItem, error)
	DeleteMusicFunc func(ctx context.Context, id int) error
	ListScoutFunc   func(ctx context.Context, f models.Filters) ([]models.ScoutItem, error)
	CreateScoutFunc func(ctx context.Context, in services.ScoutInput) (models.ScoutItem, error)
	UpdateScoutFunc func(ctx context.Context, id int, in services.ScoutInput) (models.ScoutItem, error)
	DeleteScoutFunc func(ctx context.Context, id int) error
}

func (m *MockContentService) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, op)
}

// CallCount returns how many times op was performed.
func (m *MockContentService) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == op {
			n++
		}
	}
	return n
}

func (m *MockContentService) Login(ctx context.Context, username, password string) (services.TokenPair, error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return services.TokenPair{}, nil
}

func (m *MockContentService) ListMusic(ctx context.Context, f models.Filters) ([]models.MusicItem, error) {
	m.record("ListMusic")
	if m.ListMusicFunc != nil {
		return m.ListMusicFunc(ctx, f)
	}
	return []models.MusicItem{}, nil
}

func (m *MockContentService) CreateMusic(ctx context.Context, in services.MusicInput) (models.MusicItem, error) {
	m.record("CreateMusic")
	if m.CreateMusicFunc != nil {
		return m.CreateMusicFunc(ctx, in)
	}
	return models.MusicItem{}, nil
}

func (m *MockContentService) UpdateMusic(ctx context.Context, id int, in services.MusicInput) (models.MusicItem, error) {
	m.record("UpdateMusic")
	if m.UpdateMusicFunc != nil {
		return m.UpdateMusicFunc(ctx, id, in)
	}
	return models.MusicItem{}, nil
}

func (m *MockContentService) DeleteMusic(ctx context.Context, id int) error {
	m.record("DeleteMusic")
	if m.DeleteMusicFunc != nil {
		return m.DeleteMusicFunc(ctx, id)
	}
	return nil
}

func (m *MockContentService) ListScout(ctx context.Context, f models.Filters) ([]models.ScoutItem, error) {
	m.record("ListScout")
	if m.ListScoutFunc != nil {
		return m.ListScoutFunc(ctx, f)
	}
	return []models.ScoutItem{}, nil
}

func (m *MockContentService) CreateScout(ctx context.Context, in services.ScoutInput) (models.ScoutItem, error) {
	m.record("CreateScout")
	if m.CreateScoutFunc != nil {
		return m.CreateScoutFunc(ctx, in)
	}
	return models.ScoutItem{}, nil
}

func (m *MockContentService) UpdateScout(ctx context.Context, id int, in services.ScoutInput) (models.ScoutItem, error) {
	m.record("UpdateScout")
	if m.UpdateScoutFunc != nil {
		return m.UpdateScoutFunc(ctx, id, in)
	}
	return models.ScoutItem{}, nil
}

func (m *MockContentService) DeleteScout(ctx context.Context, id int) error {
	m.record("DeleteScout")
	if m.DeleteScoutFunc != nil {
		return m.DeleteScoutFunc(ctx, id)
	}
	return nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
