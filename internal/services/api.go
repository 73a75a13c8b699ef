package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tbakr/troopmedia/internal/auth"
	"github.com/tbakr/troopmedia/internal/models"
	"github.com/tbakr/troopmedia/internal/shared"
)

var _ ContentService = (*ContentAPI)(nil)

// ContentAPI is the HTTP implementation of [ContentService].
//
// Requests carry "Authorization: Bearer <access>" whenever the injected token
// store holds an access token; without one the request goes out
// unauthenticated and the server is expected to reject it.
type ContentAPI struct {
	baseURL    string
	httpClient *http.Client
	tokens     *auth.TokenStore
}

// NewContentAPI creates a client for the content API rooted at baseURL
// (e.g. "http://localhost:8000/api", no trailing slash).
func NewContentAPI(baseURL string, client *http.Client, tokens *auth.TokenStore) *ContentAPI {
	if baseURL == "" {
		baseURL = "http://localhost:8000/api"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &ContentAPI{
		baseURL:    baseURL,
		httpClient: client,
		tokens:     tokens,
	}
}

// Login exchanges credentials at POST /token/ and returns both tokens.
// Nothing is persisted here; the caller decides what to do with the pair.
func (c *ContentAPI) Login(ctx context.Context, username, password string) (TokenPair, error) {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token/", bytes.NewReader(payload))
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return TokenPair{}, decodeAPIError(resp.StatusCode, body)
	}

	var pair TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if pair.Access == "" || pair.Refresh == "" {
		return TokenPair{}, fmt.Errorf("%w: no tokens received", shared.ErrAuthFailed)
	}

	return pair, nil
}

// ListMusic retrieves music entries, with empty filter values omitted from the query.
func (c *ContentAPI) ListMusic(ctx context.Context, f models.Filters) ([]models.MusicItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.listPath(models.ResourceMusic, f), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[models.MusicItem](body)
}

// CreateMusic submits a new music entry as multipart form data.
func (c *ContentAPI) CreateMusic(ctx context.Context, in MusicInput) (models.MusicItem, error) {
	return c.writeMusic(ctx, http.MethodPost, c.itemPath(models.ResourceMusic, 0), in)
}

// UpdateMusic replaces the entry with the given id. File fields without a
// newly chosen path are absent from the payload, which leaves the stored
// files untouched server-side.
func (c *ContentAPI) UpdateMusic(ctx context.Context, id int, in MusicInput) (models.MusicItem, error) {
	return c.writeMusic(ctx, http.MethodPut, c.itemPath(models.ResourceMusic, id), in)
}

// DeleteMusic removes the entry with the given id.
func (c *ContentAPI) DeleteMusic(ctx context.Context, id int) error {
	_, err := c.doRequest(ctx, http.MethodDelete, c.itemPath(models.ResourceMusic, id), nil, "")
	return err
}

// ListScout retrieves scout technique entries, with empty filter values omitted.
func (c *ContentAPI) ListScout(ctx context.Context, f models.Filters) ([]models.ScoutItem, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.listPath(models.ResourceScout, f), nil, "")
	if err != nil {
		return nil, err
	}
	return decodeList[models.ScoutItem](body)
}

// CreateScout submits a new scout technique entry as multipart form data.
func (c *ContentAPI) CreateScout(ctx context.Context, in ScoutInput) (models.ScoutItem, error) {
	return c.writeScout(ctx, http.MethodPost, c.itemPath(models.ResourceScout, 0), in)
}

// UpdateScout replaces the entry with the given id, preserving stored files
// for which no new path was chosen.
func (c *ContentAPI) UpdateScout(ctx context.Context, id int, in ScoutInput) (models.ScoutItem, error) {
	return c.writeScout(ctx, http.MethodPut, c.itemPath(models.ResourceScout, id), in)
}

// DeleteScout removes the entry with the given id.
func (c *ContentAPI) DeleteScout(ctx context.Context, id int) error {
	_, err := c.doRequest(ctx, http.MethodDelete, c.itemPath(models.ResourceScout, id), nil, "")
	return err
}

func (c *ContentAPI) writeMusic(ctx context.Context, method, path string, in MusicInput) (models.MusicItem, error) {
	body, contentType, err := encodeMultipart(in.textFields(), in.fileFields())
	if err != nil {
		return models.MusicItem{}, err
	}

	respBody, err := c.doRequest(ctx, method, path, body, contentType)
	if err != nil {
		return models.MusicItem{}, err
	}

	var item models.MusicItem
	if err := json.Unmarshal(respBody, &item); err != nil {
		return models.MusicItem{}, fmt.Errorf("failed to decode music item: %w", err)
	}
	return item, nil
}

func (c *ContentAPI) writeScout(ctx context.Context, method, path string, in ScoutInput) (models.ScoutItem, error) {
	body, contentType, err := encodeMultipart(in.textFields(), in.fileFields())
	if err != nil {
		return models.ScoutItem{}, err
	}

	respBody, err := c.doRequest(ctx, method, path, body, contentType)
	if err != nil {
		return models.ScoutItem{}, err
	}

	var item models.ScoutItem
	if err := json.Unmarshal(respBody, &item); err != nil {
		return models.ScoutItem{}, fmt.Errorf("failed to decode scout item: %w", err)
	}
	return item, nil
}

// listPath builds "/content/<resource>/?<filters>" with empty filters omitted.
func (c *ContentAPI) listPath(resource models.Resource, f models.Filters) string {
	path := fmt.Sprintf("%s/content/%s/", c.baseURL, resource)
	if params := f.Values(); len(params) > 0 {
		path += "?" + params.Encode()
	}
	return path
}

// itemPath builds "/content/<resource>/<id>/", or the collection path when id is 0.
func (c *ContentAPI) itemPath(resource models.Resource, id int) string {
	if id == 0 {
		return fmt.Sprintf("%s/content/%s/", c.baseURL, resource)
	}
	return fmt.Sprintf("%s/content/%s/%d/", c.baseURL, resource, id)
}

// doRequest performs one request, attaching the bearer token when present,
// and returns the response body. Non-2xx responses come back as [*APIError].
func (c *ContentAPI) doRequest(ctx context.Context, method, fullURL string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.tokens != nil {
		token, err := c.tokens.Get(auth.AccessTokenKey)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// decodeList handles both response shapes the API produces: a plain array and
// a paginated object with a "results" key.
func decodeList[T any](body []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}
	return page.Results, nil
}

// encodeMultipart builds a multipart/form-data body from text fields (always
// present) and file fields (read from local paths, present only when chosen).
func encodeMultipart(fields map[string]string, files map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for name, path := range files {
		if err := writeFilePart(writer, name, path); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func writeFilePart(writer *multipart.Writer, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s file: %w", name, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(name, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", name, err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s contents: %w", name, err)
	}
	return nil
}
