package drivestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// Config holds the Microsoft Graph client-credentials settings for the
// document drive.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveID      string
	BaseURL      string // override for testing; defaults to the Graph v1.0 endpoint
}

// Client talks to a single Microsoft Graph drive.
type Client struct {
	httpClient *http.Client
	baseURL    string
	driveID    string
}

// New creates a drive client authenticating with client credentials.
func New(ctx context.Context, cfg Config) *Client {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = 30 * time.Second

	return NewFromHTTP(httpClient, cfg)
}

// NewFromHTTP creates a drive client over a pre-configured HTTP client.
func NewFromHTTP(httpClient *http.Client, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		driveID:    cfg.DriveID,
	}
}

// EnsureFolder creates the named folder under parentPath if it does not
// already exist, and returns it either way. parentPath "" means the drive root.
func (c *Client) EnsureFolder(ctx context.Context, parentPath, name string) (Item, error) {
	body, err := json.Marshal(map[string]interface{}{
		"name":                              name,
		"folder":                            map[string]interface{}{},
		"@microsoft.graph.conflictBehavior": "fail",
	})
	if err != nil {
		return Item{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, c.childrenURL(parentPath), "application/json", bytes.NewReader(body))
	if err != nil {
		return Item{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		// Already present; look it up among the parent's children.
		return c.findChild(ctx, parentPath, name)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return Item{}, c.apiError("create folder", resp)
	}

	return decodeItem(resp.Body)
}

// Upload writes content to the item at path, creating or replacing it.
func (c *Client) Upload(ctx context.Context, path string, content []byte) (Item, error) {
	u := fmt.Sprintf("%s/drives/%s/root:/%s:/content", c.baseURL, c.driveID, escapePath(path))

	resp, err := c.do(ctx, http.MethodPut, u, "application/octet-stream", bytes.NewReader(content))
	if err != nil {
		return Item{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return Item{}, c.apiError("upload", resp)
	}

	return decodeItem(resp.Body)
}

// ListChildren returns the items directly under path. Path "" lists the root.
func (c *Client) ListChildren(ctx context.Context, path string) ([]Item, error) {
	resp, err := c.do(ctx, http.MethodGet, c.childrenURL(path), "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("list children", resp)
	}

	var children childrenResponse
	if err := json.NewDecoder(resp.Body).Decode(&children); err != nil {
		return nil, fmt.Errorf("failed to decode children response: %w", err)
	}

	items := make([]Item, 0, len(children.Value))
	for _, raw := range children.Value {
		items = append(items, toItem(raw))
	}
	return items, nil
}

func (c *Client) findChild(ctx context.Context, parentPath, name string) (Item, error) {
	items, err := c.ListChildren(ctx, parentPath)
	if err != nil {
		return Item{}, err
	}
	for _, it := range items {
		if it.Name == name {
			return it, nil
		}
	}
	return Item{}, fmt.Errorf("folder %q reported as existing but not found under %q", name, parentPath)
}

func (c *Client) childrenURL(path string) string {
	if path == "" {
		return fmt.Sprintf("%s/drives/%s/root/children", c.baseURL, c.driveID)
	}
	return fmt.Sprintf("%s/drives/%s/root:/%s:/children", c.baseURL, c.driveID, escapePath(path))
}

func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) apiError(op string, resp *http.Response) error {
	var apiErr errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("drive %s: %s (%s)", op, apiErr.Error.Message, apiErr.Error.Code)
	}
	return fmt.Errorf("drive %s: unexpected status %d", op, resp.StatusCode)
}

func decodeItem(r io.Reader) (Item, error) {
	var raw itemResponse
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Item{}, fmt.Errorf("failed to decode item response: %w", err)
	}
	return toItem(raw), nil
}

func toItem(raw itemResponse) Item {
	return Item{
		ID:       raw.ID,
		Name:     raw.Name,
		WebURL:   raw.WebURL,
		Size:     raw.Size,
		IsFolder: raw.Folder != nil,
	}
}

// escapePath percent-escapes each path segment, keeping the separators.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
