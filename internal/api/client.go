// Package api is the content source adapter for the Ink&Echoes platform:
// a typed client over its REST API. Pure request/response, no local logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds every request so a dead backend surfaces as a
	// load failure instead of a view stuck in "loading".
	DefaultTimeout = 15 * time.Second

	basePath = "/api/v1"
)

// Client talks to an Ink&Echoes API server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	// progressLimiter caps writes to the single-row progress resource.
	progressLimiter *rate.Limiter
}

// New creates a client for the server at baseURL. token may be empty for
// anonymous reading; bookmark and progress calls then fail server-side.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:         baseURL,
		token:           token,
		http:            &http.Client{Timeout: DefaultTimeout},
		progressLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// GetWork fetches a Work with its flat content body.
func (c *Client) GetWork(ctx context.Context, workID int) (Work, error) {
	var w Work
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", workID), nil, &w)
	return w, err
}

// ListChapters fetches the ordered chapter list of a Work. Bodies are not
// included; fetch them per chapter with GetChapter.
func (c *Client) ListChapters(ctx context.Context, workID int) ([]Chapter, error) {
	var chs []Chapter
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chapters/post/%d", workID), nil, &chs)
	return chs, err
}

// GetChapter fetches a single chapter including its content body.
func (c *Client) GetChapter(ctx context.Context, chapterID int) (Chapter, error) {
	var ch Chapter
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chapters/%d", chapterID), nil, &ch)
	return ch, err
}

// GetBookmark fetches the caller's bookmark for a Work. A missing bookmark
// is a normal state, returned as (nil, nil).
func (c *Client) GetBookmark(ctx context.Context, workID int) (*Bookmark, error) {
	var bm Bookmark
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookmarks/post/%d", workID), nil, &bm)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bm, nil
}

// CreateBookmark creates a bookmark at the given position.
func (c *Client) CreateBookmark(ctx context.Context, create BookmarkCreate) (*Bookmark, error) {
	var bm Bookmark
	if err := c.do(ctx, http.MethodPost, "/bookmarks", create, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

// UpdateBookmark patches an existing bookmark.
func (c *Client) UpdateBookmark(ctx context.Context, id int, patch BookmarkUpdate) (*Bookmark, error) {
	var bm Bookmark
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/bookmarks/%d", id), patch, &bm); err != nil {
		return nil, err
	}
	return &bm, nil
}

// DeleteBookmark removes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookmarks/%d", id), nil, nil)
}

// GetProgress fetches the caller's reading progress for a Work. First-time
// readers have none; that is returned as (nil, nil).
func (c *Client) GetProgress(ctx context.Context, workID int) (*ReadingProgress, error) {
	var p ReadingProgress
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/reading-progress/post/%d", workID), nil, &p)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProgress pushes a progress patch and returns the updated record.
// Writes are rate limited; the limiter wait respects ctx.
func (c *Client) UpdateProgress(ctx context.Context, workID int, patch ProgressUpdate) (*ReadingProgress, error) {
	if err := c.progressLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	var p ReadingProgress
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/reading-progress/post/%d", workID), patch, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetStats fetches the caller's aggregate reading statistics.
func (c *Client) GetStats(ctx context.Context) (ReadingStats, error) {
	var s ReadingStats
	err := c.do(ctx, http.MethodGet, "/reading-progress/stats", nil, &s)
	return s, err
}

// do performs one request. body, if non-nil, is JSON encoded; out, if
// non-nil, receives the decoded response. 404 maps to ErrNotFound, other
// non-2xx statuses to *APIError with the server's detail message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf *bytes.Buffer
	if body != nil {
		buf = &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	url := c.baseURL + basePath + path
	var req *http.Request
	var err error
	if buf != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, buf)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &APIError{StatusCode: resp.StatusCode, Detail: detail.Detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
