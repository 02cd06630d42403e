// Package notifstore is the client-side companion of the notification API.
// It keeps one page of a user's notifications plus the unread count in sync
// with the server, and guarantees that out-of-order responses from rapid
// page or filter switching never overwrite newer state.
package notifstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("notifstore: unauthorized")
	ErrNotFound     = errors.New("notifstore: not found")
	ErrServer       = errors.New("notifstore: server error")
)

// Notification mirrors the gateway's wire format.
type Notification struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Title        string          `json:"title"`
	Message      string          `json:"message"`
	Read         bool            `json:"is_read"`
	Data         json.RawMessage `json:"data,omitempty"`
	ProjectID    *uuid.UUID      `json:"project_id,omitempty"`
	ProjectTitle *string         `json:"project_title,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type ListResult struct {
	Data        []Notification `json:"data"`
	Meta        Pagination     `json:"meta"`
	UnreadCount int64          `json:"unread_count"`
}

// GatewayClient is the server contract the store drives.
// *Gateway is the HTTP implementation.
type GatewayClient interface {
	List(ctx context.Context, page, pageSize int, unreadOnly bool) (*ListResult, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllRead(ctx context.Context) error
	UnreadCount(ctx context.Context) (int64, error)
}

// Gateway talks to the notification endpoints with a bearer credential.
type Gateway struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewGateway creates a Gateway for baseURL (e.g. "https://api.desainhub.id/api").
// Requests that do not resolve within the client timeout fail instead of
// leaving the caller with a perpetual loading state.
func NewGateway(baseURL, token string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests, custom timeouts).
func (g *Gateway) SetHTTPClient(c *http.Client) {
	g.client = c
}

func (g *Gateway) List(ctx context.Context, page, pageSize int, unreadOnly bool) (*ListResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if unreadOnly {
		q.Set("unread_only", "true")
	}

	var result ListResult
	if err := g.do(ctx, http.MethodGet, "/notifications?"+q.Encode(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (g *Gateway) MarkRead(ctx context.Context, id uuid.UUID) error {
	return g.do(ctx, http.MethodPatch, "/notifications/"+id.String()+"/read", nil)
}

func (g *Gateway) MarkAllRead(ctx context.Context) error {
	return g.do(ctx, http.MethodPatch, "/notifications/read-all", nil)
}

func (g *Gateway) Delete(ctx context.Context, id uuid.UUID) error {
	return g.do(ctx, http.MethodDelete, "/notifications/"+id.String(), nil)
}

func (g *Gateway) DeleteAllRead(ctx context.Context) error {
	return g.do(ctx, http.MethodDelete, "/notifications/read", nil)
}

func (g *Gateway) UnreadCount(ctx context.Context) (int64, error) {
	var result struct {
		Count int64 `json:"count"`
	}
	if err := g.do(ctx, http.MethodGet, "/notifications/unread-count", &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (g *Gateway) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("notifstore: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %s", ErrUnauthorized, body.Error)
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, body.Error)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: %s", ErrServer, body.Error)
		default:
			return fmt.Errorf("notifstore: unexpected status %d: %s", resp.StatusCode, body.Error)
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("notifstore: failed to decode response: %w", err)
		}
	}
	return nil
}
