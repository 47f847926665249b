package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rubychat/gamescan/internal/events"
	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/internal/scanner"
)

// Client talks to a running daemon's command API
type Client struct {
	addr string
	http *http.Client
}

// NewClient targets host:port
func NewClient(addr string) *Client {
	return &Client{
		addr: addr,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) Status(ctx context.Context) (*scanner.Status, error) {
	var status scanner.Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) SetEnabled(ctx context.Context, enabled bool) (*scanner.Status, error) {
	var status scanner.Status
	if err := c.do(ctx, http.MethodPut, "/api/scanner", EnabledRequest{Enabled: &enabled}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) Rescan(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/scanner/rescan", nil, nil)
}

func (c *Client) WatchList(ctx context.Context) ([]models.DetectableTarget, error) {
	var targets []models.DetectableTarget
	if err := c.do(ctx, http.MethodGet, "/api/watchlist", nil, &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (c *Client) SetWatchList(ctx context.Context, targets []models.DetectableTarget) error {
	if targets == nil {
		targets = []models.DetectableTarget{}
	}
	return c.do(ctx, http.MethodPut, "/api/watchlist", targets, nil)
}

// Watch streams events until ctx is cancelled or the connection drops
func (c *Client) Watch(ctx context.Context, fn func(events.Envelope)) error {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to websocket: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("websocket error: %w", err)
		}

		var env events.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		fn(env)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, "http://"+c.addr+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", c.addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
