package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/service"
)

// Client talks to the REST API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateSession starts a session with the given rule set; empty selects the
// server default
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// State fetches the current view of a session
func (c *Client) State(ctx context.Context, sessionID string) (*engine.GameView, error) {
	var view engine.GameView
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID+"/state", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// SelectDifficulty deals a deck of difficulty d
func (c *Client) SelectDifficulty(ctx context.Context, sessionID string, d engine.Difficulty) (*service.ActionResult, error) {
	return c.action(ctx, sessionID, "difficulty", map[string]string{"difficulty": string(d)})
}

// Flip selects the card at index
func (c *Client) Flip(ctx context.Context, sessionID string, index int) (*service.ActionResult, error) {
	return c.action(ctx, sessionID, "flip", map[string]int{"index": index})
}

// Reset redeals at the current difficulty
func (c *Client) Reset(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	return c.action(ctx, sessionID, "reset", nil)
}

func (c *Client) action(ctx context.Context, sessionID, name string, body interface{}) (*service.ActionResult, error) {
	var result service.ActionResult
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+sessionID+"/"+name, body, &result); err != nil {
		return nil, err
	}
	if result.GameState == nil {
		return nil, fmt.Errorf("%s: response has no game state", name)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
