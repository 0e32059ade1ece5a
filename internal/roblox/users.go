package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ResolveID looks up a Roblox user ID by exact username. Banned users
// are excluded; an unknown username returns an error.
func (c *Client) ResolveID(ctx context.Context, username string) (int64, error) {
	payload, err := json.Marshal(map[string]any{
		"usernames":          []string{username},
		"excludeBannedUsers": true,
	})
	if err != nil {
		return 0, fmt.Errorf("roblox: marshal username lookup: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.usersBase+"/v1/usernames/users", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("roblox: build username lookup: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roblox: username lookup: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	var body struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("roblox: decode username lookup: %w", err)
	}
	if len(body.Data) == 0 {
		return 0, fmt.Errorf("roblox: no user named %q", username)
	}

	c.names.Add(body.Data[0].ID, body.Data[0].Name)
	return body.Data[0].ID, nil
}

// Username resolves a user ID to its current username. Results are
// cached; on lookup failure the numeric ID is returned as a displayable
// fallback rather than an error.
func (c *Client) Username(ctx context.Context, userID int64) string {
	if name, ok := c.names.Get(userID); ok {
		return name
	}

	fallback := strconv.FormatInt(userID, 10)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/users/%d", c.usersBase, userID), nil)
	if err != nil {
		return fallback
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("username lookup failed", "user_id", userID, "err", err)
		return fallback
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		c.logger.Warn("username lookup failed", "user_id", userID, "err", err)
		return fallback
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Name == "" {
		return fallback
	}

	c.names.Add(userID, body.Name)
	return body.Name
}

// HeadshotURL fetches the CDN URL for a user's avatar headshot. Returns
// an empty string with no error when the thumbnail is not yet generated.
func (c *Client) HeadshotURL(ctx context.Context, userID int64) (string, error) {
	url := fmt.Sprintf("%s/v1/users/avatar-headshot?userIds=%d&size=150x150&format=Png&isCircular=false",
		c.thumbsBase, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("roblox: build headshot request: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("roblox: headshot lookup: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	var body struct {
		Data []struct {
			State    string `json:"state"`
			ImageURL string `json:"imageUrl"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("roblox: decode headshot lookup: %w", err)
	}
	if len(body.Data) == 0 || body.Data[0].State != "Completed" {
		return "", nil
	}
	return body.Data[0].ImageURL, nil
}
