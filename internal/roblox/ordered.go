package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// OrderedEntry is one entry of an ordered datastore page.
type OrderedEntry struct {
	Path  string `json:"path"`
	ID    string `json:"id"`
	Value int64  `json:"value"`
}

// IncrementOrdered adds amount to an ordered datastore entry, creating
// it when absent. Returns the new value.
func (c *Client) IncrementOrdered(ctx context.Context, datastore, key string, amount int64) (int64, error) {
	payload, err := json.Marshal(map[string]int64{"amount": amount})
	if err != nil {
		return 0, fmt.Errorf("roblox: marshal increment: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/ordered-data-stores/v1/universes/%s/orderedDataStores/%s/scopes/global/entries/%s:increment",
		c.cloudBase, c.universeID, url.PathEscape(datastore), url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("roblox: build increment: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roblox: ordered increment: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	var entry OrderedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return 0, fmt.Errorf("roblox: decode increment response: %w", err)
	}
	return entry.Value, nil
}

// TopOrdered reads the highest-valued entries of an ordered datastore,
// following pagination until limit entries are collected or the store is
// exhausted.
func (c *Client) TopOrdered(ctx context.Context, datastore string, limit int) ([]OrderedEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	base := fmt.Sprintf(
		"%s/ordered-data-stores/v1/universes/%s/orderedDataStores/%s/scopes/global/entries",
		c.cloudBase, c.universeID, url.PathEscape(datastore))

	var entries []OrderedEntry
	pageToken := ""
	for len(entries) < limit {
		pageSize := limit - len(entries)
		if pageSize > 100 {
			pageSize = 100
		}
		endpoint := fmt.Sprintf("%s?max_page_size=%d&order_by=desc", base, pageSize)
		if pageToken != "" {
			endpoint += "&page_token=" + url.QueryEscape(pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("roblox: build leaderboard read: %w", err)
		}
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("roblox: leaderboard read: %w", err)
		}
		var page struct {
			Entries       []OrderedEntry `json:"entries"`
			NextPageToken string         `json:"nextPageToken"`
		}
		err = func() error {
			defer resp.Body.Close()
			if err := checkStatus(resp); err != nil {
				return err
			}
			if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
				return fmt.Errorf("roblox: decode leaderboard page: %w", err)
			}
			return nil
		}()
		if err != nil {
			return nil, err
		}

		entries = append(entries, page.Entries...)
		if page.NextPageToken == "" || len(page.Entries) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
