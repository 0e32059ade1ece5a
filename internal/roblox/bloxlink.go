package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const defaultBloxlinkBase = "https://api.blox.link"

// BloxlinkClient resolves Discord accounts to linked Roblox accounts
// through the Bloxlink public API.
type BloxlinkClient struct {
	key   string
	base  string
	httpc *http.Client
}

// NewBloxlinkClient creates a Bloxlink client with the given API key.
func NewBloxlinkClient(key string) *BloxlinkClient {
	return &BloxlinkClient{
		key:   key,
		base:  defaultBloxlinkBase,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetBaseURL points the client at an alternate host. Used by tests.
func (b *BloxlinkClient) SetBaseURL(base string) {
	b.base = base
}

// RobloxID returns the Roblox user ID linked to the Discord user within
// the guild. An unlinked account surfaces as an *HTTPError with the
// Bloxlink error body.
func (b *BloxlinkClient) RobloxID(ctx context.Context, guildID, discordID string) (int64, error) {
	endpoint := fmt.Sprintf("%s/v4/public/guilds/%s/discord-to-roblox/%s", b.base, guildID, discordID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("roblox: build bloxlink lookup: %w", err)
	}
	req.Header.Set("Authorization", b.key)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("roblox: bloxlink lookup: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	var body struct {
		RobloxID string `json:"robloxID"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("roblox: decode bloxlink response: %w", err)
	}
	if body.RobloxID == "" {
		return 0, fmt.Errorf("roblox: bloxlink returned no linked account")
	}
	id, err := strconv.ParseInt(body.RobloxID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("roblox: bloxlink returned bad id %q: %w", body.RobloxID, err)
	}
	return id, nil
}
