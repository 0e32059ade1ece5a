package roblox

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// BanTime is the ban expiry stored in the moderation datastore. On the
// wire it is either a unix-seconds number or the literal string
// "Forever"; the game server treats any non-numeric value as permanent.
type BanTime struct {
	Forever bool
	Until   int64
}

// Forever is the permanent-ban wire value.
const foreverLiteral = `"Forever"`

func (t BanTime) MarshalJSON() ([]byte, error) {
	if t.Forever {
		return []byte(foreverLiteral), nil
	}
	return json.Marshal(t.Until)
}

func (t *BanTime) UnmarshalJSON(data []byte) error {
	if string(data) == foreverLiteral {
		*t = BanTime{Forever: true}
		return nil
	}
	var sec int64
	if err := json.Unmarshal(data, &sec); err != nil {
		return fmt.Errorf("roblox: invalid ban time %s: %w", data, err)
	}
	*t = BanTime{Until: sec}
	return nil
}

// BanEntry is the moderation record the game server reads on player join.
// Field names match the entries the in-game ban script already stores.
type BanEntry struct {
	Banned bool    `json:"Banned"`
	Time   BanTime `json:"Time"`
}

// SetEntry writes a JSON value into a standard datastore under the given
// key. userID, when non-zero, is attached as the entry's associated user
// for GDPR tracking.
func (c *Client) SetEntry(ctx context.Context, datastore, key string, value any, userID int64) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("roblox: marshal datastore entry: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/datastores/v1/universes/%s/standard-datastores/datastore/entries/entry?datastoreName=%s&entryKey=%s",
		c.cloudBase, c.universeID, url.QueryEscape(datastore), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("roblox: build datastore write: %w", err)
	}

	// Open Cloud requires the body checksum as base64 MD5.
	sum := md5.Sum(payload)
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("content-md5", base64.StdEncoding.EncodeToString(sum[:]))
	if userID != 0 {
		req.Header.Set("roblox-entry-userids", fmt.Sprintf("[%d]", userID))
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("roblox: datastore write: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Debug("datastore entry written", "datastore", datastore, "key", key)
	return nil
}

// Entry reads a JSON value from a standard datastore into out. A missing
// key surfaces as an *HTTPError with status 404.
func (c *Client) Entry(ctx context.Context, datastore, key string, out any) error {
	endpoint := fmt.Sprintf(
		"%s/datastores/v1/universes/%s/standard-datastores/datastore/entries/entry?datastoreName=%s&entryKey=%s",
		c.cloudBase, c.universeID, url.QueryEscape(datastore), url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("roblox: build datastore read: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("roblox: datastore read: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("roblox: decode datastore entry: %w", err)
	}
	return nil
}
