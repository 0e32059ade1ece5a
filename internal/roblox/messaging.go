package roblox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Publish sends a message to all live game servers subscribed to the
// topic via the messaging service. The message must fit the service's
// 1KB limit; larger payloads are rejected server-side.
func (c *Client) Publish(ctx context.Context, topic, message string) error {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return fmt.Errorf("roblox: marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/messaging-service/v1/universes/%s/topics/%s",
		c.cloudBase, c.universeID, url.PathEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("roblox: build publish: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("roblox: publish: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}

	c.logger.Debug("message published", "topic", topic)
	return nil
}
