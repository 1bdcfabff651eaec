package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/network"
)

// Webhook posts the whole batch to a remote ingestion endpoint that does
// its own dedup, an alternative to writing Airtable directly.
type Webhook struct {
	client *network.Client
	url    string
}

func NewWebhook(client *network.Client, url string) *Webhook {
	return &Webhook{client: client, url: url}
}

type webhookResponse struct {
	Success bool `json:"success"`
	Results struct {
		Created int      `json:"created"`
		Updated int      `json:"updated"`
		Errors  []string `json:"errors"`
	} `json:"results"`
}

// Send submits events in one request and maps the endpoint's counters
// onto a PushResult.
func (w *Webhook) Send(ctx context.Context, events []models.Event) (models.PushResult, error) {
	var result models.PushResult
	if len(events) == 0 {
		return result, nil
	}

	payload, err := json.Marshal(events)
	if err != nil {
		return result, err
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return result, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("webhook: status %d: %s", resp.StatusCode, truncateBody(body))
	}

	var decoded webhookResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return result, fmt.Errorf("decode webhook response: %w", err)
	}
	if !decoded.Success {
		return result, fmt.Errorf("webhook rejected batch: %s", truncateBody(body))
	}

	result.Created = decoded.Results.Created
	result.Updated = decoded.Results.Updated
	result.Errors = len(decoded.Results.Errors)
	return result, nil
}
