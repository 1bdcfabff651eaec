package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
	"github.com/tayseermbabiker/usa-events-board/internal/network"
)

const airtableAPI = "https://api.airtable.com/v0"

// Airtable talks to one table of one base. Records are keyed for upsert
// purposes by their source_event_id field, never by Airtable's own ids.
type Airtable struct {
	client *network.Client
	apiKey string
	baseID string
	table  string
}

func NewAirtable(client *network.Client, apiKey, baseID, table string) *Airtable {
	return &Airtable{client: client, apiKey: apiKey, baseID: baseID, table: table}
}

func (a *Airtable) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", airtableAPI, a.baseID, url.PathEscape(a.table))
}

type airtableRecord struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type airtableList struct {
	Records []airtableRecord `json:"records"`
}

func (a *Airtable) FindBySourceEventID(ctx context.Context, sourceEventID string) (*Record, error) {
	query := url.Values{}
	query.Set("filterByFormula", fmt.Sprintf(`{source_event_id} = %q`, sourceEventID))
	query.Set("maxRecords", "1")

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, a.tableURL()+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	body, err := a.do(req)
	if err != nil {
		return nil, err
	}

	var list airtableList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode list response: %w", err)
	}
	if len(list.Records) == 0 {
		return nil, nil
	}
	return &Record{ID: list.Records[0].ID, Fields: eventFromFields(list.Records[0].Fields)}, nil
}

func (a *Airtable) Create(ctx context.Context, event models.Event) error {
	payload, err := json.Marshal(map[string]any{
		"records": []airtableRecord{{Fields: fieldsFromEvent(event)}},
	})
	if err != nil {
		return err
	}
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, a.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	_, err = a.do(req)
	return err
}

func (a *Airtable) Update(ctx context.Context, id string, event models.Event) error {
	payload, err := json.Marshal(map[string]any{
		"records": []airtableRecord{{ID: id, Fields: fieldsFromEvent(event)}},
	})
	if err != nil {
		return err
	}
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPatch, a.tableURL(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	_, err = a.do(req)
	return err
}

func (a *Airtable) do(req *fhttp.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	if req.Method != fhttp.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("airtable %s: status %d: %s", req.Method, resp.StatusCode, truncateBody(body))
	}
	return body, nil
}

// fieldsFromEvent builds the Airtable field map, leaving optional empty
// values out so they do not blank existing cells on update.
func fieldsFromEvent(event models.Event) map[string]any {
	fields := map[string]any{
		"title":            event.Title,
		"description":      event.Description,
		"start_date":       event.StartDate,
		"city":             event.City,
		"industry":         event.Industry,
		"is_free":          event.IsFree,
		"registration_url": event.RegistrationURL,
		"source":           event.Source,
		"source_event_id":  event.SourceEventID,
	}
	setIfPresent(fields, "end_date", event.EndDate)
	setIfPresent(fields, "venue_name", event.VenueName)
	setIfPresent(fields, "venue_address", event.VenueAddress)
	setIfPresent(fields, "organizer", event.Organizer)
	setIfPresent(fields, "image_url", event.ImageURL)
	return fields
}

func setIfPresent(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

func eventFromFields(fields map[string]any) models.Event {
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	free, _ := fields["is_free"].(bool)
	return models.Event{
		Title:           str("title"),
		Description:     str("description"),
		StartDate:       str("start_date"),
		EndDate:         str("end_date"),
		VenueName:       str("venue_name"),
		VenueAddress:    str("venue_address"),
		City:            str("city"),
		Organizer:       str("organizer"),
		Industry:        str("industry"),
		IsFree:          free,
		RegistrationURL: str("registration_url"),
		ImageURL:        str("image_url"),
		Source:          str("source"),
		SourceEventID:   str("source_event_id"),
	}
}

func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
