// Package store persists validated events. The Airtable client is the
// production sink; the webhook sink hands the batch to a remote ingestion
// endpoint instead.
package store

import (
	"context"

	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// Record is one stored event with its backend identifier.
type Record struct {
	ID     string
	Fields models.Event
}

// Store is the upsert surface the pusher writes through. FindBySourceEventID
// returns nil when no record matches.
type Store interface {
	FindBySourceEventID(ctx context.Context, sourceEventID string) (*Record, error)
	Create(ctx context.Context, event models.Event) error
	Update(ctx context.Context, id string, event models.Event) error
}
