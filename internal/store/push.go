package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// Pusher upserts a batch of events into a Store one record at a time.
// Each record is isolated: a failed upsert counts as an error and the
// batch keeps going.
type Pusher struct {
	Store  Store
	Logger zerolog.Logger
	// Delay between records, respecting the backend's rate limit.
	Delay time.Duration
}

// Push upserts every event keyed by its source_event_id and returns the
// created/updated/error counters.
func (p *Pusher) Push(ctx context.Context, events []models.Event) models.PushResult {
	var result models.PushResult

	for i, event := range events {
		if err := ctx.Err(); err != nil {
			p.Logger.Warn().Err(err).Int("remaining", len(events)-i).Msg("push aborted")
			result.Errors += len(events) - i
			break
		}

		if err := p.upsert(ctx, event, &result); err != nil {
			result.Errors++
			p.Logger.Error().Err(err).
				Str("source_event_id", event.SourceEventID).
				Str("title", event.Title).
				Msg("upsert failed")
		}

		if (i+1)%10 == 0 {
			p.Logger.Info().Int("done", i+1).Int("total", len(events)).Msg("push progress")
		}
		if p.Delay > 0 && i < len(events)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(p.Delay):
			}
		}
	}

	p.Logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Msg("push finished")
	return result
}

func (p *Pusher) upsert(ctx context.Context, event models.Event, result *models.PushResult) error {
	existing, err := p.Store.FindBySourceEventID(ctx, event.SourceEventID)
	if err != nil {
		return err
	}
	if existing == nil {
		if err := p.Store.Create(ctx, event); err != nil {
			return err
		}
		result.Created++
		return nil
	}
	if err := p.Store.Update(ctx, existing.ID, event); err != nil {
		return err
	}
	result.Updated++
	return nil
}
