package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

type fakeStore struct {
	records   map[string]*Record
	nextID    int
	findErr   error
	createErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]*Record{}}
}

func (f *fakeStore) FindBySourceEventID(_ context.Context, sourceEventID string) (*Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.records[sourceEventID], nil
}

func (f *fakeStore) Create(_ context.Context, event models.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	f.records[event.SourceEventID] = &Record{ID: string(rune('a' + f.nextID)), Fields: event}
	return nil
}

func (f *fakeStore) Update(_ context.Context, id string, event models.Event) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.records[event.SourceEventID] = &Record{ID: id, Fields: event}
	return nil
}

func testEvents() []models.Event {
	return []models.Event{
		{Title: "AI Summit", SourceEventID: "eb-1"},
		{Title: "Legal Forum", SourceEventID: "aca-legal-forum"},
	}
}

func TestPushCreatesNewRecords(t *testing.T) {
	store := newFakeStore()
	pusher := &Pusher{Store: store, Logger: zerolog.Nop()}

	result := pusher.Push(context.Background(), testEvents())
	if result.Created != 2 || result.Updated != 0 || result.Errors != 0 {
		t.Fatalf("result = %+v", result)
	}
	if len(store.records) != 2 {
		t.Fatalf("store holds %d records", len(store.records))
	}
}

func TestPushIsIdempotent(t *testing.T) {
	store := newFakeStore()
	pusher := &Pusher{Store: store, Logger: zerolog.Nop()}
	events := testEvents()

	first := pusher.Push(context.Background(), events)
	second := pusher.Push(context.Background(), events)

	if first.Created != 2 {
		t.Fatalf("first run: %+v", first)
	}
	if second.Created != 0 || second.Updated != 2 {
		t.Fatalf("second run must update, not duplicate: %+v", second)
	}
	if len(store.records) != 2 {
		t.Fatalf("store holds %d records after re-push", len(store.records))
	}
}

func TestPushCountsErrorsAndContinues(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("rate limited")
	pusher := &Pusher{Store: store, Logger: zerolog.Nop()}

	result := pusher.Push(context.Background(), testEvents())
	if result.Errors != 2 || result.Created != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestPushUpdateKeepsRecordID(t *testing.T) {
	store := newFakeStore()
	store.records["eb-1"] = &Record{ID: "rec123", Fields: models.Event{Title: "Old title", SourceEventID: "eb-1"}}
	pusher := &Pusher{Store: store, Logger: zerolog.Nop()}

	result := pusher.Push(context.Background(), []models.Event{{Title: "New title", SourceEventID: "eb-1"}})
	if result.Updated != 1 {
		t.Fatalf("result = %+v", result)
	}
	if got := store.records["eb-1"]; got.ID != "rec123" || got.Fields.Title != "New title" {
		t.Fatalf("record = %+v", got)
	}
}

func TestPushCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pusher := &Pusher{Store: newFakeStore(), Logger: zerolog.Nop()}
	result := pusher.Push(ctx, testEvents())
	if result.Errors != 2 || result.Created != 0 {
		t.Fatalf("cancelled push should count remaining as errors: %+v", result)
	}
}
