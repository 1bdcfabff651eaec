package scraper

import (
	"context"

	"github.com/tayseermbabiker/usa-events-board/internal/browser"
	"github.com/tayseermbabiker/usa-events-board/internal/models"
)

// Scraper extracts raw events from one upstream source using the browser
// session it is handed. Implementations tolerate partial page failures —
// a missing field becomes an empty value, not an error — and only return
// an error when the whole source is unusable. The session is owned by the
// caller; implementations never close it.
type Scraper interface {
	Name() string
	Scrape(ctx context.Context, session *browser.Session) ([]models.RawEvent, error)
}
