// Package shortlink issues short opaque contact links and records the click
// when one is followed.
package shortlink

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"quoteserver/quote"
)

// shortIDLength is how many characters of the generated ID make it into the
// public link. Long enough to avoid collisions at this traffic level while
// keeping WhatsApp-forwarded links short.
const shortIDLength = 8

// ErrLinkNotFound reports an unknown or expired short ID.
var ErrLinkNotFound = errors.New("short link not found")

// ClickRecorder persists one contact click against a supplier.
type ClickRecorder interface {
	RecordClick(ctx context.Context, supplierID, requesterName, requesterEmail, requesterPhone, search string) error
}

// Issuer maps short IDs to contact payloads. Links live in memory only; a
// restart invalidates outstanding links, which is acceptable because a link
// is normally followed within minutes of being issued.
type Issuer struct {
	baseURL  string
	recorder ClickRecorder
	logger   *slog.Logger

	mu    sync.RWMutex
	links map[string]quote.LinkPayload
}

// NewIssuer builds an issuer. baseURL is the public server address the short
// links point at, e.g. "https://orcamentos.example.com".
func NewIssuer(baseURL string, recorder ClickRecorder, logger *slog.Logger) *Issuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Issuer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		recorder: recorder,
		logger:   logger,
		links:    make(map[string]quote.LinkPayload),
	}
}

// Issue stores the payload under a fresh short ID and returns the public
// short URL.
func (i *Issuer) Issue(payload quote.LinkPayload) (string, error) {
	if payload.LongURL == "" {
		return "", errors.New("long URL is required")
	}

	shortID := newShortID()

	i.mu.Lock()
	// Collisions are vanishingly rare but cheap to dodge.
	for {
		if _, taken := i.links[shortID]; !taken {
			break
		}
		shortID = newShortID()
	}
	i.links[shortID] = payload
	i.mu.Unlock()

	return i.baseURL + "/api/" + shortID, nil
}

// Resolve looks a short ID up, records the click and returns the long URL to
// redirect to. A click-recording failure does not block the redirect.
func (i *Issuer) Resolve(ctx context.Context, shortID string) (string, error) {
	i.mu.RLock()
	payload, ok := i.links[shortID]
	i.mu.RUnlock()
	if !ok {
		return "", ErrLinkNotFound
	}

	if i.recorder != nil {
		err := i.recorder.RecordClick(ctx, payload.SupplierID,
			payload.Requester.Name, payload.Requester.Email, payload.Requester.Phone, payload.Search)
		if err != nil {
			i.logger.Error("failed to record click",
				"short_id", shortID, "supplier_id", payload.SupplierID, "error", err)
		}
	}

	return payload.LongURL, nil
}

func newShortID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id[:shortIDLength]
}

var _ quote.ActionLinkIssuer = (*Issuer)(nil)
