package registry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Registration is one hit on a council's public search page.
type Registration struct {
	Name     string `json:"name"`
	Register string `json:"register"`
	Status   string `json:"status"`
}

// CouncilClient looks professional registrations up on a class council's
// public search page. The councils expose no API, so results are scraped
// from the rendered HTML table.
type CouncilClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCouncilClient builds a council scraper for the given search page URL.
func NewCouncilClient(baseURL string, logger *slog.Logger) *CouncilClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CouncilClient{
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Verify searches the council for a registration number within a state and
// returns every matching row.
func (c *CouncilClient) Verify(ctx context.Context, uf, register string) ([]Registration, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("council search URL is not set")
	}

	query := url.Values{}
	query.Set("uf", uf)
	query.Set("inscricao", register)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create council request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("council request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("council search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse council page: %w", err)
	}

	registrations := parseRegistrations(doc)
	c.logger.Debug("council search finished",
		"uf", uf, "register", register, "results", len(registrations))
	return registrations, nil
}

// parseRegistrations extracts result rows. The councils render results as a
// plain table: name, register number, status.
func parseRegistrations(doc *goquery.Document) []Registration {
	var registrations []Registration

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		registration := Registration{
			Name:     cellText(cells.Eq(0)),
			Register: cellText(cells.Eq(1)),
			Status:   cellText(cells.Eq(2)),
		}
		if registration.Name == "" && registration.Register == "" {
			return
		}
		registrations = append(registrations, registration)
	})

	return registrations
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
