package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultIdentityBaseURL = "https://api.infosimples.com/api/v2/consultas/receita-federal/cpf"

// IdentityRecord is the registry's view of one person.
type IdentityRecord struct {
	Name         string `json:"nome"`
	CPF          string `json:"ns_cpf"`
	BirthDate    string `json:"data_nascimento"`
	Situation    string `json:"situacao_cadastral"`
	SituationDay string `json:"data_inscricao"`
}

type identityResponse struct {
	Code        int              `json:"code"`
	CodeMessage string           `json:"code_message"`
	Data        []IdentityRecord `json:"data"`
}

// IdentityClient queries the federal CPF registry through an aggregator API.
type IdentityClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewIdentityClient builds a registry client.
func NewIdentityClient(token, baseURL string, logger *slog.Logger) *IdentityClient {
	if baseURL == "" {
		baseURL = defaultIdentityBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &IdentityClient{
		token:   token,
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// ConsultCPF validates the document locally, then looks it up in the
// registry. The birthdate is accepted in any of the common spellings.
func (c *IdentityClient) ConsultCPF(ctx context.Context, cpf, birthdate string) (*IdentityRecord, error) {
	if c.token == "" {
		return nil, fmt.Errorf("identity API token is not set")
	}
	if err := ValidateCPF(cpf); err != nil {
		return nil, err
	}
	formattedDate, err := FormatBirthdate(birthdate)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("cpf", NormalizeCPF(cpf))
	form.Set("birthdate", formattedDate)
	form.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity API returned status %d", resp.StatusCode)
	}

	var parsed identityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}

	switch {
	case parsed.Code == 200:
		if len(parsed.Data) == 0 {
			return nil, fmt.Errorf("identity API returned no records")
		}
		return &parsed.Data[0], nil
	case parsed.Code >= 600 && parsed.Code <= 799:
		// The aggregator reports "document not found" and malformed-input
		// conditions in this range.
		return nil, fmt.Errorf("identity lookup failed: %s", parsed.CodeMessage)
	default:
		return nil, fmt.Errorf("identity API returned unexpected code %d", parsed.Code)
	}
}
