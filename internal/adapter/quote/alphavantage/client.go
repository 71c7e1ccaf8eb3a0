// Package alphavantage implements domain.QuoteProvider on the Alpha Vantage
// GLOBAL_QUOTE endpoint.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// DefaultBaseURL is the public Alpha Vantage query endpoint
const DefaultBaseURL = "https://www.alphavantage.co/query"

// Client queries Alpha Vantage for real-time quotes
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new Alpha Vantage client
// An empty baseURL selects DefaultBaseURL
func NewClient(apiKey, baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
		log:        log.With().Str("client", "alphavantage").Logger(),
	}
}

// GetQuote fetches the latest quote for ticker
// Returns domain.ErrRateLimited when the API key is throttled and
// domain.ErrNoQuoteData when Alpha Vantage knows nothing about the symbol
func (c *Client) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", ticker)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: alphavantage returned status %d", domain.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	quote, err := parseGlobalQuote(body)
	if err != nil {
		c.log.Debug().Err(err).Str("ticker", ticker).Msg("Quote lookup failed")
		return nil, err
	}

	return quote, nil
}

type globalQuoteResponse struct {
	GlobalQuote  map[string]string `json:"Global Quote"`
	Note         string            `json:"Note"`
	Information  string            `json:"Information"`
	ErrorMessage string            `json:"Error Message"`
}

// parseGlobalQuote decodes a GLOBAL_QUOTE body.
// Alpha Vantage answers HTTP 200 for throttling and unknown symbols, so the
// outcome is read from the body.
func parseGlobalQuote(body []byte) (*domain.Quote, error) {
	var resp globalQuoteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode global quote: %w", err)
	}

	if resp.Note != "" || isRateLimitMessage(resp.Information) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, firstNonEmpty(resp.Note, resp.Information))
	}
	if resp.Information != "" {
		return nil, fmt.Errorf("alphavantage: %s", resp.Information)
	}
	if resp.ErrorMessage != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoQuoteData, resp.ErrorMessage)
	}
	if len(resp.GlobalQuote) == 0 || resp.GlobalQuote["05. price"] == "" {
		return nil, domain.ErrNoQuoteData
	}

	price, err := decimal.NewFromString(resp.GlobalQuote["05. price"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}

	quote := &domain.Quote{Price: price}

	if raw := resp.GlobalQuote["08. previous close"]; raw != "" {
		if quote.PreviousClose, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("failed to parse previous close: %w", err)
		}
	}
	if raw := strings.TrimSuffix(resp.GlobalQuote["10. change percent"], "%"); raw != "" {
		if quote.ChangePct, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("failed to parse change percent: %w", err)
		}
	}

	return quote, nil
}

func isRateLimitMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "call frequency")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
