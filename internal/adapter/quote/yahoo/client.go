// Package yahoo implements domain.QuoteProvider on Yahoo Finance via go-yfinance.
package yahoo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Client fetches quotes from Yahoo Finance
type Client struct {
	log zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

type lookupResult struct {
	quote *domain.Quote
	err   error
}

// GetQuote fetches the latest quote for ticker.
// go-yfinance calls are not cancellable, so the lookup runs in its own
// goroutine and is abandoned when ctx is done.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	done := make(chan lookupResult, 1)
	go func() {
		quote, err := c.lookup(symbol)
		done <- lookupResult{quote: quote, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("yahoo lookup for %s abandoned: %w", symbol, ctx.Err())
	case res := <-done:
		return res.quote, res.err
	}
}

func (c *Client) lookup(symbol string) (*domain.Quote, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to create ticker: %w", err))
	}
	defer t.Close()

	q, err := t.Quote()
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to get quote: %w", err))
	}
	if q == nil {
		return nil, domain.ErrNoQuoteData
	}

	// Previous close is optional; without it the day change is reported as zero
	var previousClose float64
	info, err := t.Info()
	if err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("Info unavailable, skipping previous close")
	} else if info != nil {
		previousClose = info.RegularMarketPreviousClose
	}

	return buildQuote(q.RegularMarketPrice, previousClose)
}

// buildQuote converts Yahoo's float prices into a domain quote
func buildQuote(price, previousClose float64) (*domain.Quote, error) {
	if price <= 0 {
		return nil, domain.ErrNoQuoteData
	}

	quote := &domain.Quote{
		Price:         decimal.NewFromFloat(price),
		PreviousClose: decimal.NewFromFloat(previousClose),
	}
	if previousClose > 0 {
		quote.ChangePct = quote.Price.Sub(quote.PreviousClose).Div(quote.PreviousClose).Mul(hundred).Round(4)
	}

	return quote, nil
}

// classifyError maps go-yfinance failures onto provider signals.
// The library reports HTTP failures as plain errors, so the message is inspected.
func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found") || strings.Contains(msg, "no data"):
		return fmt.Errorf("%w: %w", domain.ErrNoQuoteData, err)
	default:
		return err
	}
}
