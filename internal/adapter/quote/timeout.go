// Package quote holds QuoteProvider implementations and decorators.
package quote

import (
	"context"
	"time"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// DefaultTimeout bounds a single quote lookup
const DefaultTimeout = 5 * time.Second

type timeoutProvider struct {
	next    domain.QuoteProvider
	timeout time.Duration
}

// WithTimeout wraps a provider so that every lookup is cancelled after timeout.
// A timed out lookup fails with an error wrapping context.DeadlineExceeded,
// which callers treat as the provider being unavailable.
func WithTimeout(next domain.QuoteProvider, timeout time.Duration) domain.QuoteProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &timeoutProvider{next: next, timeout: timeout}
}

func (p *timeoutProvider) GetQuote(ctx context.Context, ticker string) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.next.GetQuote(ctx, ticker)
}
