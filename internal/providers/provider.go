package providers

import (
	"context"

	"github.com/skydeals/flightmonitor/internal/models"
)

// Provider supplies candidate offers for a route and date. Implementations
// must return offers that satisfy models.Offer.Validate; the scoring engine
// assumes the invariants hold.
type Provider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
