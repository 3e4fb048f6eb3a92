package rebalancing

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// WeightTolerance is the allowed drift of the weight sum around 1.0.
// Repeated float formatting round-trips land inside this band.
const WeightTolerance = 1e-6

// AllocationStore persists a validated weight set atomically.
type AllocationStore interface {
	UpdateAllocations(portfolioID int64, weights map[string]float64) error
}

// Service validates target allocations and commits them. Persistence is
// all-or-nothing: an invalid set never reaches the store, and a store
// failure leaves the previous allocations untouched.
type Service struct {
	store AllocationStore
	log   zerolog.Logger
}

// NewService creates a new rebalancing service
func NewService(store AllocationStore, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log.With().Str("service", "rebalancing").Logger(),
	}
}

// Validate checks a target weight set: every weight in [0, 1] and the
// sum within WeightTolerance of 1.0. The returned error wraps
// domain.ErrAllocationInvalid and names every violation, not just the
// first.
func Validate(weights map[string]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: no weights given", domain.ErrAllocationInvalid)
	}

	// Deterministic order so the same bad input reports the same error.
	tickers := make([]string, 0, len(weights))
	for ticker := range weights {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var problems []string
	sum := 0.0
	for _, ticker := range tickers {
		w := weights[ticker]
		if w < 0 || w > 1 {
			problems = append(problems, fmt.Sprintf("%s weight %.6f outside [0, 1]", ticker, w))
		}
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		problems = append(problems, fmt.Sprintf("weights sum to %.6f, expected 1.0", sum))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrAllocationInvalid, problems)
	}
	return nil
}

// Rebalance validates the target weights and, only if they pass, commits
// them as the portfolio's allocations.
func (s *Service) Rebalance(portfolioID int64, weights map[string]float64) error {
	if err := Validate(weights); err != nil {
		s.log.Warn().Err(err).
			Int64("portfolio_id", portfolioID).
			Msg("Rejected invalid allocation")
		return err
	}

	if err := s.store.UpdateAllocations(portfolioID, weights); err != nil {
		return fmt.Errorf("committing allocations for portfolio %d: %w", portfolioID, err)
	}

	s.log.Info().
		Int64("portfolio_id", portfolioID).
		Int("tickers", len(weights)).
		Msg("Allocations updated")
	return nil
}
