package portfolio

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// Repository persists portfolios, positions and allocations in the main
// application database. Each analytics computation loads a fresh
// snapshot through it; the engine itself holds no state.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// CreatePortfolio creates a new named portfolio and returns its ID.
func (r *Repository) CreatePortfolio(name, description string) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO portfolios (name, description) VALUES (?, ?)`,
		name, description,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create portfolio %q: %w", name, err)
	}
	return result.LastInsertId()
}

// DeletePortfolio removes a portfolio and its allocations.
func (r *Repository) DeletePortfolio(id int64) error {
	result, err := r.db.Exec(`DELETE FROM portfolios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// GetPortfolio loads one portfolio with its allocations and the
// positions they reference.
func (r *Repository) GetPortfolio(id int64) (*domain.Portfolio, error) {
	var p domain.Portfolio
	err := r.db.QueryRow(
		`SELECT id, name, description, created_at FROM portfolios WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("portfolio %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio %d: %w", id, err)
	}

	rows, err := r.db.Query(`
		SELECT a.ticker, a.weight, p.shares, p.sector, p.current_price, p.last_updated
		FROM portfolio_allocations a
		JOIN positions p ON p.ticker = a.ticker
		WHERE a.portfolio_id = ?
		ORDER BY a.ticker
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load allocations for portfolio %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var alloc domain.Allocation
		var pos domain.Position
		alloc.PortfolioID = id

		if err := rows.Scan(&alloc.Ticker, &alloc.Weight, &pos.Shares, &pos.Sector, &pos.CurrentPrice, &pos.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		pos.Ticker = alloc.Ticker

		p.Allocations = append(p.Allocations, alloc)
		p.Positions = append(p.Positions, pos)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	return &p, nil
}

// ListPortfolios returns all portfolios without their holdings.
func (r *Repository) ListPortfolios() ([]domain.Portfolio, error) {
	rows, err := r.db.Query(`SELECT id, name, description, created_at FROM portfolios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []domain.Portfolio
	for rows.Next() {
		var p domain.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// UpsertPosition saves or updates a position record.
func (r *Repository) UpsertPosition(pos domain.Position) error {
	_, err := r.db.Exec(`
		INSERT INTO positions (ticker, shares, sector, current_price, last_updated)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (ticker) DO UPDATE SET
			shares = excluded.shares,
			sector = excluded.sector,
			current_price = excluded.current_price,
			last_updated = CURRENT_TIMESTAMP
	`, pos.Ticker, pos.Shares, pos.Sector, pos.CurrentPrice)
	if err != nil {
		return fmt.Errorf("failed to upsert position %s: %w", pos.Ticker, err)
	}
	return nil
}

// RemovePosition deletes a position and, via cascade, its allocations.
func (r *Repository) RemovePosition(ticker string) error {
	result, err := r.db.Exec(`DELETE FROM positions WHERE ticker = ?`, ticker)
	if err != nil {
		return fmt.Errorf("failed to remove position %s: %w", ticker, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("position %s: %w", ticker, domain.ErrNotFound)
	}
	return nil
}

// AddToPortfolio assigns a position to a portfolio with a target weight.
func (r *Repository) AddToPortfolio(portfolioID int64, ticker string, weight float64) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO portfolio_allocations (portfolio_id, ticker, weight)
		VALUES (?, ?, ?)
	`, portfolioID, ticker, weight)
	if err != nil {
		return fmt.Errorf("failed to add %s to portfolio %d: %w", ticker, portfolioID, err)
	}
	return nil
}

// RemoveFromPortfolio drops a ticker's allocation from a portfolio.
func (r *Repository) RemoveFromPortfolio(portfolioID int64, ticker string) error {
	_, err := r.db.Exec(`
		DELETE FROM portfolio_allocations WHERE portfolio_id = ? AND ticker = ?
	`, portfolioID, ticker)
	if err != nil {
		return fmt.Errorf("failed to remove %s from portfolio %d: %w", ticker, portfolioID, err)
	}
	return nil
}

// UpdateAllocations commits a validated weight set in one transaction.
// Tickers absent from the map keep their existing weight: the commit is
// an upsert per supplied ticker, not a whole-portfolio replace.
func (r *Repository) UpdateAllocations(portfolioID int64, weights map[string]float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO portfolio_allocations (portfolio_id, ticker, weight)
		VALUES (?, ?, ?)
		ON CONFLICT (portfolio_id, ticker) DO UPDATE SET weight = excluded.weight
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare allocation upsert: %w", err)
	}
	defer stmt.Close()

	for ticker, weight := range weights {
		if _, err := stmt.Exec(portfolioID, ticker, weight); err != nil {
			return fmt.Errorf("failed to upsert weight for %s: %w", ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit allocations: %w", err)
	}

	r.log.Info().
		Int64("portfolio_id", portfolioID).
		Int("tickers", len(weights)).
		Msg("Updated allocations")

	return nil
}

// ListTickers returns the distinct tickers across all positions.
func (r *Repository) ListTickers() ([]string, error) {
	rows, err := r.db.Query(`SELECT ticker FROM positions ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickers: %w", err)
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}
