package marketdata

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/rs/zerolog"

	"github.com/quantfolio/quantfolio/internal/domain"
)

// HistoryDB stores daily OHLCV history, one database file per symbol.
// Price history is append-only from the provider's perspective; readers
// treat it as immutable input.
type HistoryDB struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryDB creates a new history database accessor
func NewHistoryDB(historyDir string, log zerolog.Logger) (*HistoryDB, error) {
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &HistoryDB{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_db").Logger(),
	}, nil
}

// GetDailyPrices fetches daily bars for a symbol within [start, end],
// ordered by date ascending. Dates are YYYY-MM-DD strings. A symbol with
// no stored history yields an empty slice, not an error.
func (h *HistoryDB) GetDailyPrices(symbol, start, end string) ([]domain.PriceBar, error) {
	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT date, open, high, low, close, volume
		FROM daily_prices
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var bars []domain.PriceBar
	for rows.Next() {
		var bar domain.PriceBar
		var volume sql.NullInt64

		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		if volume.Valid {
			bar.Volume = &volume.Int64
		}
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return bars, nil
}

// SaveDailyPrices upserts daily bars for a symbol.
func (h *HistoryDB) SaveDailyPrices(symbol string, bars []domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	db, err := h.openHistoryDB(symbol)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO daily_prices (date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		var volume interface{}
		if bar.Volume != nil {
			volume = *bar.Volume
		}
		if _, err := stmt.Exec(bar.Date, bar.Open, bar.High, bar.Low, bar.Close, volume); err != nil {
			return fmt.Errorf("failed to insert bar for %s on %s: %w", symbol, bar.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}

	h.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Msg("Saved daily prices")

	return nil
}

// openHistoryDB opens the per-symbol history database, creating the
// schema on first use.
func (h *HistoryDB) openHistoryDB(symbol string) (*sql.DB, error) {
	// Convert symbol format: BRK.B -> BRK_B
	dbSymbol := strings.ReplaceAll(symbol, ".", "_")
	dbPath := filepath.Join(h.historyDir, dbSymbol+".db")

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database for %s: %w", symbol, err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS daily_prices (
			date TEXT PRIMARY KEY,
			open REAL NOT NULL DEFAULT 0,
			high REAL NOT NULL DEFAULT 0,
			low REAL NOT NULL DEFAULT 0,
			close REAL NOT NULL,
			volume INTEGER
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema for %s: %w", symbol, err)
	}

	return db, nil
}
