// Package export persists backtest results into DuckDB and writes them out
// as parquet files.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-orchestrator/internal/logger"
	"github.com/rxtech-lab/argo-orchestrator/internal/types"
	"github.com/rxtech-lab/argo-orchestrator/pkg/errors"
	"go.uber.org/zap"
)

const (
	TradesTable = "trades"
	EquityTable = "equity_curve"
)

// Files are the parquet files written by Export.
type Files struct {
	Trades string `json:"trades"`
	Equity string `json:"equity"`
}

// Exporter stores backtest results in an in-memory DuckDB database.
type Exporter struct {
	db     *sql.DB
	sq     squirrel.StatementBuilderType
	logger *logger.Logger
	mu     sync.Mutex
}

// NewExporter opens the database and creates the tables.
func NewExporter(log *logger.Logger) (*Exporter, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, "failed to open DuckDB connection", err)
	}

	e := &Exporter{
		db:     db,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger: log.Named("export"),
		mu:     sync.Mutex{},
	}

	if err := e.initialize(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return e, nil
}

func (e *Exporter) initialize() error {
	_, err := e.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			symbol TEXT,
			strategy TEXT,
			time TIMESTAMP,
			side TEXT,
			price DOUBLE,
			quantity DOUBLE,
			realized_pnl DOUBLE,
			balance DOUBLE,
			position DOUBLE,
			confidence DOUBLE,
			reason TEXT
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create trades table", err)
	}

	_, err = e.db.Exec(`
		CREATE TABLE IF NOT EXISTS equity_curve (
			symbol TEXT,
			time TIMESTAMP,
			balance DOUBLE,
			equity DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create equity table", err)
	}

	return nil
}

// Write inserts the trades and equity curve of result in one transaction.
func (e *Exporter) Write(ctx context.Context, result types.BacktestResult) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to begin transaction", err)
	}

	for _, trade := range result.Trades {
		_, err = e.sq.
			Insert(TradesTable).
			Columns("symbol", "strategy", "time", "side", "price", "quantity",
				"realized_pnl", "balance", "position", "confidence", "reason").
			Values(result.Symbol, string(result.Strategy), trade.Time, string(trade.Side), trade.Price, trade.Quantity,
				trade.RealizedPnL, trade.Balance, trade.Position, trade.Confidence, trade.Reason).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			_ = tx.Rollback()

			return errors.Wrap(errors.ErrCodeExportFailed, "failed to insert trade", err)
		}
	}

	for _, sample := range result.EquityCurve {
		_, err = e.sq.
			Insert(EquityTable).
			Columns("symbol", "time", "balance", "equity").
			Values(result.Symbol, sample.Time, sample.Balance, sample.Equity).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			_ = tx.Rollback()

			return errors.Wrap(errors.ErrCodeExportFailed, "failed to insert equity sample", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to commit export", err)
	}

	e.logger.Debug("backtest stored",
		zap.String("symbol", result.Symbol),
		zap.Int("trades", len(result.Trades)),
		zap.Int("equity", len(result.EquityCurve)),
	)

	return nil
}

// Export copies both tables into parquet files under dir.
func (e *Exporter) Export(ctx context.Context, dir string) (Files, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, errors.Wrap(errors.ErrCodeExportFailed, "failed to create export directory", err)
	}

	files := Files{
		Trades: filepath.Join(dir, TradesTable+".parquet"),
		Equity: filepath.Join(dir, EquityTable+".parquet"),
	}

	if err := e.copyTo(ctx, TradesTable, files.Trades); err != nil {
		return Files{}, err
	}

	if err := e.copyTo(ctx, EquityTable, files.Equity); err != nil {
		return Files{}, err
	}

	e.logger.Info("backtest exported", zap.String("trades", files.Trades), zap.String("equity", files.Equity))

	return files, nil
}

func (e *Exporter) copyTo(ctx context.Context, table, path string) error {
	query := fmt.Sprintf(`COPY (SELECT * FROM %s ORDER BY time ASC) TO '%s' (FORMAT PARQUET)`, table, quote(path))

	if _, err := e.db.ExecContext(ctx, query); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to export %s", table)
	}

	return nil
}

// Count returns the number of rows stored in table.
func (e *Exporter) Count(ctx context.Context, table string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	query, args, err := e.sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeExportFailed, "failed to build count query", err)
	}

	var count int
	if err := e.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to count %s", table)
	}

	return count, nil
}

// RealizedPnL sums the realized P&L of the stored trades of symbol.
func (e *Exporter) RealizedPnL(ctx context.Context, symbol string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	query, args, err := e.sq.
		Select("SUM(realized_pnl)").
		From(TradesTable).
		Where(squirrel.Eq{"symbol": symbol}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeExportFailed, "failed to build pnl query", err)
	}

	var total sql.NullFloat64
	if err := e.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, errors.Wrap(errors.ErrCodeExportFailed, "failed to sum pnl", err)
	}

	if !total.Valid {
		return 0, nil
	}

	return total.Float64, nil
}

// Close releases the database.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.db == nil {
		return nil
	}

	err := e.db.Close()
	e.db = nil

	return err
}

// Backtest writes result to parquet files under dir.
func Backtest(ctx context.Context, result types.BacktestResult, dir string, log *logger.Logger) (Files, error) {
	exporter, err := NewExporter(log)
	if err != nil {
		return Files{}, err
	}
	defer exporter.Close()

	if err := exporter.Write(ctx, result); err != nil {
		return Files{}, err
	}

	return exporter.Export(ctx, dir)
}

func quote(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}
