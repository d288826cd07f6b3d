package alertstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arbiscout/backend/internal/domain"
)

// PostgresStore persists alerts in Postgres. The alerts table schema is
// owned by the migrations of the surrounding platform; this store only
// reads and writes the record shape.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts an alert inside a transaction
func (s *PostgresStore) Save(ctx context.Context, alert *domain.Alert) error {
	evidence, err := json.Marshal(alert.Evidence)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO alerts (
			id, product_id, asin, source_price, target_price,
			estimated_fees, net_profit, profit_margin, confidence,
			match_method, evidence, price_trend, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	if _, err := tx.ExecContext(
		ctx,
		query,
		alert.ID,
		alert.ProductID,
		alert.ASIN,
		alert.SourcePrice,
		alert.TargetPrice,
		alert.EstimatedFees,
		alert.NetProfit,
		alert.ProfitMargin,
		alert.Confidence,
		string(alert.Method),
		evidence,
		string(alert.Trend),
		alert.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alert: %w", err)
	}
	return nil
}

// RecentByProduct returns the newest alerts for a product, newest first
func (s *PostgresStore) RecentByProduct(ctx context.Context, productID string, limit int) ([]domain.Alert, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, product_id, asin, source_price, target_price,
		       estimated_fees, net_profit, profit_margin, confidence,
		       match_method, evidence, price_trend, created_at
		FROM alerts
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var alert domain.Alert
		var method, trend string
		var evidence []byte

		if err := rows.Scan(
			&alert.ID,
			&alert.ProductID,
			&alert.ASIN,
			&alert.SourcePrice,
			&alert.TargetPrice,
			&alert.EstimatedFees,
			&alert.NetProfit,
			&alert.ProfitMargin,
			&alert.Confidence,
			&method,
			&evidence,
			&trend,
			&alert.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.Method = domain.MatchMethod(method)
		alert.Trend = domain.PriceTrend(trend)
		if len(evidence) > 0 {
			_ = json.Unmarshal(evidence, &alert.Evidence)
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}
