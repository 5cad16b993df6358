package sqlite

import (
	"context"
	"time"

	"github.com/pratik-mahalle/creditwatch/internal/domain/portfolio"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/errors"
)

// PortfolioRepository is a sqlite-backed portfolio data source. The
// snapshot reads entities and the aggregate exposure inside one
// transaction so concentration ratios stay consistent within a pass.
type PortfolioRepository struct {
	db *DB
}

// NewPortfolioRepository creates a portfolio repository.
func NewPortfolioRepository(db *DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

var _ portfolio.Source = (*PortfolioRepository)(nil)

// Snapshot returns all entities and the total exposure from a single
// consistent read.
func (r *PortfolioRepository) Snapshot(ctx context.Context) (*portfolio.Snapshot, error) {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin snapshot transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, name, credit_exposure, gross_exposure, external_rating, internal_rating, days_past_due
		FROM portfolio_entities ORDER BY id
	`)
	if err != nil {
		return nil, errors.DatabaseError("Failed to read portfolio entities", err)
	}
	defer rows.Close()

	snap := &portfolio.Snapshot{TakenAt: time.Now().UTC()}
	for rows.Next() {
		var e portfolio.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.CreditExposure, &e.GrossExposure,
			&e.ExternalRating, &e.InternalRating, &e.DaysPastDue); err != nil {
			return nil, errors.DatabaseError("Failed to scan portfolio entity", err)
		}
		snap.Entities = append(snap.Entities, e)
		snap.TotalExposure += e.CreditExposure
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to read portfolio entities", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit snapshot transaction", err)
	}
	return snap, nil
}

// ReplaceAll swaps the stored portfolio for the given entities in one
// transaction. Used by the host to push fresh portfolio data.
func (r *PortfolioRepository) ReplaceAll(ctx context.Context, entities []portfolio.Entity) error {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM portfolio_entities`); err != nil {
		return errors.DatabaseError("Failed to clear portfolio entities", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO portfolio_entities (id, name, credit_exposure, gross_exposure, external_rating, internal_rating, days_past_due)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.DatabaseError("Failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, e := range entities {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.CreditExposure, e.GrossExposure,
			e.ExternalRating, e.InternalRating, e.DaysPastDue); err != nil {
			return errors.DatabaseError("Failed to insert portfolio entity", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit transaction", err)
	}
	return nil
}
