package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"estate/internal/model"
)

const listingColumns = `
	property_id,
	property_type,
	COALESCE(location, '') AS location,
	COALESCE(address, '') AS address,
	price::float8 AS price,
	COALESCE(bhk_type, '') AS bhk_type,
	area::float8 AS area,
	COALESCE(furnished_status, '') AS furnished_status,
	COALESCE(property_age, '') AS property_age,
	COALESCE(contact_number, '') AS contact_number,
	COALESCE(operator_id, 0) AS operator_id,
	COALESCE(features, '') AS features,
	COALESCE(amenities, '') AS amenities,
	COALESCE(parking, false) AS parking,
	COALESCE(lift_available, false) AS lift_available,
	is_active,
	created_at`

// PostgresRepository reads listings from the properties table
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository. driver is
// "postgres" (lib/pq) or "pgx" (pgx stdlib).
func NewPostgresRepository(driver, dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryWithDB wraps an existing handle
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// scopeClause returns the WHERE fragment and args restricting rows to scope.
// ok=false means the scope can see nothing and no query is needed.
func scopeClause(scope model.VisibilityScope, argIndex int) (string, []any, bool) {
	if scope.Unrestricted() {
		return "", nil, true
	}
	if scope.Role == model.RoleCustomer && scope.AgentID > 0 {
		return fmt.Sprintf(" AND operator_id = $%d", argIndex), []any{scope.AgentID}, true
	}
	return "", nil, false
}

// FetchActiveListings implements ListingStore
func (r *PostgresRepository) FetchActiveListings(ctx context.Context, scope model.VisibilityScope) ([]model.Listing, error) {
	clause, args, ok := scopeClause(scope, 1)
	if !ok {
		return []model.Listing{}, nil
	}

	query := `SELECT ` + listingColumns + ` FROM properties WHERE is_active = true` + clause + ` ORDER BY property_id`

	listings := []model.Listing{}
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch active listings: %w", err)
	}
	for i := range listings {
		listings[i].Normalize()
	}
	return listings, nil
}

// GetActiveListing implements ListingStore
func (r *PostgresRepository) GetActiveListing(ctx context.Context, scope model.VisibilityScope, id int64) (*model.Listing, error) {
	clause, args, ok := scopeClause(scope, 2)
	if !ok {
		return nil, ErrListingNotFound
	}

	query := `SELECT ` + listingColumns + ` FROM properties WHERE is_active = true AND property_id = $1` + clause

	var listing model.Listing
	err := r.db.GetContext(ctx, &listing, query, append([]any{id}, args...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	listing.Normalize()
	return &listing, nil
}
