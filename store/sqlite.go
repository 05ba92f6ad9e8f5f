package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/casaflow/aicore/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS units (
			unit_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			unit_number TEXT NOT NULL,
			address TEXT NOT NULL,
			zone TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			property_type TEXT NOT NULL DEFAULT '',
			listing_type TEXT NOT NULL DEFAULT 'rent',
			price REAL NOT NULL DEFAULT 0,
			bedrooms INTEGER NOT NULL DEFAULT 0,
			bathrooms INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'available',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_units_tenant ON units(tenant_id)`,
		`CREATE TABLE IF NOT EXISTS leads (
			lead_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_tenant ON leads(tenant_id)`,
		`CREATE TABLE IF NOT EXISTS showings (
			showing_id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			unit_id TEXT NOT NULL,
			lead_id TEXT NOT NULL,
			scheduled_at DATETIME NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'requested',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (unit_id) REFERENCES units(unit_id),
			FOREIGN KEY (lead_id) REFERENCES leads(lead_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_showings_tenant ON showings(tenant_id, scheduled_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateUnit inserts a new unit.
func (s *SQLiteStore) CreateUnit(ctx context.Context, unit *domain.Unit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (unit_id, tenant_id, unit_number, address, zone, description,
			property_type, listing_type, price, bedrooms, bathrooms, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		unit.UnitID, unit.TenantID, unit.UnitNumber, unit.Address, unit.Zone, unit.Description,
		unit.PropertyType, string(unit.ListingType), unit.Price, unit.Bedrooms, unit.Bathrooms,
		string(unit.Status), unit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

// ListUnits returns all units belonging to the tenant.
func (s *SQLiteStore) ListUnits(ctx context.Context, tenantID string) ([]domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT unit_id, tenant_id, unit_number, address, zone, description,
			property_type, listing_type, price, bedrooms, bathrooms, status, created_at
		FROM units WHERE tenant_id = ? ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *u)
	}
	return units, rows.Err()
}

// GetUnitByID returns the unit only if it belongs to the tenant.
func (s *SQLiteStore) GetUnitByID(ctx context.Context, tenantID, unitID string) (*domain.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT unit_id, tenant_id, unit_number, address, zone, description,
			property_type, listing_type, price, bedrooms, bathrooms, status, created_at
		FROM units WHERE tenant_id = ? AND unit_id = ?`, tenantID, unitID)
	return getUnit(row)
}

// GetUnitByNumber returns the unit only if it belongs to the tenant.
func (s *SQLiteStore) GetUnitByNumber(ctx context.Context, tenantID, unitNumber string) (*domain.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT unit_id, tenant_id, unit_number, address, zone, description,
			property_type, listing_type, price, bedrooms, bathrooms, status, created_at
		FROM units WHERE tenant_id = ? AND unit_number = ?`, tenantID, unitNumber)
	return getUnit(row)
}

// CreateLead inserts a new lead.
func (s *SQLiteStore) CreateLead(ctx context.Context, lead *domain.Lead) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (lead_id, tenant_id, first_name, last_name, phone, email, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.LeadID, lead.TenantID, lead.FirstName, lead.LastName, lead.Phone, lead.Email,
		lead.Source, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

// ListLeads returns all leads belonging to the tenant.
func (s *SQLiteStore) ListLeads(ctx context.Context, tenantID string) ([]domain.Lead, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT lead_id, tenant_id, first_name, last_name, phone, email, source, created_at
		FROM leads WHERE tenant_id = ? ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		var l domain.Lead
		if err := rows.Scan(&l.LeadID, &l.TenantID, &l.FirstName, &l.LastName,
			&l.Phone, &l.Email, &l.Source, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// CreateShowing inserts a new showing.
func (s *SQLiteStore) CreateShowing(ctx context.Context, showing *domain.Showing) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO showings (showing_id, tenant_id, unit_id, lead_id, scheduled_at, notes, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		showing.ShowingID, showing.TenantID, showing.UnitID, showing.LeadID,
		showing.ScheduledAt, showing.Notes, string(showing.Status), showing.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create showing: %w", err)
	}
	return nil
}

// ListShowings returns all showings belonging to the tenant.
func (s *SQLiteStore) ListShowings(ctx context.Context, tenantID string) ([]domain.Showing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT showing_id, tenant_id, unit_id, lead_id, scheduled_at, notes, status, created_at
		FROM showings WHERE tenant_id = ? ORDER BY scheduled_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list showings: %w", err)
	}
	defer rows.Close()

	var showings []domain.Showing
	for rows.Next() {
		var sh domain.Showing
		var status string
		if err := rows.Scan(&sh.ShowingID, &sh.TenantID, &sh.UnitID, &sh.LeadID,
			&sh.ScheduledAt, &sh.Notes, &status, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan showing: %w", err)
		}
		sh.Status = domain.ShowingStatus(status)
		showings = append(showings, sh)
	}
	return showings, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUnit(r rowScanner) (*domain.Unit, error) {
	var u domain.Unit
	var listing, status string
	if err := r.Scan(&u.UnitID, &u.TenantID, &u.UnitNumber, &u.Address, &u.Zone, &u.Description,
		&u.PropertyType, &listing, &u.Price, &u.Bedrooms, &u.Bathrooms, &status, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan unit: %w", err)
	}
	u.ListingType = domain.ListingType(listing)
	u.Status = domain.UnitStatus(status)
	return &u, nil
}

// getUnit maps sql.ErrNoRows to (nil, nil): not found is not an error,
// callers decide how to surface it.
func getUnit(row *sql.Row) (*domain.Unit, error) {
	u, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
